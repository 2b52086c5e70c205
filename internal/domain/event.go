package domain

// Topic names a stream of domain events. Live clients subscribe to topics by
// these names.
type Topic string

const (
	TopicTaskCreated    Topic = "taskCreated"
	TopicTaskUpdated    Topic = "taskUpdated"
	TopicTaskDeleted    Topic = "taskDeleted"
	TopicPendingCreated Topic = "pendingAssignmentCreated"
	TopicPendingDeleted Topic = "pendingAssignmentDeleted"
)

// Event is implemented by exactly one payload type per topic, so subscribers
// receive a concrete shape rather than an untyped value.
type Event interface {
	Topic() Topic
}

// TaskCreated is published after a task is durably created.
type TaskCreated struct {
	Task *Task
}

func (TaskCreated) Topic() Topic { return TopicTaskCreated }

// TaskUpdated is published after any durable change to a task, including
// assignment changes.
type TaskUpdated struct {
	Task *Task
}

func (TaskUpdated) Topic() Topic { return TopicTaskUpdated }

// TaskDeleted is published after a task is durably deleted.
type TaskDeleted struct {
	ID int64
}

func (TaskDeleted) Topic() Topic { return TopicTaskDeleted }

// PendingCreated is published after a pending assignment is durably recorded.
type PendingCreated struct {
	Pending *PendingAssignment
}

func (PendingCreated) Topic() Topic { return TopicPendingCreated }

// PendingDeleted is published after a pending assignment is durably removed,
// whether it resolved or was cancelled.
type PendingDeleted struct {
	ID int64
}

func (PendingDeleted) Topic() Topic { return TopicPendingDeleted }
