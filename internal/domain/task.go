package domain

import (
	"context"
	"time"
)

// Task is a unit of work. AssignedTo is nil until the task is assigned,
// either directly or when a pending assignment for it resolves.
type Task struct {
	ID          int64
	Title       string
	Description string
	AssignedTo  *int64
	CreatedBy   int64
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing. Nil fields are ignored.
type TaskFilter struct {
	// Mine restricts results to tasks created by or assigned to this user.
	Mine *int64
	// Completed restricts results to tasks with this completion state.
	Completed *bool
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	// UpdateAssignee sets the task's assignee (nil clears it) in a single
	// statement and returns the updated task, or ErrNotFound if the task
	// no longer exists.
	UpdateAssignee(ctx context.Context, taskID int64, userID *int64) (*Task, error)
	Delete(ctx context.Context, id int64) error
}
