package handler

import (
	"time"

	"taskhub/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// TaskDTO is the JSON representation of a task.
type TaskDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  *int64 `json:"assignedTo"`
	CreatedBy   int64  `json:"createdBy"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toTaskDTO(t *domain.Task) TaskDTO {
	return TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func toTaskDTOs(tasks []domain.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = toTaskDTO(&tasks[i])
	}
	return dtos
}

// PendingAssignmentDTO is the JSON representation of a pending assignment.
type PendingAssignmentDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	TaskID    int64  `json:"taskId"`
	InvitedBy int64  `json:"invitedBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toPendingAssignmentDTO(p *domain.PendingAssignment) PendingAssignmentDTO {
	return PendingAssignmentDTO{
		ID:        p.ID,
		Email:     p.Email,
		TaskID:    p.TaskID,
		InvitedBy: p.InvitedBy,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPendingAssignmentDTOs(pendings []domain.PendingAssignment) []PendingAssignmentDTO {
	dtos := make([]PendingAssignmentDTO, len(pendings))
	for i := range pendings {
		dtos[i] = toPendingAssignmentDTO(&pendings[i])
	}
	return dtos
}

// EventEnvelope is the JSON shape streamed to live clients. Exactly one of
// Task, Pending, or ID is set, matching the event's topic.
type EventEnvelope struct {
	Event   string                `json:"event"`
	Task    *TaskDTO              `json:"task,omitempty"`
	Pending *PendingAssignmentDTO `json:"pendingAssignment,omitempty"`
	ID      *int64                `json:"id,omitempty"`
}

func toEventEnvelope(e domain.Event) EventEnvelope {
	env := EventEnvelope{Event: string(e.Topic())}
	switch evt := e.(type) {
	case domain.TaskCreated:
		dto := toTaskDTO(evt.Task)
		env.Task = &dto
	case domain.TaskUpdated:
		dto := toTaskDTO(evt.Task)
		env.Task = &dto
	case domain.TaskDeleted:
		id := evt.ID
		env.ID = &id
	case domain.PendingCreated:
		dto := toPendingAssignmentDTO(evt.Pending)
		env.Pending = &dto
	case domain.PendingDeleted:
		id := evt.ID
		env.ID = &id
	}
	return env
}
