package service

import (
	"context"
	"errors"
	"fmt"

	"taskhub/internal/bus"
	"taskhub/internal/domain"
)

// TaskService handles task CRUD and direct (by user id) assignment.
// Every durable write is acknowledged by the store before the matching
// event is published.
type TaskService struct {
	tasks domain.TaskRepository
	users domain.UserRepository
	bus   *bus.Bus
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, b *bus.Bus) *TaskService {
	return &TaskService{tasks: tasks, users: users, bus: b}
}

// Create creates a new task owned by the given user.
func (s *TaskService) Create(ctx context.Context, title, description string, createdBy int64) (*domain.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	task := &domain.Task{
		Title:       title,
		Description: description,
		CreatedBy:   createdBy,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.bus.Publish(domain.TopicTaskCreated, domain.TaskCreated{Task: task})
	return task, nil
}

// Get retrieves a task by id.
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// List returns tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

// Update applies a partial update. Nil fields are left unchanged.
func (s *TaskService) Update(ctx context.Context, id int64, title, description *string, completed *bool) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if *title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		task.Title = *title
	}
	if description != nil {
		task.Description = *description
	}
	if completed != nil {
		task.Completed = *completed
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.bus.Publish(domain.TopicTaskUpdated, domain.TaskUpdated{Task: task})
	return task, nil
}

// ToggleComplete flips the task's completion flag.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.bus.Publish(domain.TopicTaskUpdated, domain.TaskUpdated{Task: task})
	return task, nil
}

// Delete removes a task. Pending assignments pointing at it are left in
// place; they resolve to a not-found when their email registers.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(domain.TopicTaskDeleted, domain.TaskDeleted{ID: id})
	return nil
}

// Assign sets or clears the task's assignee by user id.
func (s *TaskService) Assign(ctx context.Context, taskID int64, userID *int64) (*domain.Task, error) {
	if userID != nil {
		if _, err := s.users.GetByID(ctx, *userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("assignee: %w", domain.ErrNotFound)
			}
			return nil, fmt.Errorf("get assignee: %w", err)
		}
	}

	task, err := s.tasks.UpdateAssignee(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(domain.TopicTaskUpdated, domain.TaskUpdated{Task: task})
	return task, nil
}
