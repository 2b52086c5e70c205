package service

import (
	"context"
	"errors"
	"fmt"

	"taskhub/internal/bus"
	"taskhub/internal/domain"
)

// AssignmentService keeps task assignment consistent with invites sent to
// email addresses that do not have an account yet. Assigning a task to an
// unknown email records a pending assignment; when that email registers,
// every matching record is applied exactly once.
//
// Emails match by exact, case-sensitive comparison throughout.
type AssignmentService struct {
	users   domain.UserRepository
	tasks   domain.TaskRepository
	pending domain.PendingAssignmentRepository
	bus     *bus.Bus
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(users domain.UserRepository, tasks domain.TaskRepository, pending domain.PendingAssignmentRepository, b *bus.Bus) *AssignmentService {
	return &AssignmentService{users: users, tasks: tasks, pending: pending, bus: b}
}

// AssignByEmail assigns the task to the user with the given email. If no
// account matches, it records a pending assignment instead and returns the
// task unchanged; callers that need to tell "assigned" from "invited" check
// the pending records, not the task. The durable write always completes
// before the matching event is published.
func (s *AssignmentService) AssignByEmail(ctx context.Context, taskID int64, email string, requestedBy int64) (*domain.Task, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("look up user by email: %w", err)
	}

	if user != nil {
		userID := user.ID
		updated, err := s.tasks.UpdateAssignee(ctx, taskID, &userID)
		if err != nil {
			return nil, fmt.Errorf("assign task: %w", err)
		}
		s.bus.Publish(domain.TopicTaskUpdated, domain.TaskUpdated{Task: updated})
		return updated, nil
	}

	pending := &domain.PendingAssignment{
		Email:     email,
		TaskID:    taskID,
		InvitedBy: requestedBy,
	}
	if err := s.pending.Create(ctx, pending); err != nil {
		return nil, fmt.Errorf("create pending assignment: %w", err)
	}
	s.bus.Publish(domain.TopicPendingCreated, domain.PendingCreated{Pending: pending})
	return task, nil
}

// ResolutionResult reports the outcome of resolving one pending assignment.
type ResolutionResult struct {
	Pending *domain.PendingAssignment
	// Task is the updated task, or nil when it no longer existed.
	Task *domain.Task
	// Err carries this record's failure; other records are unaffected.
	Err error
}

// ResolveForNewUser applies every pending assignment recorded for the new
// user's email. Records resolve independently: a failure lands in that
// record's result and processing continues with the rest. A record whose
// task was deleted is removed and reports a not-found. A record whose task
// update failed transiently is kept so it can be retried or inspected.
// Calling this again for the same user finds no records and is a no-op.
func (s *AssignmentService) ResolveForNewUser(ctx context.Context, user *domain.User) ([]ResolutionResult, error) {
	records, err := s.pending.ListByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("list pending assignments: %w", err)
	}

	results := make([]ResolutionResult, 0, len(records))
	for i := range records {
		results = append(results, s.resolveOne(ctx, &records[i], user.ID))
	}
	return results, nil
}

func (s *AssignmentService) resolveOne(ctx context.Context, pending *domain.PendingAssignment, userID int64) ResolutionResult {
	result := ResolutionResult{Pending: pending}

	assignee := userID
	task, err := s.tasks.UpdateAssignee(ctx, pending.TaskID, &assignee)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// The task was deleted after the invite. The orphaned record is
		// still removed below; the caller sees the not-found in Err.
		result.Err = fmt.Errorf("task %d: %w", pending.TaskID, domain.ErrNotFound)
	case err != nil:
		// Keep the record so the resolution can be retried later.
		result.Err = fmt.Errorf("assign task %d: %w", pending.TaskID, err)
		return result
	default:
		result.Task = task
	}

	if err := s.pending.Delete(ctx, pending.ID); err != nil {
		result.Err = errors.Join(result.Err, fmt.Errorf("delete pending assignment %d: %w", pending.ID, err))
		return result
	}

	if result.Task != nil {
		s.bus.Publish(domain.TopicTaskUpdated, domain.TaskUpdated{Task: result.Task})
	}
	s.bus.Publish(domain.TopicPendingDeleted, domain.PendingDeleted{ID: pending.ID})
	return result
}

// Cancel deletes a pending assignment. Only the inviter or an admin may
// cancel it.
func (s *AssignmentService) Cancel(ctx context.Context, id int64, requestedBy *domain.User) error {
	pending, err := s.pending.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if requestedBy.Role != domain.RoleAdmin && pending.InvitedBy != requestedBy.ID {
		return domain.ErrForbidden
	}

	if err := s.pending.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pending assignment: %w", err)
	}

	s.bus.Publish(domain.TopicPendingDeleted, domain.PendingDeleted{ID: id})
	return nil
}

// Touch marks an invite as re-sent by bumping its updated timestamp.
// No event is published.
func (s *AssignmentService) Touch(ctx context.Context, id int64) error {
	return s.pending.Touch(ctx, id)
}

// ListForEmail returns pending assignments for an exact email match.
func (s *AssignmentService) ListForEmail(ctx context.Context, email string) ([]domain.PendingAssignment, error) {
	return s.pending.ListByEmail(ctx, email)
}

// List returns all pending assignments.
func (s *AssignmentService) List(ctx context.Context) ([]domain.PendingAssignment, error) {
	return s.pending.ListAll(ctx)
}
