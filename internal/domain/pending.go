package domain

import (
	"context"
	"time"
)

// PendingAssignment records the intent to assign a task to an email address
// that has no account yet. The record is deleted exactly once: when a user
// registers with the matching email (and the task picks up the assignee), or
// when the inviter cancels it. A resend only bumps UpdatedAt.
//
// Several records may exist for the same email, or even the same
// (email, task) pair; no uniqueness is enforced.
type PendingAssignment struct {
	ID        int64
	Email     string
	TaskID    int64
	InvitedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingAssignmentRepository defines persistence operations for pending
// assignments. Email lookups are exact, case-sensitive string matches.
type PendingAssignmentRepository interface {
	Create(ctx context.Context, pending *PendingAssignment) error
	GetByID(ctx context.Context, id int64) (*PendingAssignment, error)
	ListByEmail(ctx context.Context, email string) ([]PendingAssignment, error)
	ListAll(ctx context.Context) ([]PendingAssignment, error)
	// Touch bumps the record's UpdatedAt, marking an invite as re-sent.
	Touch(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
