package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskhub/internal/domain"
)

// PendingAssignmentRepository implements domain.PendingAssignmentRepository
// using SQLite.
type PendingAssignmentRepository struct {
	db *sql.DB
}

// NewPendingAssignmentRepository creates a new SQLite-backed
// PendingAssignmentRepository.
func NewPendingAssignmentRepository(db *DB) *PendingAssignmentRepository {
	return &PendingAssignmentRepository{db: db.SqlDB}
}

const pendingColumns = "id, email, task_id, invited_by, created_at, updated_at"

func (r *PendingAssignmentRepository) Create(ctx context.Context, pending *domain.PendingAssignment) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_assignments (email, task_id, invited_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		pending.Email, pending.TaskID, pending.InvitedBy, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert pending assignment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	pending.ID = id
	pending.CreatedAt = now
	pending.UpdatedAt = now
	return nil
}

func (r *PendingAssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.PendingAssignment, error) {
	pending := &domain.PendingAssignment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+pendingColumns+` FROM pending_assignments WHERE id = ?`, id,
	).Scan(&pending.ID, &pending.Email, &pending.TaskID, &pending.InvitedBy, &pending.CreatedAt, &pending.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query pending assignment by id: %w", err)
	}
	return pending, nil
}

// ListByEmail returns all pending assignments whose email matches exactly
// (case-sensitive), oldest first.
func (r *PendingAssignmentRepository) ListByEmail(ctx context.Context, email string) ([]domain.PendingAssignment, error) {
	return r.list(ctx,
		`SELECT `+pendingColumns+` FROM pending_assignments WHERE email = ? ORDER BY created_at, id`,
		email,
	)
}

func (r *PendingAssignmentRepository) ListAll(ctx context.Context) ([]domain.PendingAssignment, error) {
	return r.list(ctx,
		`SELECT `+pendingColumns+` FROM pending_assignments ORDER BY created_at, id`,
	)
}

func (r *PendingAssignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.PendingAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending assignments: %w", err)
	}
	defer rows.Close()

	var pendings []domain.PendingAssignment
	for rows.Next() {
		var pending domain.PendingAssignment
		if err := rows.Scan(&pending.ID, &pending.Email, &pending.TaskID, &pending.InvitedBy, &pending.CreatedAt, &pending.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pending assignment: %w", err)
		}
		pendings = append(pendings, pending)
	}
	return pendings, rows.Err()
}

func (r *PendingAssignmentRepository) Touch(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pending_assignments SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("touch pending assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PendingAssignmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pending_assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pending assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
