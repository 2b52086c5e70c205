package service_test

import (
	"context"
	"errors"
	"testing"

	"taskhub/internal/bus"
	"taskhub/internal/domain"
	"taskhub/internal/repository/sqlite"
	"taskhub/internal/service"
)

func newTestTaskService(t *testing.T) (*service.TaskService, *sqlite.DB, *bus.Bus) {
	t.Helper()
	db := newTestDB(t)
	b := newTestBus()
	svc := service.NewTaskService(db.Tasks(), db.Users(), b)
	return svc, db, b
}

func TestTaskService_Create(t *testing.T) {
	svc, db, b := newTestTaskService(t)
	ctx := context.Background()

	user := createUser(t, db, "owner@example.com")

	createdSub := b.Subscribe(domain.TopicTaskCreated)
	defer createdSub.Close()

	task, err := svc.Create(ctx, "New task", "details", user.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected task ID to be set")
	}

	events := drainEvents(createdSub)
	if len(events) != 1 {
		t.Fatalf("expected 1 taskCreated event, got %d", len(events))
	}
	if e := events[0].(domain.TaskCreated); e.Task.ID != task.ID {
		t.Fatalf("event carries task %d, want %d", e.Task.ID, task.ID)
	}
}

func TestTaskService_Create_EmptyTitle(t *testing.T) {
	svc, db, _ := newTestTaskService(t)

	user := createUser(t, db, "owner@example.com")

	_, err := svc.Create(context.Background(), "", "details", user.ID)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTaskService_Update_Partial(t *testing.T) {
	svc, db, b := newTestTaskService(t)
	ctx := context.Background()

	user := createUser(t, db, "owner@example.com")
	task, err := svc.Create(ctx, "Original", "desc", user.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updatedSub := b.Subscribe(domain.TopicTaskUpdated)
	defer updatedSub.Close()

	title := "Renamed"
	got, err := svc.Update(ctx, task.ID, &title, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Renamed" || got.Description != "desc" || got.Completed {
		t.Fatalf("partial update changed unexpected fields: %+v", got)
	}

	if events := drainEvents(updatedSub); len(events) != 1 {
		t.Fatalf("expected 1 taskUpdated event, got %d", len(events))
	}
}

func TestTaskService_ToggleComplete(t *testing.T) {
	svc, db, _ := newTestTaskService(t)
	ctx := context.Background()

	user := createUser(t, db, "owner@example.com")
	task, err := svc.Create(ctx, "Toggle me", "", user.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.ToggleComplete(ctx, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if !got.Completed {
		t.Fatal("expected task to be completed after first toggle")
	}

	got, err = svc.ToggleComplete(ctx, task.ID)
	if err != nil {
		t.Fatalf("second ToggleComplete: %v", err)
	}
	if got.Completed {
		t.Fatal("expected task to be incomplete after second toggle")
	}
}

func TestTaskService_Delete(t *testing.T) {
	svc, db, b := newTestTaskService(t)
	ctx := context.Background()

	user := createUser(t, db, "owner@example.com")
	task, err := svc.Create(ctx, "Doomed", "", user.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deletedSub := b.Subscribe(domain.TopicTaskDeleted)
	defer deletedSub.Close()

	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	events := drainEvents(deletedSub)
	if len(events) != 1 {
		t.Fatalf("expected 1 taskDeleted event, got %d", len(events))
	}
	if e := events[0].(domain.TaskDeleted); e.ID != task.ID {
		t.Fatalf("event carries id %d, want %d", e.ID, task.ID)
	}
}

func TestTaskService_Assign(t *testing.T) {
	svc, db, b := newTestTaskService(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	assignee := createUser(t, db, "assignee@example.com")
	task, err := svc.Create(ctx, "Assign me", "", owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updatedSub := b.Subscribe(domain.TopicTaskUpdated)
	defer updatedSub.Close()

	got, err := svc.Assign(ctx, task.ID, &assignee.ID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got.AssignedTo == nil || *got.AssignedTo != assignee.ID {
		t.Fatalf("expected assignee %d, got %v", assignee.ID, got.AssignedTo)
	}

	// Clearing the assignee.
	got, err = svc.Assign(ctx, task.ID, nil)
	if err != nil {
		t.Fatalf("Assign nil: %v", err)
	}
	if got.AssignedTo != nil {
		t.Fatal("expected assignee to be cleared")
	}

	if events := drainEvents(updatedSub); len(events) != 2 {
		t.Fatalf("expected 2 taskUpdated events, got %d", len(events))
	}
}

func TestTaskService_Assign_UnknownUser(t *testing.T) {
	svc, db, _ := newTestTaskService(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	task, err := svc.Create(ctx, "Task", "", owner.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	missing := int64(999)
	_, err = svc.Assign(ctx, task.ID, &missing)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown assignee, got %v", err)
	}
}
