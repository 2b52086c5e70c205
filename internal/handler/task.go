package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"taskhub/internal/domain"
	"taskhub/internal/service"
)

// TaskHandler handles task CRUD and assignment HTTP requests.
type TaskHandler struct {
	tasks       *service.TaskService
	assignments *service.AssignmentService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, assignments *service.AssignmentService) *TaskHandler {
	return &TaskHandler{tasks: tasks, assignments: assignments}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// HandleList returns tasks, optionally filtered.
// GET /api/tasks?mine=true&completed=false
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var filter domain.TaskFilter
	if r.URL.Query().Get("mine") == "true" {
		filter.Mine = &user.ID
	}
	if v := r.URL.Query().Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid completed filter.")
			return
		}
		filter.Completed = &completed
	}

	tasks, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		slog.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": toTaskDTOs(tasks),
	})
}

// HandleCreate creates a new task.
// POST /api/tasks
// Request: {"title":"...","description":"..."}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Create(r.Context(), req.Title, req.Description, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"task": toTaskDTO(task),
	})
}

// HandleGet returns a single task.
// GET /api/tasks/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		h.writeTaskError(w, "get task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task": toTaskDTO(task),
	})
}

// HandleUpdate applies a partial update to a task.
// PATCH /api/tasks/{id}
// Request: {"title":"...","description":"...","completed":true} (all optional)
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Update(r.Context(), id, req.Title, req.Description, req.Completed)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.writeTaskError(w, "update task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task": toTaskDTO(task),
	})
}

// HandleToggle flips a task's completion flag.
// POST /api/tasks/{id}/toggle
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	task, err := h.tasks.ToggleComplete(r.Context(), id)
	if err != nil {
		h.writeTaskError(w, "toggle task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task": toTaskDTO(task),
	})
}

// HandleDelete removes a task.
// DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		h.writeTaskError(w, "delete task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAssign sets or clears a task's assignee by user id.
// POST /api/tasks/{id}/assign
// Request: {"userId": 42} or {"userId": null}
func (h *TaskHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	var req struct {
		UserID *int64 `json:"userId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Assign(r.Context(), id, req.UserID)
	if err != nil {
		h.writeTaskError(w, "assign task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task": toTaskDTO(task),
	})
}

// HandleAssignByEmail assigns a task to an email address. If no account
// matches, a pending assignment is recorded and the task comes back
// unchanged; the caller checks pending state to tell the two apart.
// POST /api/tasks/{id}/assign-by-email
// Request: {"email":"..."}
func (h *TaskHandler) HandleAssignByEmail(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.assignments.AssignByEmail(r.Context(), id, req.Email, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.writeTaskError(w, "assign task by email", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"task": toTaskDTO(task),
	})
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found.")
		return
	}
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}
