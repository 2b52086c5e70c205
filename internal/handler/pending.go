package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"taskhub/internal/domain"
	"taskhub/internal/service"
)

// PendingHandler handles pending assignment HTTP requests.
type PendingHandler struct {
	assignments *service.AssignmentService
}

// NewPendingHandler creates a new PendingHandler.
func NewPendingHandler(assignments *service.AssignmentService) *PendingHandler {
	return &PendingHandler{assignments: assignments}
}

// HandleList returns pending assignments, optionally for one email.
// GET /api/pending?email=...
func (h *PendingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		pendings []domain.PendingAssignment
		err      error
	)
	if email := r.URL.Query().Get("email"); email != "" {
		pendings, err = h.assignments.ListForEmail(r.Context(), email)
	} else {
		pendings, err = h.assignments.List(r.Context())
	}
	if err != nil {
		slog.Error("list pending assignments", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pendingAssignments": toPendingAssignmentDTOs(pendings),
	})
}

// HandleCancel cancels a pending assignment. Only the inviter or an admin
// may cancel.
// DELETE /api/pending/{id}
func (h *PendingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pending assignment id.")
		return
	}

	if err := h.assignments.Cancel(r.Context(), id, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Pending assignment not found.")
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "Only the inviter or an admin can cancel an invite.")
		default:
			slog.Error("cancel pending assignment", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResend marks an invite as re-sent.
// POST /api/pending/{id}/resend
func (h *PendingHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pending assignment id.")
		return
	}

	if err := h.assignments.Touch(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Pending assignment not found.")
			return
		}
		slog.Error("resend pending assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
