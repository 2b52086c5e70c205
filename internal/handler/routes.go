package handler

import (
	"net/http"

	"taskhub/internal/bus"
	"taskhub/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	tasks *service.TaskService,
	assignments *service.AssignmentService,
	b *bus.Bus,
	limiter *service.TokenBucket,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, assignments, limiter, cookieSecure)
	taskHandler := NewTaskHandler(tasks, assignments)
	pendingHandler := NewPendingHandler(assignments)
	eventsHandler := NewEventsHandler(b)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	mux.Handle("GET /api/users", RequireAuth(auth, http.HandlerFunc(authHandler.HandleListUsers)))

	mux.Handle("GET /api/tasks", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleList)))
	mux.Handle("POST /api/tasks", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleCreate)))
	mux.Handle("GET /api/tasks/{id}", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleGet)))
	mux.Handle("PATCH /api/tasks/{id}", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleUpdate)))
	mux.Handle("DELETE /api/tasks/{id}", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleDelete)))
	mux.Handle("POST /api/tasks/{id}/toggle", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleToggle)))
	mux.Handle("POST /api/tasks/{id}/assign", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleAssign)))
	mux.Handle("POST /api/tasks/{id}/assign-by-email", RequireAuth(auth, http.HandlerFunc(taskHandler.HandleAssignByEmail)))

	mux.Handle("GET /api/pending", RequireAuth(auth, http.HandlerFunc(pendingHandler.HandleList)))
	mux.Handle("DELETE /api/pending/{id}", RequireAuth(auth, http.HandlerFunc(pendingHandler.HandleCancel)))
	mux.Handle("POST /api/pending/{id}/resend", RequireAuth(auth, http.HandlerFunc(pendingHandler.HandleResend)))

	mux.Handle("GET /api/events", RequireAuth(auth, http.HandlerFunc(eventsHandler.HandleStream)))
}
