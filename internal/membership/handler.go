// internal/membership/handler.go
package membership

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shareit/internal/httpx"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts the user endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.HandleCreateUser)
	r.Get("/", h.HandleListUsers)
	r.Get("/{userId}", h.HandleGetUser)
	r.Patch("/{userId}", h.HandleUpdateUser)
	r.Delete("/{userId}", h.HandleDeleteUser)
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest is the body of PATCH /users/{userId}.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserDTO is the wire form of a User.
type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func toDTO(u *User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	u, err := h.service.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDTO(u))
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toDTO(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID("userId", chi.URLParam(r, "userId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTO(u))
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID("userId", chi.URLParam(r, "userId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	var req UpdateUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	u, err := h.service.UpdateUser(r.Context(), id, UserPatch{Name: req.Name, Email: req.Email})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTO(u))
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID("userId", chi.URLParam(r, "userId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
