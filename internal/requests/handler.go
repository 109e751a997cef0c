// internal/requests/handler.go
package requests

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shareit/internal/catalog"
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

// Routes mounts the item request endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleListOwn)
	r.Get("/all", h.HandleListOthers)
	r.Get("/{requestId}", h.HandleGet)
}

// CreateRequestBody is the body of POST /requests.
type CreateRequestBody struct {
	Description string `json:"description" validate:"required"`
}

// ViewDTO is the wire form of a View.
type ViewDTO struct {
	ID          uuid.UUID         `json:"id"`
	Description string            `json:"description"`
	Created     httpx.DateTime    `json:"created"`
	Items       []catalog.ItemDTO `json:"items"`
}

func toDTO(v *View) ViewDTO {
	items := make([]catalog.ItemDTO, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, catalog.ToItemDTO(it))
	}
	return ViewDTO{ID: v.ID, Description: v.Description, Created: httpx.DateTime(v.Created), Items: items}
}

func toDTOs(views []*View) []ViewDTO {
	out := make([]ViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toDTO(v))
	}
	return out
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	var body CreateRequestBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	v, err := h.service.CreateRequest(r.Context(), userID, body.Description)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDTO(v))
}

func (h *Handler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	views, err := h.service.ListOwn(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTOs(views))
}

func (h *Handler) HandleListOthers(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	from, size, err := httpx.PageParams(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	views, err := h.service.ListOthers(r.Context(), userID, from, size)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTOs(views))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	requestID, err := httpx.PathID("requestId", chi.URLParam(r, "requestId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	v, err := h.service.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTO(v))
}
