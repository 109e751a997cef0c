// internal/catalog/handler.go
package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shareit/internal/booking"
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

// Routes mounts the item endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.HandleAddItem)
	r.Get("/", h.HandleListOwnerItems)
	r.Get("/search", h.HandleSearch)
	r.Get("/{itemId}", h.HandleGetItem)
	r.Patch("/{itemId}", h.HandleEditItem)
	r.Post("/{itemId}/comment", h.HandleAddComment)
}

// CreateItemRequest is the body of POST /items.
type CreateItemRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Available   *bool      `json:"available" validate:"required"`
	RequestID   *uuid.UUID `json:"requestId"`
}

// PatchItemRequest is the body of PATCH /items/{itemId}.
type PatchItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CommentRequest is the body of POST /items/{itemId}/comment.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ItemDTO is the wire form of an Item.
type ItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Available   bool       `json:"available"`
	RequestID   *uuid.UUID `json:"requestId,omitempty"`
}

// CommentDTO is the wire form of a Comment.
type CommentDTO struct {
	ID         uuid.UUID      `json:"id"`
	Text       string         `json:"text"`
	AuthorName string         `json:"authorName"`
	Created    httpx.DateTime `json:"created"`
}

// ItemDetailsDTO is the wire form of ItemDetails.
type ItemDetailsDTO struct {
	ItemDTO
	LastBooking *booking.SummaryDTO `json:"lastBooking"`
	NextBooking *booking.SummaryDTO `json:"nextBooking"`
	Comments    []CommentDTO        `json:"comments"`
}

// ToItemDTO converts an item for the wire.
func ToItemDTO(item Item) ItemDTO {
	dto := ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
	}
	if item.RequestID.Valid {
		id := item.RequestID.UUID
		dto.RequestID = &id
	}
	return dto
}

func toCommentDTO(c Comment) CommentDTO {
	return CommentDTO{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: httpx.DateTime(c.Created)}
}

func toDetailsDTO(d *ItemDetails) ItemDetailsDTO {
	comments := make([]CommentDTO, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, toCommentDTO(c))
	}
	return ItemDetailsDTO{
		ItemDTO:     ToItemDTO(d.Item),
		LastBooking: booking.SummaryToDTO(d.LastBooking),
		NextBooking: booking.SummaryToDTO(d.NextBooking),
		Comments:    comments,
	}
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	var req CreateItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	in := NewItem{Name: req.Name, Description: req.Description, Available: *req.Available}
	if req.RequestID != nil {
		in.RequestID = uuid.NullUUID{UUID: *req.RequestID, Valid: true}
	}

	item, err := h.service.AddItem(r.Context(), userID, in)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, ToItemDTO(*item))
}

func (h *Handler) HandleEditItem(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	itemID, err := httpx.PathID("itemId", chi.URLParam(r, "itemId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	var req PatchItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	item, err := h.service.EditItem(r.Context(), userID, itemID, ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ToItemDTO(*item))
}

func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	itemID, err := httpx.PathID("itemId", chi.URLParam(r, "itemId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	details, err := h.service.GetItem(r.Context(), userID, itemID)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDetailsDTO(details))
}

func (h *Handler) HandleListOwnerItems(w http.ResponseWriter, r *http.Request) {
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

	list, err := h.service.ListOwnerItems(r.Context(), userID, from, size)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	out := make([]ItemDetailsDTO, 0, len(list))
	for _, d := range list {
		out = append(out, toDetailsDTO(d))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.service.Search(r.Context(), userID, r.URL.Query().Get("text"), from, size)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemDTO(*it))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	itemID, err := httpx.PathID("itemId", chi.URLParam(r, "itemId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	var req CommentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	c, err := h.service.AddComment(r.Context(), userID, itemID, req.Text)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCommentDTO(*c))
}
