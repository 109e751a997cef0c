// internal/booking/handler.go
package booking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shareit/internal/apperr"
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

// Routes mounts the booking endpoints under the router it is given.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleListForBooker)
	r.Get("/owner", h.HandleListForOwner)
	r.Get("/{bookingId}", h.HandleGet)
	r.Patch("/{bookingId}", h.HandleDecide)
	r.Get("/{bookingId}/history", h.HandleHistory)
}

// CreateRequest is the body of POST /bookings.
type CreateRequest struct {
	ItemID *uuid.UUID     `json:"itemId" validate:"required"`
	Start  *httpx.DateTime `json:"start" validate:"required"`
	End    *httpx.DateTime `json:"end" validate:"required"`
}

type itemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
}

type bookerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ViewDTO is the wire form of a View.
type ViewDTO struct {
	ID     uuid.UUID      `json:"id"`
	Start  httpx.DateTime `json:"start"`
	End    httpx.DateTime `json:"end"`
	Status Status         `json:"status"`
	Item   itemDTO        `json:"item"`
	Booker bookerDTO      `json:"booker"`
}

func toDTO(v *View) ViewDTO {
	return ViewDTO{
		ID:     v.ID,
		Start:  httpx.DateTime(v.Start),
		End:    httpx.DateTime(v.End),
		Status: v.Status,
		Item: itemDTO{
			ID:          v.Item.ID,
			Name:        v.Item.Name,
			Description: v.Item.Description,
			Available:   v.Item.Available,
		},
		Booker: bookerDTO{ID: v.Booker.ID, Name: v.Booker.Name, Email: v.Booker.Email},
	}
}

func toDTOs(views []*View) []ViewDTO {
	out := make([]ViewDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toDTO(v))
	}
	return out
}

// SummaryDTO is the wire form of a Summary.
type SummaryDTO struct {
	ID       uuid.UUID      `json:"id"`
	BookerID uuid.UUID      `json:"bookerId"`
	Start    httpx.DateTime `json:"start"`
	End      httpx.DateTime `json:"end"`
}

// SummaryToDTO converts s, keeping nil as nil.
func SummaryToDTO(s *Summary) *SummaryDTO {
	if s == nil {
		return nil
	}
	return &SummaryDTO{ID: s.ID, BookerID: s.BookerID, Start: httpx.DateTime(s.Start), End: httpx.DateTime(s.End)}
}

type historyDTO struct {
	Version    int            `json:"version"`
	Type       string         `json:"type"`
	Status     Status         `json:"status"`
	RecordedAt httpx.DateTime `json:"recordedAt"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	var req CreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	view, err := h.service.CreateBooking(r.Context(), userID, Input{
		Start:  req.Start.Time(),
		End:    req.End.Time(),
		ItemID: *req.ItemID,
	})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toDTO(view))
}

func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	bookingID, err := httpx.PathID("bookingId", chi.URLParam(r, "bookingId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		httpx.WriteError(w, h.logger, apperr.New(apperr.CodeValidation, "approved must be true or false"))
		return
	}

	view, err := h.service.DecideBooking(r.Context(), userID, bookingID, approved)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTO(view))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	bookingID, err := httpx.PathID("bookingId", chi.URLParam(r, "bookingId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	view, err := h.service.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTO(view))
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	bookingID, err := httpx.PathID("bookingId", chi.URLParam(r, "bookingId"))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	history, err := h.service.BookingHistory(r.Context(), userID, bookingID)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	out := make([]historyDTO, 0, len(history))
	for _, e := range history {
		out = append(out, historyDTO{Version: e.Version, Type: e.Type, Status: e.Status, RecordedAt: httpx.DateTime(e.RecordedAt)})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleListForBooker(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.service.ListBookingsForBooker)
}

func (h *Handler) HandleListForOwner(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.service.ListBookingsForOwner)
}

type listFunc func(ctx context.Context, userID uuid.UUID, state State, from, size int) ([]*View, error)

// handleList leaves state validation to the service so that a missing user is
// reported before an unknown state.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, list listFunc) {
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

	views, err := list(r.Context(), userID, StateOf(r.URL.Query().Get("state")), from, size)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toDTOs(views))
}
