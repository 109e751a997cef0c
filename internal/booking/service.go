// internal/booking/service.go
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service defines the booking lifecycle operations.
type Service interface {
	CreateBooking(ctx context.Context, requesterID uuid.UUID, in Input) (*View, error)
	DecideBooking(ctx context.Context, actorID, bookingID uuid.UUID, approve bool) (*View, error)
	GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*View, error)
	ListBookingsForBooker(ctx context.Context, userID uuid.UUID, state State, from, size int) ([]*View, error)
	ListBookingsForOwner(ctx context.Context, userID uuid.UUID, state State, from, size int) ([]*View, error)
	BookingHistory(ctx context.Context, actorID, bookingID uuid.UUID) ([]HistoryEntry, error)
}

// Store persists bookings. Save inserts when ID is uuid.Nil and assigns one,
// otherwise it overwrites the stored status. List methods return bookings
// ordered by start descending, sliced by page.
type Store interface {
	Save(ctx context.Context, b *Booking) (*Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByBooker(ctx context.Context, bookerID uuid.UUID, f Filter, p Page) ([]Booking, error)
	FindByItemOwner(ctx context.Context, ownerID uuid.UUID, f Filter, p Page) ([]Booking, error)
	FindApprovedByItem(ctx context.Context, itemID uuid.UUID) ([]Summary, error)
	FindApprovedCompletedByItemAndBooker(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) ([]Summary, error)
	History(ctx context.Context, id uuid.UUID) ([]HistoryEntry, error)
}

// ItemDirectory resolves items. LookupItem fails with ITEM_NOT_FOUND.
type ItemDirectory interface {
	LookupItem(ctx context.Context, id uuid.UUID) (ItemRef, error)
}

// UserDirectory resolves users. LookupUser fails with USER_NOT_FOUND.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	LookupUser(ctx context.Context, id uuid.UUID) (UserRef, error)
}
