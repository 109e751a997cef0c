// internal/booking/domain.go
package booking

import (
	"time"

	"github.com/google/uuid"

	"shareit/internal/apperr"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Booking is a reservation of an item for a time window.
// Only Status changes after creation.
type Booking struct {
	ID       uuid.UUID `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ItemID   uuid.UUID `json:"itemId"`
	BookerID uuid.UUID `json:"bookerId"`
	Status   Status    `json:"status"`
}

// Decide moves a waiting booking to its terminal status.
func (b *Booking) Decide(approve bool) error {
	if b.Status != StatusWaiting {
		return apperr.New(apperr.CodeAlreadyDecided, "booking %s is %s, not waiting for approval", b.ID, b.Status)
	}
	if approve {
		b.Status = StatusApproved
	} else {
		b.Status = StatusRejected
	}
	return nil
}

// Summary is the minimal projection used for last/next booking decoration.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	ItemID   uuid.UUID `json:"itemId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// SummaryOf projects b.
func SummaryOf(b Booking) Summary {
	return Summary{ID: b.ID, BookerID: b.BookerID, ItemID: b.ItemID, Start: b.Start, End: b.End}
}

// ItemRef is what the lifecycle engine needs to know about an item.
type ItemRef struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Available   bool
}

// UserRef is what the lifecycle engine needs to know about a user.
type UserRef struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// View is the read-side representation of a booking. Never persisted.
type View struct {
	ID     uuid.UUID
	Start  time.Time
	End    time.Time
	Item   ItemRef
	Booker UserRef
	Status Status
}

func newView(b Booking, item ItemRef, booker UserRef) *View {
	return &View{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Item:   item,
		Booker: booker,
		Status: b.Status,
	}
}

// Input carries a booking request.
type Input struct {
	Start  time.Time
	End    time.Time
	ItemID uuid.UUID
}

// Journal event types.
const (
	EventBookingRequested = "BookingRequested"
	EventBookingApproved  = "BookingApproved"
	EventBookingRejected  = "BookingRejected"
)

// EventTypeFor returns the journal event recorded when a booking reaches s.
func EventTypeFor(s Status) string {
	switch s {
	case StatusApproved:
		return EventBookingApproved
	case StatusRejected:
		return EventBookingRejected
	default:
		return EventBookingRequested
	}
}

// StatusChangedEvent is the journal payload for every booking event.
type StatusChangedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	ItemID    uuid.UUID `json:"item_id"`
	BookerID  uuid.UUID `json:"booker_id"`
	Status    Status    `json:"status"`
}

// HistoryEntry is one journal record of a booking.
type HistoryEntry struct {
	Version    int       `json:"version"`
	Type       string    `json:"type"`
	Status     Status    `json:"status"`
	RecordedAt time.Time `json:"recordedAt"`
}
