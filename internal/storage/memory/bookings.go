// internal/storage/memory/bookings.go
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
)

type bookingStore struct {
	db *DB
}

// Save inserts a new booking or overwrites the status of an existing one, and
// appends the matching journal entry.
func (s *bookingStore) Save(_ context.Context, b *booking.Booking) (*booking.Booking, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	saved := *b
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
		s.db.bookingOrder = append(s.db.bookingOrder, saved.ID)
	} else {
		existing, ok := s.db.bookings[saved.ID]
		if !ok {
			return nil, apperr.New(apperr.CodeBookingNotFound, "booking %s not found", saved.ID)
		}
		existing.Status = saved.Status
		saved = existing
	}
	s.db.bookings[saved.ID] = saved

	history := s.db.journal[saved.ID]
	s.db.journal[saved.ID] = append(history, booking.HistoryEntry{
		Version:    len(history) + 1,
		Type:       booking.EventTypeFor(saved.Status),
		Status:     saved.Status,
		RecordedAt: s.db.clock.Now(),
	})
	return &saved, nil
}

func (s *bookingStore) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	b, ok := s.db.bookings[id]
	if !ok {
		return nil, apperr.New(apperr.CodeBookingNotFound, "booking %s not found", id)
	}
	return &b, nil
}

func (s *bookingStore) FindByBooker(_ context.Context, bookerID uuid.UUID, f booking.Filter, p booking.Page) ([]booking.Booking, error) {
	return s.page(p, func(b booking.Booking) bool {
		return b.BookerID == bookerID && f.Matches(b)
	}), nil
}

func (s *bookingStore) FindByItemOwner(_ context.Context, ownerID uuid.UUID, f booking.Filter, p booking.Page) ([]booking.Booking, error) {
	return s.page(p, func(b booking.Booking) bool {
		item, ok := s.db.items[b.ItemID]
		return ok && item.OwnerID == ownerID && f.Matches(b)
	}), nil
}

func (s *bookingStore) FindApprovedByItem(_ context.Context, itemID uuid.UUID) ([]booking.Summary, error) {
	return s.summaries(func(b booking.Booking) bool {
		return b.ItemID == itemID && b.Status == booking.StatusApproved
	}), nil
}

func (s *bookingStore) FindApprovedCompletedByItemAndBooker(_ context.Context, itemID, bookerID uuid.UUID, now time.Time) ([]booking.Summary, error) {
	return s.summaries(func(b booking.Booking) bool {
		return b.ItemID == itemID && b.BookerID == bookerID &&
			b.Status == booking.StatusApproved && b.End.Before(now)
	}), nil
}

func (s *bookingStore) History(_ context.Context, id uuid.UUID) ([]booking.HistoryEntry, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	history := s.db.journal[id]
	out := make([]booking.HistoryEntry, len(history))
	copy(out, history)
	return out, nil
}

// matching must be called with the read lock held.
func (s *bookingStore) matching(keep func(booking.Booking) bool) []booking.Booking {
	var out []booking.Booking
	for _, id := range s.db.bookingOrder {
		if b := s.db.bookings[id]; keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *bookingStore) page(p booking.Page, keep func(booking.Booking) bool) []booking.Booking {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := s.matching(keep)
	booking.SortByStartDesc(matched)
	return booking.Slice(matched, p)
}

func (s *bookingStore) summaries(keep func(booking.Booking) bool) []booking.Summary {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := s.matching(keep)
	booking.SortByStartDesc(matched)
	out := make([]booking.Summary, 0, len(matched))
	for _, b := range matched {
		out = append(out, booking.SummaryOf(b))
	}
	return out
}
