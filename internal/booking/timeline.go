// internal/booking/timeline.go
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Timeline derives per-item temporal facts from approved bookings. Nothing is
// cached; every call reads the store.
type Timeline struct {
	store Store
}

func NewTimeline(store Store) *Timeline {
	return &Timeline{store: store}
}

// LastAndNextBooking returns the approved booking of itemID that started most
// recently before now and the one that starts soonest after now. Either may be
// nil. A booking starting exactly at now is neither.
func (t *Timeline) LastAndNextBooking(ctx context.Context, itemID uuid.UUID, now time.Time) (last, next *Summary, err error) {
	approved, err := t.store.FindApprovedByItem(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load approved bookings: %w", err)
	}
	last, next = LastAndNext(approved, Instant(now))
	return last, next, nil
}

// CanComment reports whether userID has completed an approved booking of
// itemID, that is one whose end is strictly before now.
func (t *Timeline) CanComment(ctx context.Context, itemID, userID uuid.UUID, now time.Time) (bool, error) {
	completed, err := t.store.FindApprovedCompletedByItemAndBooker(ctx, itemID, userID, Instant(now))
	if err != nil {
		return false, fmt.Errorf("failed to load completed bookings: %w", err)
	}
	return len(completed) > 0, nil
}

// LastAndNext selects the last and next summaries relative to now.
func LastAndNext(bookings []Summary, now time.Time) (last, next *Summary) {
	for i := range bookings {
		b := bookings[i]
		switch {
		case b.Start.Before(now):
			if last == nil || b.Start.After(last.Start) {
				last = &b
			}
		case b.Start.After(now):
			if next == nil || b.Start.Before(next.Start) {
				next = &b
			}
		}
	}
	return last, next
}
