// internal/clients/scenario.go
package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
)

// ScenarioResult lists what a lending run created.
type ScenarioResult struct {
	OwnerID    uuid.UUID
	BookerID   uuid.UUID
	ItemID     uuid.UUID
	Approved   uuid.UUID
	Rejected   uuid.UUID
	GuestID    uuid.UUID
}

// RunLendingScenario drives one full lending cycle against baseURL: two users
// and an item, one booking approved and one rejected, then checks the owner's
// view of both. start must lie in the future on the server's clock. A third,
// unreferenced user is created and deleted again.
func RunLendingScenario(ctx context.Context, baseURL string, hc *http.Client, start time.Time, logger *slog.Logger) (*ScenarioResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	users := NewUsersClient(baseURL, hc)
	bookings := NewBookingsClient(baseURL, hc)
	suffix := uuid.NewString()[:8]

	if err := NewHealthClient(baseURL, hc).Check(ctx); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}

	owner, err := users.CreateUser(ctx, "Smoke Owner", "owner-"+suffix+"@smoke.shareit")
	if err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}
	booker, err := users.CreateUser(ctx, "Smoke Booker", "booker-"+suffix+"@smoke.shareit")
	if err != nil {
		return nil, fmt.Errorf("create booker: %w", err)
	}
	item, err := bookings.AddItem(ctx, owner.ID, "Smoke ladder "+suffix, "Created by the lending scenario", true)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	res := &ScenarioResult{OwnerID: owner.ID, BookerID: booker.ID, ItemID: item.ID}
	logger.Info("scenario fixtures created", "owner_id", owner.ID, "booker_id", booker.ID, "item_id", item.ID)

	first, err := bookings.Book(ctx, booker.ID, item.ID, start, start.Add(time.Hour))
	if err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	second, err := bookings.Book(ctx, booker.ID, item.ID, start.Add(2*time.Hour), start.Add(3*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("book: %w", err)
	}
	res.Approved, res.Rejected = first.ID, second.ID

	if _, err := bookings.Decide(ctx, owner.ID, first.ID, true); err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}
	if _, err := bookings.Decide(ctx, owner.ID, second.ID, false); err != nil {
		return nil, fmt.Errorf("reject: %w", err)
	}
	if _, err := bookings.Decide(ctx, owner.ID, second.ID, true); !errors.Is(err, apperr.ErrAlreadyDecided) {
		return nil, fmt.Errorf("second decision: want %s, got %v", apperr.CodeAlreadyDecided, err)
	}

	future, err := bookings.List(ctx, owner.ID, true, "FUTURE", 0, 10)
	if err != nil {
		return nil, fmt.Errorf("list owner bookings: %w", err)
	}
	statuses := make(map[uuid.UUID]booking.Status, len(future))
	for _, v := range future {
		statuses[v.ID] = v.Status
	}
	if statuses[first.ID] != booking.StatusApproved || statuses[second.ID] != booking.StatusRejected {
		return nil, fmt.Errorf("owner listing: unexpected statuses %v", statuses)
	}

	details, err := bookings.GetItem(ctx, owner.ID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if details.NextBooking == nil || details.NextBooking.ID != first.ID {
		return nil, fmt.Errorf("item %s: next booking is not %s", item.ID, first.ID)
	}

	guest, err := users.CreateUser(ctx, "Smoke Guest", "guest-"+suffix+"@smoke.shareit")
	if err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	if err := users.DeleteUser(ctx, guest.ID); err != nil {
		return nil, fmt.Errorf("delete guest: %w", err)
	}
	if _, err := users.GetUser(ctx, guest.ID); !errors.Is(err, apperr.ErrUserNotFound) {
		return nil, fmt.Errorf("deleted guest: want %s, got %v", apperr.CodeUserNotFound, err)
	}
	res.GuestID = guest.ID

	logger.Info("lending scenario passed", "approved", first.ID, "rejected", second.ID)
	return res, nil
}
