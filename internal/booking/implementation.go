// internal/booking/implementation.go
package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"shareit/internal/apperr"
	"shareit/internal/clock"
)

// service implements the Service interface.
type service struct {
	store   Store
	items   ItemDirectory
	users   UserDirectory
	clock   clock.Clock
	logger  *slog.Logger
	meters  metric.MeterProvider
	created metric.Int64Counter
	decided metric.Int64Counter
}

// Option configures the booking service.
type Option func(*service)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMeterProvider sets where the lifecycle counters are recorded. The
// default is the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *service) {
		if mp != nil {
			s.meters = mp
		}
	}
}

// NewService creates a new booking service instance.
func NewService(store Store, items ItemDirectory, users UserDirectory, clk clock.Clock, opts ...Option) Service {
	s := &service{
		store:  store,
		items:  items,
		users:  users,
		clock:  clk,
		logger: slog.Default(),
		meters: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := s.meters.Meter("shareit/booking")
	var err error
	if s.created, err = meter.Int64Counter("shareit.bookings.created",
		metric.WithDescription("Bookings created")); err != nil {
		s.logger.Warn("booking created counter unavailable", "err", err)
		s.created = noop.Int64Counter{}
	}
	if s.decided, err = meter.Int64Counter("shareit.bookings.decided",
		metric.WithDescription("Bookings approved or rejected, by resulting status")); err != nil {
		s.logger.Warn("booking decided counter unavailable", "err", err)
		s.decided = noop.Int64Counter{}
	}
	return s
}

// CreateBooking validates the request window and the item, then stores a
// waiting booking. Other bookings of the item are not consulted: availability
// is the item's flag only.
func (s *service) CreateBooking(ctx context.Context, requesterID uuid.UUID, in Input) (*View, error) {
	now := s.clock.Now()

	if !in.Start.Before(in.End) {
		return nil, apperr.New(apperr.CodeInvalidTimeRange, "start %s must be before end %s", in.Start, in.End)
	}
	if !in.Start.After(now) || !in.End.After(now) {
		return nil, apperr.New(apperr.CodePastBooking, "start and end must be in the future")
	}
	if in.Start.Equal(in.End) {
		return nil, apperr.New(apperr.CodeInvalidTimeRange, "start and end must differ")
	}

	item, err := s.items.LookupItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apperr.New(apperr.CodeItemUnavailable, "item %s is not available", item.ID)
	}
	if item.OwnerID == requesterID {
		return nil, apperr.New(apperr.CodeSelfBookingForbidden, "user %s cannot book own item %s", requesterID, item.ID)
	}

	booker, err := s.users.LookupUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, &Booking{
		Start:    in.Start,
		End:      in.End,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   StatusWaiting,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.created.Add(ctx, 1)
	s.logger.Info("booking created", "booking_id", saved.ID, "item_id", item.ID, "booker_id", booker.ID)
	return newView(*saved, item, booker), nil
}

// DecideBooking lets the item owner approve or reject a waiting booking.
// There is no lock between the status check and the write: two concurrent
// decisions may both pass the check and the last write wins.
func (s *service) DecideBooking(ctx context.Context, actorID, bookingID uuid.UUID, approve bool) (*View, error) {
	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.LookupItem(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, apperr.New(apperr.CodeNotAuthorized, "user %s does not own the item of booking %s", actorID, bookingID)
	}

	if err := b.Decide(approve); err != nil {
		return nil, err
	}

	booker, err := s.users.LookupUser(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.decided.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(saved.Status))))
	s.logger.Info("booking decided", "booking_id", saved.ID, "status", saved.Status, "owner_id", actorID)
	return newView(*saved, item, booker), nil
}

// GetBooking returns a booking to its booker or to the item owner.
func (s *service) GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*View, error) {
	b, item, err := s.visibleBooking(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}

	booker, err := s.users.LookupUser(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}
	return newView(*b, item, booker), nil
}

// BookingHistory returns the journal of a booking, oldest first, with the
// same visibility as GetBooking.
func (s *service) BookingHistory(ctx context.Context, actorID, bookingID uuid.UUID) ([]HistoryEntry, error) {
	if _, _, err := s.visibleBooking(ctx, actorID, bookingID); err != nil {
		return nil, err
	}
	history, err := s.store.History(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking history: %w", err)
	}
	return history, nil
}

func (s *service) visibleBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*Booking, ItemRef, error) {
	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, ItemRef{}, err
	}
	item, err := s.items.LookupItem(ctx, b.ItemID)
	if err != nil {
		return nil, ItemRef{}, err
	}
	if actorID != b.BookerID && actorID != item.OwnerID {
		return nil, ItemRef{}, apperr.New(apperr.CodeNotAuthorized, "user %s may not view booking %s", actorID, bookingID)
	}
	return b, item, nil
}

// ListBookingsForBooker lists the bookings made by userID.
func (s *service) ListBookingsForBooker(ctx context.Context, userID uuid.UUID, state State, from, size int) ([]*View, error) {
	return s.list(ctx, userID, state, from, size, func(f Filter, p Page) ([]Booking, error) {
		return s.store.FindByBooker(ctx, userID, f, p)
	})
}

// ListBookingsForOwner lists the bookings of every item owned by userID.
func (s *service) ListBookingsForOwner(ctx context.Context, userID uuid.UUID, state State, from, size int) ([]*View, error) {
	return s.list(ctx, userID, state, from, size, func(f Filter, p Page) ([]Booking, error) {
		return s.store.FindByItemOwner(ctx, userID, f, p)
	})
}

func (s *service) list(ctx context.Context, userID uuid.UUID, state State, from, size int, find func(Filter, Page) ([]Booking, error)) ([]*View, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, apperr.New(apperr.CodeUserNotFound, "user %s not found", userID)
	}

	page, err := NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if !state.Valid() {
		return nil, apperr.New(apperr.CodeUnknownState, "Unknown state: %s", state)
	}

	bookings, err := find(NewFilter(state, s.clock.Now()), page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	SortByStartDesc(bookings)

	return s.views(ctx, bookings)
}

// views resolves item and booker once per distinct id.
func (s *service) views(ctx context.Context, bookings []Booking) ([]*View, error) {
	items := make(map[uuid.UUID]ItemRef)
	users := make(map[uuid.UUID]UserRef)

	out := make([]*View, 0, len(bookings))
	for _, b := range bookings {
		item, ok := items[b.ItemID]
		if !ok {
			var err error
			if item, err = s.items.LookupItem(ctx, b.ItemID); err != nil {
				return nil, err
			}
			items[b.ItemID] = item
		}
		booker, ok := users[b.BookerID]
		if !ok {
			var err error
			if booker, err = s.users.LookupUser(ctx, b.BookerID); err != nil {
				return nil, err
			}
			users[b.BookerID] = booker
		}
		out = append(out, newView(b, item, booker))
	}
	return out, nil
}
