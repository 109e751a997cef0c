// internal/requests/implementation.go
package requests

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
)

type service struct {
	store  Store
	offers OfferSource
	users  booking.UserDirectory
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new item request service instance.
func NewService(store Store, offers OfferSource, users booking.UserDirectory, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{store: store, offers: offers, users: users, clock: clk, logger: logger}
}

func (s *service) CreateRequest(ctx context.Context, userID uuid.UUID, description string) (*View, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperr.New(apperr.CodeValidation, "description is required")
	}
	if _, err := s.users.LookupUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.store.Create(ctx, &Request{
		Description: description,
		RequesterID: userID,
		Created:     s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info("item request created", "request_id", req.ID, "requester_id", userID)
	return &View{Request: *req, Items: []catalog.Item{}}, nil
}

// ListOwn returns the caller's requests, newest first.
func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) ([]*View, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withOffers(ctx, list)
}

// ListOthers returns a page of everybody else's requests, newest first.
func (s *service) ListOthers(ctx context.Context, userID uuid.UUID, from, size int) ([]*View, error) {
	page, err := booking.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.store.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withOffers(ctx, list)
}

// GetRequest returns any request to any existing user.
func (s *service) GetRequest(ctx context.Context, userID, requestID uuid.UUID) (*View, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	views, err := s.withOffers(ctx, []Request{*req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *service) RequestExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case apperr.CodeOf(err) == apperr.CodeRequestNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (s *service) requireUser(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return apperr.New(apperr.CodeUserNotFound, "user %s not found", userID)
	}
	return nil
}

func (s *service) withOffers(ctx context.Context, list []Request) ([]*View, error) {
	ids := make([]uuid.UUID, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	items, err := s.offers.ListByRequests(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list offered items: %w", err)
	}
	byRequest := make(map[uuid.UUID][]catalog.Item)
	for _, it := range items {
		byRequest[it.RequestID.UUID] = append(byRequest[it.RequestID.UUID], it)
	}

	out := make([]*View, 0, len(list))
	for _, r := range list {
		offered := byRequest[r.ID]
		if offered == nil {
			offered = []catalog.Item{}
		}
		out = append(out, &View{Request: r, Items: offered})
	}
	return out, nil
}
