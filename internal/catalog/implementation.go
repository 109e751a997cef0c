// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/clock"
)

// service implements the Service interface.
type service struct {
	store    Store
	users    booking.UserDirectory
	requests RequestDirectory
	timeline BookingTimeline
	clock    clock.Clock
	logger   *slog.Logger
}

// NewService creates a new catalog service instance.
func NewService(store Store, users booking.UserDirectory, requests RequestDirectory, timeline BookingTimeline, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		store:    store,
		users:    users,
		requests: requests,
		timeline: timeline,
		clock:    clk,
		logger:   logger,
	}
}

// AddItem creates a new item owned by ownerID.
func (s *service) AddItem(ctx context.Context, ownerID uuid.UUID, in NewItem) (*Item, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, apperr.New(apperr.CodeValidation, "name and description are required")
	}
	if _, err := s.users.LookupUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if in.RequestID.Valid {
		ok, err := s.requests.RequestExists(ctx, in.RequestID.UUID)
		if err != nil {
			return nil, fmt.Errorf("failed to check request: %w", err)
		}
		if !ok {
			return nil, apperr.New(apperr.CodeRequestNotFound, "request %s not found", in.RequestID.UUID)
		}
	}

	item, err := s.store.CreateItem(ctx, &Item{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		RequestID:   in.RequestID,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("item added", "item_id", item.ID, "owner_id", ownerID)
	return item, nil
}

// EditItem applies a partial update. Only the owner may edit.
func (s *service) EditItem(ctx context.Context, ownerID, itemID uuid.UUID, patch ItemPatch) (*Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperr.New(apperr.CodeNotAuthorized, "user %s is not the owner of item %s", ownerID, itemID)
	}

	patch.apply(item)
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// GetItem returns an item with its comments, and with its last and next
// bookings when userID owns it.
func (s *service) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetails, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details, err := s.decorate(ctx, userID, []Item{*item})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// ListOwnerItems lists the owner's items in creation order, each decorated.
func (s *service) ListOwnerItems(ctx context.Context, ownerID uuid.UUID, from, size int) ([]*ItemDetails, error) {
	if _, err := s.users.LookupUser(ctx, ownerID); err != nil {
		return nil, err
	}
	page, err := booking.NewPage(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return s.decorate(ctx, ownerID, items)
}

// Search finds available items whose name or description contains text,
// ignoring case. Blank text matches nothing.
func (s *service) Search(ctx context.Context, userID uuid.UUID, text string, from, size int) ([]*Item, error) {
	page, err := booking.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}

	found, err := s.store.Search(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	out := make([]*Item, 0, len(found))
	for i := range found {
		out = append(out, &found[i])
	}
	return out, nil
}

// AddComment records a comment by a user who has completed an approved
// booking of the item.
func (s *service) AddComment(ctx context.Context, userID, itemID uuid.UUID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.CodeValidation, "comment text is required")
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	author, err := s.users.LookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.timeline.CanComment(ctx, item.ID, userID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.CodeNotEligibleToComment, "user %s has not completed a booking of item %s", userID, itemID)
	}

	c, err := s.store.AddComment(ctx, &Comment{
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		Created:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.logger.Info("comment added", "comment_id", c.ID, "item_id", item.ID, "author_id", author.ID)
	return c, nil
}

func (s *service) decorate(ctx context.Context, userID uuid.UUID, items []Item) ([]*ItemDetails, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	comments, err := s.store.ListComments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	byItem := make(map[uuid.UUID][]Comment, len(items))
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	now := s.clock.Now()
	out := make([]*ItemDetails, 0, len(items))
	for _, it := range items {
		d := &ItemDetails{Item: it, Comments: byItem[it.ID]}
		if d.Comments == nil {
			d.Comments = []Comment{}
		}
		if it.OwnerID == userID {
			if d.LastBooking, d.NextBooking, err = s.timeline.LastAndNextBooking(ctx, it.ID, now); err != nil {
				return nil, err
			}
		}
		out = append(out, d)
	}
	return out, nil
}

type directory struct {
	store Store
}

// NewDirectory exposes the item store to the booking engine.
func NewDirectory(store Store) booking.ItemDirectory {
	return &directory{store: store}
}

func (d *directory) LookupItem(ctx context.Context, id uuid.UUID) (booking.ItemRef, error) {
	item, err := d.store.GetItem(ctx, id)
	if err != nil {
		return booking.ItemRef{}, err
	}
	return item.Ref(), nil
}
