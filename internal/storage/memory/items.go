// internal/storage/memory/items.go
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/catalog"
)

type itemStore struct {
	db *DB
}

func (s *itemStore) CreateItem(_ context.Context, item *catalog.Item) (*catalog.Item, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	created := *item
	created.ID = uuid.New()
	s.db.items[created.ID] = created
	s.db.itemOrder = append(s.db.itemOrder, created.ID)
	return &created, nil
}

func (s *itemStore) UpdateItem(_ context.Context, item *catalog.Item) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.items[item.ID]; !ok {
		return apperr.New(apperr.CodeItemNotFound, "item %s not found", item.ID)
	}
	s.db.items[item.ID] = *item
	return nil
}

func (s *itemStore) GetItem(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	item, ok := s.db.items[id]
	if !ok {
		return nil, apperr.New(apperr.CodeItemNotFound, "item %s not found", id)
	}
	return &item, nil
}

func (s *itemStore) ListByOwner(_ context.Context, ownerID uuid.UUID, p booking.Page) ([]catalog.Item, error) {
	return s.filter(p, func(it catalog.Item) bool { return it.OwnerID == ownerID }), nil
}

func (s *itemStore) Search(_ context.Context, text string, p booking.Page) ([]catalog.Item, error) {
	needle := strings.ToLower(text)
	return s.filter(p, func(it catalog.Item) bool {
		return it.Available &&
			(strings.Contains(strings.ToLower(it.Name), needle) || strings.Contains(strings.ToLower(it.Description), needle))
	}), nil
}

func (s *itemStore) ListByRequests(_ context.Context, requestIDs []uuid.UUID) ([]catalog.Item, error) {
	want := make(map[uuid.UUID]bool, len(requestIDs))
	for _, id := range requestIDs {
		want[id] = true
	}
	return s.matching(func(it catalog.Item) bool {
		return it.RequestID.Valid && want[it.RequestID.UUID]
	}), nil
}

// filter returns the page of matches.
func (s *itemStore) filter(p booking.Page, keep func(catalog.Item) bool) []catalog.Item {
	return booking.Slice(s.matching(keep), p)
}

// matching returns every match in creation order.
func (s *itemStore) matching(keep func(catalog.Item) bool) []catalog.Item {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := []catalog.Item{}
	for _, id := range s.db.itemOrder {
		if it := s.db.items[id]; keep(it) {
			matched = append(matched, it)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched
}

func (s *itemStore) AddComment(_ context.Context, c *catalog.Comment) (*catalog.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.items[c.ItemID]; !ok {
		return nil, apperr.New(apperr.CodeItemNotFound, "item %s not found", c.ItemID)
	}
	created := *c
	created.ID = uuid.New()
	s.db.comments = append(s.db.comments, created)
	return &created, nil
}

// ListComments returns the comments of the given items, newest first.
func (s *itemStore) ListComments(_ context.Context, itemIDs []uuid.UUID) ([]catalog.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		want[id] = true
	}
	out := []catalog.Comment{}
	for i := len(s.db.comments) - 1; i >= 0; i-- {
		if c := s.db.comments[i]; want[c.ItemID] {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out, nil
}
