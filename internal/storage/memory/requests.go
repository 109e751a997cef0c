// internal/storage/memory/requests.go
package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/requests"
)

type requestStore struct {
	db *DB
}

func (s *requestStore) Create(_ context.Context, r *requests.Request) (*requests.Request, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	created := *r
	created.ID = uuid.New()
	s.db.requests[created.ID] = created
	s.db.requestOrder = append(s.db.requestOrder, created.ID)
	return &created, nil
}

func (s *requestStore) Get(_ context.Context, id uuid.UUID) (*requests.Request, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	r, ok := s.db.requests[id]
	if !ok {
		return nil, apperr.New(apperr.CodeRequestNotFound, "request %s not found", id)
	}
	return &r, nil
}

func (s *requestStore) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]requests.Request, error) {
	return s.newestFirst(func(r requests.Request) bool { return r.RequesterID == requesterID }), nil
}

func (s *requestStore) ListOthers(_ context.Context, userID uuid.UUID, p booking.Page) ([]requests.Request, error) {
	all := s.newestFirst(func(r requests.Request) bool { return r.RequesterID != userID })
	return booking.Slice(all, p), nil
}

func (s *requestStore) newestFirst(keep func(requests.Request) bool) []requests.Request {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []requests.Request{}
	for i := len(s.db.requestOrder) - 1; i >= 0; i-- {
		if r := s.db.requests[s.db.requestOrder[i]]; keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out
}
