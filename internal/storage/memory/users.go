// internal/storage/memory/users.go
package memory

import (
	"context"

	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/membership"
)

type userStore struct {
	db *DB
}

func (s *userStore) Create(_ context.Context, u *membership.User) (*membership.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.emailTaken(u.Email, uuid.Nil) {
		return nil, apperr.New(apperr.CodeDuplicateEmail, "email %s is already registered", u.Email)
	}
	created := *u
	created.ID = uuid.New()
	s.db.users[created.ID] = created
	s.db.userOrder = append(s.db.userOrder, created.ID)
	return &created, nil
}

func (s *userStore) Update(_ context.Context, u *membership.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[u.ID]; !ok {
		return apperr.New(apperr.CodeUserNotFound, "user %s not found", u.ID)
	}
	if s.emailTaken(u.Email, u.ID) {
		return apperr.New(apperr.CodeDuplicateEmail, "email %s is already registered", u.Email)
	}
	s.db.users[u.ID] = *u
	return nil
}

func (s *userStore) Get(_ context.Context, id uuid.UUID) (*membership.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, apperr.New(apperr.CodeUserNotFound, "user %s not found", id)
	}
	return &u, nil
}

func (s *userStore) List(_ context.Context) ([]membership.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]membership.User, 0, len(s.db.userOrder))
	for _, id := range s.db.userOrder {
		out = append(out, s.db.users[id])
	}
	return out, nil
}

func (s *userStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return apperr.New(apperr.CodeUserNotFound, "user %s not found", id)
	}
	for _, item := range s.db.items {
		if item.OwnerID == id {
			return apperr.New(apperr.CodeUserInUse, "user %s still owns items", id)
		}
	}
	for _, b := range s.db.bookings {
		if b.BookerID == id {
			return apperr.New(apperr.CodeUserInUse, "user %s still has bookings", id)
		}
	}
	delete(s.db.users, id)
	s.db.userOrder = removeID(s.db.userOrder, id)
	return nil
}

// emailTaken must be called with the lock held.
func (s *userStore) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range s.db.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}
