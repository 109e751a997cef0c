// internal/membership/service.go
package membership

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the membership service.
type Service interface {
	CreateUser(ctx context.Context, name, email string) (*User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Store persists users. Create and Update fail with DUPLICATE_EMAIL when the
// email belongs to another user; Get, Update and Delete fail with
// USER_NOT_FOUND. Delete fails with USER_IN_USE while the user owns items or
// has made bookings. List orders by creation.
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) error
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
