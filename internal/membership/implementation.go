// internal/membership/implementation.go
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/clock"
)

// service implements the Service interface.
type service struct {
	store       Store
	clock       clock.Clock
	validate    *validator.Validate
	logger      *slog.Logger
	rateLimiter *rate.Limiter
}

// Option configures the membership service.
type Option func(*service)

// WithRegistrationLimit throttles CreateUser.
func WithRegistrationLimit(l *rate.Limiter) Option {
	return func(s *service) { s.rateLimiter = l }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new membership service instance.
func NewService(store Store, clk clock.Clock, opts ...Option) Service {
	s := &service{
		store:    store,
		clock:    clk,
		validate: validator.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a user with a unique email.
func (s *service) CreateUser(ctx context.Context, name, email string) (*User, error) {
	if s.rateLimiter != nil && !s.rateLimiter.Allow() {
		return nil, apperr.New(apperr.CodeRateLimited, "registration rate limit exceeded")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.New(apperr.CodeValidation, "name is required")
	}
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	u, err := s.store.Create(ctx, &User{Name: name, Email: email, CreatedAt: s.clock.Now()})
	if err != nil {
		if apperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

// UpdateUser applies a partial update.
func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*User, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.apply(u)
	if patch.Email != nil {
		if err := s.checkEmail(u.Email); err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, u); err != nil {
		if apperr.CodeOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by id.
func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.Get(ctx, id)
}

// ListUsers returns every user in creation order.
func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*User, 0, len(users))
	for i := range users {
		out = append(out, &users[i])
	}
	return out, nil
}

// DeleteUser removes a user. Items and bookings referencing it are kept.
func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *service) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperr.New(apperr.CodeValidation, "invalid email %q", email)
	}
	return nil
}

type directory struct {
	store Store
}

// NewDirectory exposes the user store to the booking engine and the catalog.
func NewDirectory(store Store) booking.UserDirectory {
	return &directory{store: store}
}

func (d *directory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := d.store.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case apperr.CodeOf(err) == apperr.CodeUserNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (d *directory) LookupUser(ctx context.Context, id uuid.UUID) (booking.UserRef, error) {
	u, err := d.store.Get(ctx, id)
	if err != nil {
		return booking.UserRef{}, err
	}
	return u.Ref(), nil
}
