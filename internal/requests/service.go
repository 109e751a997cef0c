// internal/requests/service.go
package requests

import (
	"context"

	"github.com/google/uuid"

	"shareit/internal/booking"
	"shareit/internal/catalog"
)

// Service defines the item request operations.
type Service interface {
	CreateRequest(ctx context.Context, userID uuid.UUID, description string) (*View, error)
	ListOwn(ctx context.Context, userID uuid.UUID) ([]*View, error)
	ListOthers(ctx context.Context, userID uuid.UUID, from, size int) ([]*View, error)
	GetRequest(ctx context.Context, userID, requestID uuid.UUID) (*View, error)
	RequestExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Store persists requests. Get fails with REQUEST_NOT_FOUND. Lists are
// ordered newest first.
type Store interface {
	Create(ctx context.Context, r *Request) (*Request, error)
	Get(ctx context.Context, id uuid.UUID) (*Request, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Request, error)
	ListOthers(ctx context.Context, userID uuid.UUID, p booking.Page) ([]Request, error)
}

// OfferSource finds the items that answer requests.
type OfferSource interface {
	ListByRequests(ctx context.Context, requestIDs []uuid.UUID) ([]catalog.Item, error)
}
