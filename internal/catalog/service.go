// internal/catalog/service.go
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shareit/internal/booking"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddItem(ctx context.Context, ownerID uuid.UUID, in NewItem) (*Item, error)
	EditItem(ctx context.Context, ownerID, itemID uuid.UUID, patch ItemPatch) (*Item, error)
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetails, error)
	ListOwnerItems(ctx context.Context, ownerID uuid.UUID, from, size int) ([]*ItemDetails, error)
	Search(ctx context.Context, userID uuid.UUID, text string, from, size int) ([]*Item, error)
	AddComment(ctx context.Context, userID, itemID uuid.UUID, text string) (*Comment, error)
}

// Store persists items and comments. GetItem fails with ITEM_NOT_FOUND.
// ListByOwner orders by creation; Search matches available items only.
type Store interface {
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p booking.Page) ([]Item, error)
	Search(ctx context.Context, text string, p booking.Page) ([]Item, error)
	ListByRequests(ctx context.Context, requestIDs []uuid.UUID) ([]Item, error)
	AddComment(ctx context.Context, c *Comment) (*Comment, error)
	ListComments(ctx context.Context, itemIDs []uuid.UUID) ([]Comment, error)
}

// BookingTimeline supplies the temporal facts items are decorated with.
type BookingTimeline interface {
	LastAndNextBooking(ctx context.Context, itemID uuid.UUID, now time.Time) (last, next *booking.Summary, err error)
	CanComment(ctx context.Context, itemID, userID uuid.UUID, now time.Time) (bool, error)
}

// RequestDirectory checks item request references.
type RequestDirectory interface {
	RequestExists(ctx context.Context, id uuid.UUID) (bool, error)
}
