// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"

	"shareit/internal/booking"
)

// Item is a thing a user offers for sharing.
type Item struct {
	ID          uuid.UUID     `json:"id"`
	OwnerID     uuid.UUID     `json:"owner_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	RequestID   uuid.NullUUID `json:"request_id"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Ref projects the fields the booking engine reads.
func (i Item) Ref() booking.ItemRef {
	return booking.ItemRef{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
	}
}

// NewItem carries the fields of an item to create.
type NewItem struct {
	Name        string
	Description string
	Available   bool
	RequestID   uuid.NullUUID
}

// ItemPatch is a partial update; nil fields are left unchanged.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

func (p ItemPatch) apply(item *Item) {
	if p.Name != nil && *p.Name != "" {
		item.Name = *p.Name
	}
	if p.Description != nil && *p.Description != "" {
		item.Description = *p.Description
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
}

// Comment is feedback left by a user who completed a booking of the item.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
}

// ItemDetails is an item decorated for reading. LastBooking and NextBooking
// are set only when the reader owns the item.
type ItemDetails struct {
	Item
	LastBooking *booking.Summary
	NextBooking *booking.Summary
	Comments    []Comment
}
