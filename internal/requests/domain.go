// internal/requests/domain.go
package requests

import (
	"time"

	"github.com/google/uuid"

	"shareit/internal/catalog"
)

// Request is a user's ask for an item nobody offers yet. Other users answer
// it by adding items that reference the request.
type Request struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	RequesterID uuid.UUID `json:"requester_id"`
	Created     time.Time `json:"created"`
}

// View is a request with the items offered in response.
type View struct {
	Request
	Items []catalog.Item
}
