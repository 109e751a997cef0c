// internal/membership/domain.go
package membership

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"shareit/internal/booking"
)

// User is a registered ShareIt user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref projects the fields the booking engine reads.
func (u User) Ref() booking.UserRef {
	return booking.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserPatch is a partial update; nil fields are left unchanged.
type UserPatch struct {
	Name  *string
	Email *string
}

func (p UserPatch) apply(u *User) {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = normalizeEmail(*p.Email)
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
