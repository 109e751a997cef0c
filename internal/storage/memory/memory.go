// Package memory keeps every entity in process memory. Each call is atomic
// under a single RWMutex; nothing spans calls.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
	"shareit/internal/membership"
	"shareit/internal/requests"
)

// DB holds the maps shared by the typed stores. Order slices record insertion
// order so listings are deterministic.
type DB struct {
	mu    sync.RWMutex
	clock clock.Clock

	users     map[uuid.UUID]membership.User
	userOrder []uuid.UUID

	items     map[uuid.UUID]catalog.Item
	itemOrder []uuid.UUID
	comments  []catalog.Comment

	bookings     map[uuid.UUID]booking.Booking
	bookingOrder []uuid.UUID
	journal      map[uuid.UUID][]booking.HistoryEntry

	requests     map[uuid.UUID]requests.Request
	requestOrder []uuid.UUID
}

// New creates an empty database. clk stamps journal entries.
func New(clk clock.Clock) *DB {
	if clk == nil {
		clk = clock.System{}
	}
	return &DB{
		clock:    clk,
		users:    make(map[uuid.UUID]membership.User),
		items:    make(map[uuid.UUID]catalog.Item),
		bookings: make(map[uuid.UUID]booking.Booking),
		journal:  make(map[uuid.UUID][]booking.HistoryEntry),
		requests: make(map[uuid.UUID]requests.Request),
	}
}

func (db *DB) Users() membership.Store  { return &userStore{db: db} }
func (db *DB) Items() catalog.Store     { return &itemStore{db: db} }
func (db *DB) Bookings() booking.Store  { return &bookingStore{db: db} }
func (db *DB) Requests() requests.Store { return &requestStore{db: db} }

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
