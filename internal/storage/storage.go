// Package storage selects a backend for the ShareIt stores from a database URL.
package storage

import (
	"context"
	"log/slog"
	"strings"

	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
	"shareit/internal/membership"
	"shareit/internal/requests"
	"shareit/internal/storage/memory"
	"shareit/internal/storage/sqlstore"
)

// Stores groups the typed stores of one backend.
type Stores struct {
	Users    membership.Store
	Items    catalog.Store
	Bookings booking.Store
	Requests requests.Store

	close func() error
}

// Close releases the backend.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open returns in-memory stores for memory:// and SQL stores otherwise.
func Open(ctx context.Context, url string, clk clock.Clock, logger *slog.Logger) (*Stores, error) {
	if url == "" || strings.HasPrefix(url, "memory://") {
		db := memory.New(clk)
		return &Stores{
			Users:    db.Users(),
			Items:    db.Items(),
			Bookings: db.Bookings(),
			Requests: db.Requests(),
		}, nil
	}

	db, err := sqlstore.Open(ctx, url, sqlstore.WithClock(clk), sqlstore.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Stores{
		Users:    db.Users(),
		Items:    db.Items(),
		Bookings: db.Bookings(),
		Requests: db.Requests(),
		close:    db.Close,
	}, nil
}
