// Package clock supplies the current instant to the services.
//
// All instants are timezone-naive wall times: the local date and time of the
// configured location, carried in a time.Time whose location is UTC. Values
// parsed from the wire use the same representation, so comparisons never mix
// zones.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current naive wall time.
type Clock interface {
	Now() time.Time
}

// System reads the machine clock in Location.
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return Naive(time.Now().In(loc))
}

// Naive keeps t's wall clock reading and drops its zone.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Manual is a settable clock for tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
