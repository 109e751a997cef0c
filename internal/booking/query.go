// internal/booking/query.go
package booking

import (
	"sort"
	"strings"
	"time"

	"shareit/internal/apperr"
)

// State selects bookings relative to their status or to "now".
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// StateOf normalizes a state token without validating it. An empty token
// means ALL.
func StateOf(token string) State {
	token = strings.TrimSpace(token)
	if token == "" {
		return StateAll
	}
	return State(strings.ToUpper(token))
}

// ParseState parses a state token. An empty token means ALL.
func ParseState(token string) (State, error) {
	s := StateOf(token)
	if !s.Valid() {
		return "", apperr.New(apperr.CodeUnknownState, "Unknown state: %s", token)
	}
	return s, nil
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return true
	}
	return false
}

// Resolution is the finest time step stores keep. Instants compared against
// stored bookings are truncated to it first.
const Resolution = time.Millisecond

// Instant truncates t to Resolution.
func Instant(t time.Time) time.Time {
	return t.Truncate(Resolution)
}

// Filter is a state predicate evaluated against a fixed "now". Build it with
// NewFilter so Now has the stores' resolution.
type Filter struct {
	State State
	Now   time.Time
}

func NewFilter(state State, now time.Time) Filter {
	return Filter{State: state, Now: Instant(now)}
}

// Matches evaluates the filter in memory. Stores that translate the filter to
// a query must keep the same semantics.
func (f Filter) Matches(b Booking) bool {
	switch f.State {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(f.Now) && !b.End.Before(f.Now)
	case StatePast:
		return b.End.Before(f.Now)
	case StateFuture:
		return b.Start.After(f.Now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	return false
}

// Page is page-based slicing: the page index is From/Size (integer division)
// and each page holds Size elements. A From that is not a multiple of Size
// snaps down to the enclosing page boundary.
type Page struct {
	From int
	Size int
}

// NewPage validates from and size.
func NewPage(from, size int) (Page, error) {
	if from < 0 || size <= 0 {
		return Page{}, apperr.New(apperr.CodeInvalidPagination, "from must be >= 0 and size > 0, got from=%d size=%d", from, size)
	}
	return Page{From: from, Size: size}, nil
}

// Index is the zero-based page number.
func (p Page) Index() int { return p.From / p.Size }

// Offset is the index of the first element of the page.
func (p Page) Offset() int { return p.Index() * p.Size }

// Slice returns the page window of a list that is already ordered.
func Slice[T any](list []T, p Page) []T {
	offset := p.Offset()
	if offset >= len(list) {
		return []T{}
	}
	end := offset + p.Size
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// SortByStartDesc orders bookings by start, latest first. Ties keep their
// relative order.
func SortByStartDesc(bookings []Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Start.After(bookings[j].Start)
	})
}
