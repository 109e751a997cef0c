package booking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
	"shareit/internal/membership"
	"shareit/internal/storage/memory"
)

var start = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

type fixture struct {
	ctx     context.Context
	clock   *clock.Manual
	db      *memory.DB
	store   booking.Store
	service booking.Service
	owner   membership.User
	booker  membership.User
	item    catalog.Item
}

func newFixture(t testingT) *fixture {
	t.Helper()

	f := &fixture{ctx: context.Background(), clock: clock.NewManual(start)}
	f.db = memory.New(f.clock)
	f.store = f.db.Bookings()
	f.service = booking.NewService(
		f.store,
		catalog.NewDirectory(f.db.Items()),
		membership.NewDirectory(f.db.Users()),
		f.clock,
	)

	f.owner = f.addUser(t, "owner")
	f.booker = f.addUser(t, "booker")
	f.item = f.addItem(t, f.owner.ID, true)
	return f
}

func (f *fixture) addUser(t testingT, name string) membership.User {
	t.Helper()
	u, err := f.db.Users().Create(f.ctx, &membership.User{
		Name:  name,
		Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
	})
	require.NoError(t, err)
	return *u
}

func (f *fixture) addItem(t testingT, ownerID uuid.UUID, available bool) catalog.Item {
	t.Helper()
	it, err := f.db.Items().CreateItem(f.ctx, &catalog.Item{
		OwnerID:     ownerID,
		Name:        "drill",
		Description: "cordless drill",
		Available:   available,
		CreatedAt:   f.clock.Now(),
	})
	require.NoError(t, err)
	return *it
}

func (f *fixture) book(t testingT, from, to time.Duration) *booking.View {
	t.Helper()
	now := f.clock.Now()
	v, err := f.service.CreateBooking(f.ctx, f.booker.ID, booking.Input{
		Start:  now.Add(from),
		End:    now.Add(to),
		ItemID: f.item.ID,
	})
	require.NoError(t, err)
	return v
}

func ids(views []*booking.View) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	v := f.book(t, time.Hour, 2*time.Hour)

	assert.NotEqual(t, uuid.Nil, v.ID)
	assert.Equal(t, booking.StatusWaiting, v.Status)
	assert.Equal(t, f.item.ID, v.Item.ID)
	assert.Equal(t, f.item.Name, v.Item.Name)
	assert.Equal(t, f.booker.ID, v.Booker.ID)
	assert.Equal(t, f.booker.Email, v.Booker.Email)
	assert.Equal(t, start.Add(time.Hour), v.Start)
}

func TestCreateBookingValidationOrder(t *testing.T) {
	f := newFixture(t)
	unavailable := f.addItem(t, f.owner.ID, false)
	now := f.clock.Now()

	tests := []struct {
		name      string
		requester uuid.UUID
		in        booking.Input
		want      error
	}{
		{
			name:      "end before start",
			requester: f.booker.ID,
			in:        booking.Input{Start: now.Add(2 * time.Hour), End: now.Add(time.Hour), ItemID: f.item.ID},
			want:      apperr.ErrInvalidTimeRange,
		},
		{
			name:      "equal bounds",
			requester: f.booker.ID,
			in:        booking.Input{Start: now.Add(time.Hour), End: now.Add(time.Hour), ItemID: f.item.ID},
			want:      apperr.ErrInvalidTimeRange,
		},
		{
			name:      "inverted window in the past reports the range first",
			requester: f.booker.ID,
			in:        booking.Input{Start: now.Add(-time.Hour), End: now.Add(-2 * time.Hour), ItemID: uuid.New()},
			want:      apperr.ErrInvalidTimeRange,
		},
		{
			name:      "start in the past",
			requester: f.booker.ID,
			in:        booking.Input{Start: now.Add(-time.Hour), End: now.Add(time.Hour), ItemID: f.item.ID},
			want:      apperr.ErrPastBooking,
		},
		{
			name:      "start exactly now",
			requester: f.booker.ID,
			in:        booking.Input{Start: now, End: now.Add(time.Hour), ItemID: f.item.ID},
			want:      apperr.ErrPastBooking,
		},
		{
			name:      "unknown item before unknown user",
			requester: uuid.New(),
			in:        booking.Input{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: uuid.New()},
			want:      apperr.ErrItemNotFound,
		},
		{
			name:      "unavailable item",
			requester: f.booker.ID,
			in:        booking.Input{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: unavailable.ID},
			want:      apperr.ErrItemUnavailable,
		},
		{
			name:      "own item",
			requester: f.owner.ID,
			in:        booking.Input{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: f.item.ID},
			want:      apperr.ErrSelfBookingForbidden,
		},
		{
			name:      "unknown booker",
			requester: uuid.New(),
			in:        booking.Input{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: f.item.ID},
			want:      apperr.ErrUserNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateBooking(f.ctx, tt.requester, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateBookingAllowsOverlap(t *testing.T) {
	f := newFixture(t)

	a := f.book(t, time.Hour, 3*time.Hour)
	_, err := f.service.DecideBooking(f.ctx, f.owner.ID, a.ID, true)
	require.NoError(t, err)

	b := f.book(t, 2*time.Hour, 4*time.Hour)
	_, err = f.service.DecideBooking(f.ctx, f.owner.ID, b.ID, true)
	require.NoError(t, err)
}

func TestDecideBooking(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, time.Hour, 2*time.Hour)

	approved, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, true)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, approved.Status)
	assert.Equal(t, f.booker.ID, approved.Booker.ID)

	_, err = f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, false)
	require.ErrorIs(t, err, apperr.ErrAlreadyDecided)

	stored, err := f.store.FindByID(f.ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, stored.Status)
}

func TestDecideBookingRejectedCannotBeRejectedAgain(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, time.Hour, 2*time.Hour)

	_, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, false)
	require.NoError(t, err)
	_, err = f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, false)
	require.ErrorIs(t, err, apperr.ErrAlreadyDecided)
}

func TestDecideBookingErrors(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, time.Hour, 2*time.Hour)

	_, err := f.service.DecideBooking(f.ctx, f.owner.ID, uuid.New(), true)
	require.ErrorIs(t, err, apperr.ErrBookingNotFound)

	_, err = f.service.DecideBooking(f.ctx, f.booker.ID, v.ID, true)
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	stored, err := f.store.FindByID(f.ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusWaiting, stored.Status)
}

// missingUsers hides the given users from an otherwise working directory.
type missingUsers struct {
	booking.UserDirectory
	hidden map[uuid.UUID]bool
}

func (m missingUsers) LookupUser(ctx context.Context, id uuid.UUID) (booking.UserRef, error) {
	if m.hidden[id] {
		return booking.UserRef{}, apperr.New(apperr.CodeUserNotFound, "user %s not found", id)
	}
	return m.UserDirectory.LookupUser(ctx, id)
}

func TestDecideBookingLeavesStatusWhenBookerUnresolved(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, time.Hour, 2*time.Hour)

	svc := booking.NewService(
		f.store,
		catalog.NewDirectory(f.db.Items()),
		missingUsers{UserDirectory: membership.NewDirectory(f.db.Users()), hidden: map[uuid.UUID]bool{f.booker.ID: true}},
		f.clock,
	)
	_, err := svc.DecideBooking(f.ctx, f.owner.ID, v.ID, true)
	require.ErrorIs(t, err, apperr.ErrUserNotFound)

	stored, err := f.store.FindByID(f.ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusWaiting, stored.Status)

	history, err := f.store.History(f.ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	approved, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, true)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, approved.Status)
}

func TestGetBookingVisibility(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, time.Hour, 2*time.Hour)
	stranger := f.addUser(t, "stranger")

	got, err := f.service.GetBooking(f.ctx, f.booker.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	got, err = f.service.GetBooking(f.ctx, f.owner.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = f.service.GetBooking(f.ctx, stranger.ID, v.ID)
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	_, err = f.service.GetBooking(f.ctx, f.booker.ID, uuid.New())
	require.ErrorIs(t, err, apperr.ErrBookingNotFound)
}

func TestBookingHistory(t *testing.T) {
	f := newFixture(t)
	v := f.book(t, time.Hour, 2*time.Hour)
	f.clock.Advance(time.Minute)
	_, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, false)
	require.NoError(t, err)

	history, err := f.service.BookingHistory(f.ctx, f.booker.ID, v.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Version)
	assert.Equal(t, booking.EventBookingRequested, history[0].Type)
	assert.Equal(t, booking.StatusWaiting, history[0].Status)
	assert.Equal(t, 2, history[1].Version)
	assert.Equal(t, booking.EventBookingRejected, history[1].Type)
	assert.Equal(t, start.Add(time.Minute), history[1].RecordedAt)

	stranger := f.addUser(t, "stranger")
	_, err = f.service.BookingHistory(f.ctx, stranger.ID, v.ID)
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)
}

func TestListBookingsByState(t *testing.T) {
	f := newFixture(t)
	past := f.book(t, time.Hour, 2*time.Hour)
	current := f.book(t, 3*time.Hour, 5*time.Hour)
	future := f.book(t, 10*time.Hour, 11*time.Hour)
	_, err := f.service.DecideBooking(f.ctx, f.owner.ID, current.ID, false)
	require.NoError(t, err)

	f.clock.Advance(4 * time.Hour)

	tests := []struct {
		state booking.State
		want  []uuid.UUID
	}{
		{booking.StateAll, []uuid.UUID{future.ID, current.ID, past.ID}},
		{booking.StateCurrent, []uuid.UUID{current.ID}},
		{booking.StatePast, []uuid.UUID{past.ID}},
		{booking.StateFuture, []uuid.UUID{future.ID}},
		{booking.StateWaiting, []uuid.UUID{future.ID, past.ID}},
		{booking.StateRejected, []uuid.UUID{current.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			got, err := f.service.ListBookingsForBooker(f.ctx, f.booker.ID, tt.state, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))

			got, err = f.service.ListBookingsForOwner(f.ctx, f.owner.ID, tt.state, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestListBookingsErrorOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListBookingsForBooker(f.ctx, uuid.New(), booking.State("NOPE"), -1, 0)
	require.ErrorIs(t, err, apperr.ErrUserNotFound)

	_, err = f.service.ListBookingsForOwner(f.ctx, f.owner.ID, booking.State("NOPE"), -1, 10)
	require.ErrorIs(t, err, apperr.ErrInvalidPagination)

	_, err = f.service.ListBookingsForOwner(f.ctx, f.owner.ID, booking.State("NOPE"), 0, 10)
	require.ErrorIs(t, err, apperr.ErrUnknownState)
	assert.Equal(t, "Unknown state: NOPE", apperr.MessageOf(err))
}

func TestListBookingsPaging(t *testing.T) {
	f := newFixture(t)
	var created []uuid.UUID
	for i := 1; i <= 5; i++ {
		created = append(created, f.book(t, time.Duration(i)*time.Hour, time.Duration(i)*time.Hour+time.Minute).ID)
	}
	// newest start first
	want := []uuid.UUID{created[4], created[3], created[2], created[1], created[0]}

	got, err := f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StateAll, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, want[0:2], ids(got))

	got, err = f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StateAll, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, want[2:4], ids(got))

	got, err = f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StateAll, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, want[4:], ids(got))

	got, err = f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StateAll, 6, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBookingsForOwnerExcludesOtherOwners(t *testing.T) {
	f := newFixture(t)
	other := f.addUser(t, "other")
	otherItem := f.addItem(t, other.ID, true)

	mine := f.book(t, time.Hour, 2*time.Hour)
	_, err := f.service.CreateBooking(f.ctx, f.booker.ID, booking.Input{
		Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), ItemID: otherItem.ID,
	})
	require.NoError(t, err)

	got, err := f.service.ListBookingsForOwner(f.ctx, f.owner.ID, booking.StateAll, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{mine.ID}, ids(got))
}

func TestScenarioApproveThenTimePasses(t *testing.T) {
	f := newFixture(t)

	a := f.book(t, time.Hour, 2*time.Hour)
	assert.Equal(t, booking.StatusWaiting, a.Status)

	approved, err := f.service.DecideBooking(f.ctx, f.owner.ID, a.ID, true)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, approved.Status)

	future, err := f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StateFuture, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, ids(future))

	f.clock.Advance(2*time.Hour + time.Second)

	past, err := f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StatePast, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, ids(past))

	future, err = f.service.ListBookingsForBooker(f.ctx, f.booker.ID, booking.StateFuture, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestScenarioEqualBoundsRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateBooking(f.ctx, f.booker.ID, booking.Input{
		Start: start.Add(time.Hour), End: start.Add(time.Hour), ItemID: f.item.ID,
	})
	require.ErrorIs(t, err, apperr.ErrInvalidTimeRange)
}

func TestScenarioStrangerCannotDecide(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, time.Hour, 2*time.Hour)
	stranger := f.addUser(t, "stranger")

	_, err := f.service.DecideBooking(f.ctx, stranger.ID, a.ID, true)
	require.ErrorIs(t, err, apperr.ErrNotAuthorized)

	got, err := f.service.GetBooking(f.ctx, f.booker.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusWaiting, got.Status)
}

func TestTimelineAgainstStore(t *testing.T) {
	f := newFixture(t)
	timeline := booking.NewTimeline(f.store)

	var approved []uuid.UUID
	for _, h := range []int{1, 2, 3, 4} {
		v := f.book(t, time.Duration(h)*time.Hour, time.Duration(h)*time.Hour+30*time.Minute)
		_, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, true)
		require.NoError(t, err)
		approved = append(approved, v.ID)
	}
	waiting := f.book(t, 150*time.Minute, 160*time.Minute)

	now := start.Add(150 * time.Minute)
	last, next, err := timeline.LastAndNextBooking(f.ctx, f.item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.NotNil(t, next)
	assert.Equal(t, approved[1], last.ID)
	assert.Equal(t, approved[2], next.ID)
	assert.NotEqual(t, waiting.ID, next.ID)
}

func TestCanComment(t *testing.T) {
	f := newFixture(t)
	timeline := booking.NewTimeline(f.store)

	approved := f.book(t, time.Hour, 2*time.Hour)
	_, err := f.service.DecideBooking(f.ctx, f.owner.ID, approved.ID, true)
	require.NoError(t, err)

	other := f.addUser(t, "other")
	waiting, err := f.service.CreateBooking(f.ctx, other.ID, booking.Input{
		Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), ItemID: f.item.ID,
	})
	require.NoError(t, err)
	rejecter := f.addUser(t, "rejected")
	rejected, err := f.service.CreateBooking(f.ctx, rejecter.ID, booking.Input{
		Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), ItemID: f.item.ID,
	})
	require.NoError(t, err)
	_, err = f.service.DecideBooking(f.ctx, f.owner.ID, rejected.ID, false)
	require.NoError(t, err)

	ok, err := timeline.CanComment(f.ctx, f.item.ID, f.booker.ID, start.Add(90*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "booking not finished yet")

	later := start.Add(3 * time.Hour)
	ok, err = timeline.CanComment(f.ctx, f.item.ID, f.booker.ID, later)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = timeline.CanComment(f.ctx, f.item.ID, waiting.Booker.ID, later)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = timeline.CanComment(f.ctx, f.item.ID, rejecter.ID, later)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateBookingRejectsBadWindows(t *testing.T) {
	f := newFixture(t)

	rapid.Check(t, func(t *rapid.T) {
		s := time.Duration(rapid.IntRange(-120, 120).Draw(t, "start")) * time.Minute
		e := time.Duration(rapid.IntRange(-120, 120).Draw(t, "end")) * time.Minute
		if s > 0 && s < e {
			return
		}

		_, err := f.service.CreateBooking(f.ctx, f.booker.ID, booking.Input{
			Start: start.Add(s), End: start.Add(e), ItemID: f.item.ID,
		})
		if err == nil {
			t.Fatalf("window %v..%v accepted", s, e)
		}
		code := apperr.CodeOf(err)
		if code != apperr.CodeInvalidTimeRange && code != apperr.CodePastBooking {
			t.Fatalf("unexpected error %v", err)
		}
	})
}

func TestCreateBookingRejectsOwnerAlways(t *testing.T) {
	f := newFixture(t)

	rapid.Check(t, func(t *rapid.T) {
		s := time.Duration(rapid.IntRange(1, 120).Draw(t, "start")) * time.Minute
		d := time.Duration(rapid.IntRange(1, 120).Draw(t, "length")) * time.Minute

		_, err := f.service.CreateBooking(f.ctx, f.owner.ID, booking.Input{
			Start: start.Add(s), End: start.Add(s + d), ItemID: f.item.ID,
		})
		if !errors.Is(err, apperr.ErrSelfBookingForbidden) {
			t.Fatalf("owner booking returned %v", err)
		}
	})
}

func TestDecidedBookingNeverChanges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := newFixture(t)
		v := f.book(t, time.Hour, 2*time.Hour)
		first := rapid.Bool().Draw(t, "first")
		_, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, first)
		if err != nil {
			t.Fatalf("first decision: %v", err)
		}
		want, _ := f.store.FindByID(f.ctx, v.ID)

		for _, approve := range rapid.SliceOfN(rapid.Bool(), 1, 5).Draw(t, "again") {
			_, err := f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, approve)
			if !errors.Is(err, apperr.ErrAlreadyDecided) {
				t.Fatalf("second decision returned %v", err)
			}
		}
		got, _ := f.store.FindByID(f.ctx, v.ID)
		if got.Status != want.Status {
			t.Fatalf("status changed from %s to %s", want.Status, got.Status)
		}
	})
}

func TestListingIsSortedAndFiltered(t *testing.T) {
	states := []booking.State{
		booking.StateAll, booking.StateCurrent, booking.StatePast,
		booking.StateFuture, booking.StateWaiting, booking.StateRejected,
	}

	rapid.Check(t, func(t *rapid.T) {
		f := newFixture(t)
		n := rapid.IntRange(0, 12).Draw(t, "n")
		for i := 0; i < n; i++ {
			s := time.Duration(rapid.IntRange(1, 48).Draw(t, "start")) * time.Hour
			d := time.Duration(rapid.IntRange(1, 10).Draw(t, "length")) * time.Hour
			v := f.book(t, s, s+d)
			switch rapid.IntRange(0, 2).Draw(t, "decision") {
			case 1:
				_, _ = f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, true)
			case 2:
				_, _ = f.service.DecideBooking(f.ctx, f.owner.ID, v.ID, false)
			}
		}
		f.clock.Advance(time.Duration(rapid.IntRange(0, 60).Draw(t, "elapsed")) * time.Hour)
		state := rapid.SampledFrom(states).Draw(t, "state")

		got, err := f.service.ListBookingsForOwner(f.ctx, f.owner.ID, state, 0, 100)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		filter := booking.Filter{State: state, Now: f.clock.Now()}
		for i, v := range got {
			if i > 0 && v.Start.After(got[i-1].Start) {
				t.Fatalf("not sorted by start descending at %d", i)
			}
			b := booking.Booking{Start: v.Start, End: v.End, Status: v.Status}
			if !filter.Matches(b) {
				t.Fatalf("%s listing contains %v..%v %s", state, v.Start, v.End, v.Status)
			}
		}
	})
}
