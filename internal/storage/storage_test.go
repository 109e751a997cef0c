package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
	"shareit/internal/membership"
	"shareit/internal/requests"
	"shareit/internal/storage"
)

var base = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

// backends opens every store implementation the environment supports.
// PostgreSQL runs only when SHAREIT_TEST_POSTGRES_URL is set.
func backends(t *testing.T) map[string]string {
	t.Helper()
	urls := map[string]string{
		"memory": "memory://",
		"sqlite": "sqlite://" + filepath.Join(t.TempDir(), "shareit.db"),
	}
	if pg := os.Getenv("SHAREIT_TEST_POSTGRES_URL"); pg != "" {
		urls["postgres"] = pg
	}
	return urls
}

func eachBackend(t *testing.T, fn func(t *testing.T, s *storage.Stores, clk *clock.Manual)) {
	for name, url := range backends(t) {
		t.Run(name, func(t *testing.T) {
			clk := clock.NewManual(base)
			s, err := storage.Open(context.Background(), url, clk, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			if name == "postgres" {
				truncate(t, url)
			}
			fn(t, s, clk)
		})
	}
}

func truncate(t *testing.T, url string) {
	t.Helper()
	db, err := sqlx.Open("postgres", url)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("TRUNCATE users, item_requests, items, comments, bookings, events")
	require.NoError(t, err)
}

func uniqueEmail(name string) string {
	return name + "-" + uuid.NewString() + "@example.com"
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := storage.Open(context.Background(), "mysql://localhost/shareit", clock.Fixed(base), nil)
	require.Error(t, err)
}

func TestUserStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, _ *clock.Manual) {
		ctx := context.Background()
		email := uniqueEmail("ann")

		ann, err := s.Users.Create(ctx, &membership.User{Name: "Ann", Email: email, CreatedAt: base})
		require.NoError(t, err)

		got, err := s.Users.Get(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.Name)
		assert.Equal(t, email, got.Email)
		assert.Equal(t, base, got.CreatedAt)

		_, err = s.Users.Create(ctx, &membership.User{Name: "Copy", Email: email, CreatedAt: base})
		require.ErrorIs(t, err, apperr.ErrDuplicateEmail)

		bob, err := s.Users.Create(ctx, &membership.User{Name: "Bob", Email: uniqueEmail("bob"), CreatedAt: base})
		require.NoError(t, err)
		bob.Email = email
		require.ErrorIs(t, s.Users.Update(ctx, bob), apperr.ErrDuplicateEmail)

		ann.Name = "Annie"
		require.NoError(t, s.Users.Update(ctx, ann))
		got, err = s.Users.Get(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, "Annie", got.Name)

		all, err := s.Users.List(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 2)

		require.NoError(t, s.Users.Delete(ctx, ann.ID))
		_, err = s.Users.Get(ctx, ann.ID)
		require.ErrorIs(t, err, apperr.ErrUserNotFound)
		require.ErrorIs(t, s.Users.Delete(ctx, ann.ID), apperr.ErrUserNotFound)
		require.ErrorIs(t, s.Users.Update(ctx, &membership.User{ID: uuid.New(), Email: uniqueEmail("x")}), apperr.ErrUserNotFound)
	})
}

func TestUserDeleteRefusedWhileReferenced(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, clk *clock.Manual) {
		ctx := context.Background()
		owner, err := s.Users.Create(ctx, &membership.User{Name: "Owner", Email: uniqueEmail("owner"), CreatedAt: base})
		require.NoError(t, err)
		booker, err := s.Users.Create(ctx, &membership.User{Name: "Booker", Email: uniqueEmail("booker"), CreatedAt: base})
		require.NoError(t, err)

		item, err := s.Items.CreateItem(ctx, &catalog.Item{OwnerID: owner.ID, Name: "Kayak", Description: "Sea kayak", Available: true, CreatedAt: base})
		require.NoError(t, err)
		require.ErrorIs(t, s.Users.Delete(ctx, owner.ID), apperr.ErrUserInUse)
		require.NoError(t, s.Users.Delete(ctx, booker.ID))

		booker, err = s.Users.Create(ctx, &membership.User{Name: "Booker", Email: uniqueEmail("booker"), CreatedAt: base})
		require.NoError(t, err)
		_, err = s.Bookings.Save(ctx, &booking.Booking{
			Start: base.Add(time.Hour), End: base.Add(2 * time.Hour),
			ItemID: item.ID, BookerID: booker.ID, Status: booking.StatusWaiting,
		})
		require.NoError(t, err)
		require.ErrorIs(t, s.Users.Delete(ctx, booker.ID), apperr.ErrUserInUse)

		got, err := s.Users.Get(ctx, booker.ID)
		require.NoError(t, err)
		assert.Equal(t, "Booker", got.Name)
	})
}

func TestItemStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, _ *clock.Manual) {
		ctx := context.Background()
		owner := uuid.New()
		reqID := uuid.New()

		var created []*catalog.Item
		for i, tc := range []struct {
			name, description string
			available         bool
		}{
			{"Drill", "Cordless drill", true},
			{"Saw", "Cuts wood, unlike a DRILL", true},
			{"Old drill", "broken", false},
		} {
			item := &catalog.Item{
				OwnerID:     owner,
				Name:        tc.name,
				Description: tc.description,
				Available:   tc.available,
				CreatedAt:   base.Add(time.Duration(i) * time.Second),
			}
			if i == 1 {
				item.RequestID = uuid.NullUUID{UUID: reqID, Valid: true}
			}
			it, err := s.Items.CreateItem(ctx, item)
			require.NoError(t, err)
			created = append(created, it)
		}

		got, err := s.Items.GetItem(ctx, created[1].ID)
		require.NoError(t, err)
		assert.Equal(t, created[1].Name, got.Name)
		assert.True(t, got.Available)
		assert.Equal(t, uuid.NullUUID{UUID: reqID, Valid: true}, got.RequestID)
		assert.Equal(t, base.Add(time.Second), got.CreatedAt)

		got, err = s.Items.GetItem(ctx, created[0].ID)
		require.NoError(t, err)
		assert.False(t, got.RequestID.Valid)

		_, err = s.Items.GetItem(ctx, uuid.New())
		require.ErrorIs(t, err, apperr.ErrItemNotFound)

		owned, err := s.Items.ListByOwner(ctx, owner, booking.Page{From: 0, Size: 2})
		require.NoError(t, err)
		require.Len(t, owned, 2)
		assert.Equal(t, created[0].ID, owned[0].ID)
		assert.Equal(t, created[1].ID, owned[1].ID)

		owned, err = s.Items.ListByOwner(ctx, owner, booking.Page{From: 3, Size: 2})
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, created[2].ID, owned[0].ID)

		found, err := s.Items.Search(ctx, "dRiLl", booking.Page{From: 0, Size: 10})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, created[0].ID, found[0].ID)
		assert.Equal(t, created[1].ID, found[1].ID)

		offered, err := s.Items.ListByRequests(ctx, []uuid.UUID{reqID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, offered, 1)
		assert.Equal(t, created[1].ID, offered[0].ID)

		offered, err = s.Items.ListByRequests(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, offered)

		edit := *created[2]
		edit.Available = true
		edit.Name = "Fixed drill"
		require.NoError(t, s.Items.UpdateItem(ctx, &edit))
		got, err = s.Items.GetItem(ctx, edit.ID)
		require.NoError(t, err)
		assert.True(t, got.Available)
		assert.Equal(t, "Fixed drill", got.Name)

		missing := edit
		missing.ID = uuid.New()
		require.ErrorIs(t, s.Items.UpdateItem(ctx, &missing), apperr.ErrItemNotFound)
	})
}

func TestCommentStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, _ *clock.Manual) {
		ctx := context.Background()
		item, err := s.Items.CreateItem(ctx, &catalog.Item{OwnerID: uuid.New(), Name: "a", Description: "b", Available: true, CreatedAt: base})
		require.NoError(t, err)
		other, err := s.Items.CreateItem(ctx, &catalog.Item{OwnerID: uuid.New(), Name: "c", Description: "d", Available: true, CreatedAt: base})
		require.NoError(t, err)

		author := uuid.New()
		first, err := s.Items.AddComment(ctx, &catalog.Comment{ItemID: item.ID, AuthorID: author, AuthorName: "Ann", Text: "one", Created: base})
		require.NoError(t, err)
		second, err := s.Items.AddComment(ctx, &catalog.Comment{ItemID: item.ID, AuthorID: author, AuthorName: "Ann", Text: "two", Created: base.Add(time.Minute)})
		require.NoError(t, err)
		_, err = s.Items.AddComment(ctx, &catalog.Comment{ItemID: other.ID, AuthorID: author, AuthorName: "Ann", Text: "elsewhere", Created: base})
		require.NoError(t, err)

		comments, err := s.Items.ListComments(ctx, []uuid.UUID{item.ID})
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, second.ID, comments[0].ID)
		assert.Equal(t, first.ID, comments[1].ID)
		assert.Equal(t, "Ann", comments[0].AuthorName)
		assert.Equal(t, base.Add(time.Minute), comments[0].Created)
	})
}

func TestSubMillisecondNowMatchesOnEveryBackend(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, _ *clock.Manual) {
		ctx := context.Background()
		owner, booker := uuid.New(), uuid.New()
		item, err := s.Items.CreateItem(ctx, &catalog.Item{OwnerID: owner, Name: "a", Description: "b", Available: true, CreatedAt: base})
		require.NoError(t, err)
		b, err := s.Bookings.Save(ctx, &booking.Booking{
			Start: base.Add(-time.Hour), End: base, ItemID: item.ID, BookerID: booker, Status: booking.StatusWaiting,
		})
		require.NoError(t, err)
		b.Status = booking.StatusApproved
		_, err = s.Bookings.Save(ctx, b)
		require.NoError(t, err)

		// Half a millisecond after the end is still the end once truncated.
		now := base.Add(500 * time.Microsecond)
		all := booking.Page{From: 0, Size: 10}

		list, err := s.Bookings.FindByBooker(ctx, booker, booking.NewFilter(booking.StateCurrent, now), all)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID}, bookingIDs(list))

		list, err = s.Bookings.FindByItemOwner(ctx, owner, booking.NewFilter(booking.StatePast, now), all)
		require.NoError(t, err)
		assert.Empty(t, list)

		ok, err := booking.NewTimeline(s.Bookings).CanComment(ctx, item.ID, booker, now)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = booking.NewTimeline(s.Bookings).CanComment(ctx, item.ID, booker, base.Add(time.Millisecond))
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestBookingStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, clk *clock.Manual) {
		ctx := context.Background()
		owner, booker := uuid.New(), uuid.New()
		item, err := s.Items.CreateItem(ctx, &catalog.Item{OwnerID: owner, Name: "a", Description: "b", Available: true, CreatedAt: base})
		require.NoError(t, err)

		save := func(from, to time.Duration, status booking.Status) *booking.Booking {
			b, err := s.Bookings.Save(ctx, &booking.Booking{
				Start: base.Add(from), End: base.Add(to), ItemID: item.ID, BookerID: booker, Status: booking.StatusWaiting,
			})
			require.NoError(t, err)
			if status != booking.StatusWaiting {
				b.Status = status
				b, err = s.Bookings.Save(ctx, b)
				require.NoError(t, err)
			}
			return b
		}
		past := save(-3*time.Hour, -2*time.Hour, booking.StatusApproved)
		current := save(-time.Hour, time.Hour, booking.StatusRejected)
		future := save(2*time.Hour, 3*time.Hour, booking.StatusWaiting)
		later := save(4*time.Hour, 5*time.Hour, booking.StatusApproved)

		got, err := s.Bookings.FindByID(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusRejected, got.Status)
		assert.Equal(t, base.Add(-time.Hour), got.Start)
		assert.Equal(t, booker, got.BookerID)

		_, err = s.Bookings.FindByID(ctx, uuid.New())
		require.ErrorIs(t, err, apperr.ErrBookingNotFound)
		_, err = s.Bookings.Save(ctx, &booking.Booking{ID: uuid.New(), Status: booking.StatusApproved})
		require.ErrorIs(t, err, apperr.ErrBookingNotFound)

		all := booking.Page{From: 0, Size: 10}
		cases := map[booking.State][]uuid.UUID{
			booking.StateAll:      {later.ID, future.ID, current.ID, past.ID},
			booking.StateCurrent:  {current.ID},
			booking.StatePast:     {past.ID},
			booking.StateFuture:   {later.ID, future.ID},
			booking.StateWaiting:  {future.ID},
			booking.StateRejected: {current.ID},
		}
		for state, want := range cases {
			f := booking.Filter{State: state, Now: base}

			list, err := s.Bookings.FindByBooker(ctx, booker, f, all)
			require.NoError(t, err)
			assert.Equal(t, want, bookingIDs(list), "booker %s", state)

			list, err = s.Bookings.FindByItemOwner(ctx, owner, f, all)
			require.NoError(t, err)
			assert.Equal(t, want, bookingIDs(list), "owner %s", state)
		}

		list, err := s.Bookings.FindByBooker(ctx, booker, booking.Filter{State: booking.StateAll, Now: base}, booking.Page{From: 3, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{current.ID, past.ID}, bookingIDs(list))

		list, err = s.Bookings.FindByItemOwner(ctx, booker, booking.Filter{State: booking.StateAll, Now: base}, all)
		require.NoError(t, err)
		assert.Empty(t, list)

		approved, err := s.Bookings.FindApprovedByItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Len(t, approved, 2)

		completed, err := s.Bookings.FindApprovedCompletedByItemAndBooker(ctx, item.ID, booker, base)
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, past.ID, completed[0].ID)

		clk.Advance(time.Minute)
		history, err := s.Bookings.History(ctx, later.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, 1, history[0].Version)
		assert.Equal(t, booking.EventBookingRequested, history[0].Type)
		assert.Equal(t, booking.StatusWaiting, history[0].Status)
		assert.Equal(t, 2, history[1].Version)
		assert.Equal(t, booking.EventBookingApproved, history[1].Type)
		assert.Equal(t, booking.StatusApproved, history[1].Status)
		assert.Equal(t, base, history[1].RecordedAt)

		history, err = s.Bookings.History(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestRequestStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *storage.Stores, _ *clock.Manual) {
		ctx := context.Background()
		ann, bob := uuid.New(), uuid.New()

		create := func(who uuid.UUID, desc string, at time.Duration) *requests.Request {
			r, err := s.Requests.Create(ctx, &requests.Request{Description: desc, RequesterID: who, Created: base.Add(at)})
			require.NoError(t, err)
			return r
		}
		first := create(ann, "tent", 0)
		second := create(ann, "stove", time.Minute)
		third := create(bob, "kayak", 2*time.Minute)

		got, err := s.Requests.Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "stove", got.Description)
		assert.Equal(t, base.Add(time.Minute), got.Created)

		_, err = s.Requests.Get(ctx, uuid.New())
		require.ErrorIs(t, err, apperr.ErrRequestNotFound)

		own, err := s.Requests.ListByRequester(ctx, ann)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID, first.ID}, requestIDs(own))

		others, err := s.Requests.ListOthers(ctx, bob, booking.Page{From: 0, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID, first.ID}, requestIDs(others))

		others, err = s.Requests.ListOthers(ctx, uuid.New(), booking.Page{From: 1, Size: 1})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID}, requestIDs(others))

		others, err = s.Requests.ListOthers(ctx, ann, booking.Page{From: 0, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{third.ID}, requestIDs(others))
	})
}

func bookingIDs(list []booking.Booking) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}

func requestIDs(list []requests.Request) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}
