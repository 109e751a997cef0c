// internal/storage/sqlstore/bookings.go
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/pkg/eventstore"
)

const bookingAggregate = "booking"

var bookingColumns = []interface{}{
	goqu.I("b.id"), goqu.I("b.start_at"), goqu.I("b.end_at"),
	goqu.I("b.item_id"), goqu.I("b.booker_id"), goqu.I("b.status"),
}

type bookingRow struct {
	ID       uuid.UUID `db:"id"`
	StartAt  int64     `db:"start_at"`
	EndAt    int64     `db:"end_at"`
	ItemID   uuid.UUID `db:"item_id"`
	BookerID uuid.UUID `db:"booker_id"`
	Status   string    `db:"status"`
}

func (r bookingRow) booking() booking.Booking {
	return booking.Booking{
		ID:       r.ID,
		Start:    fromMillis(r.StartAt),
		End:      fromMillis(r.EndAt),
		ItemID:   r.ItemID,
		BookerID: r.BookerID,
		Status:   booking.Status(r.Status),
	}
}

type bookingStore struct {
	d *DB
}

// Save writes the booking row and its journal event in one transaction.
func (s *bookingStore) Save(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	var saved booking.Booking
	err := s.d.inTx(ctx, func(tx *sqlx.Tx) error {
		if b.ID == uuid.Nil {
			saved = *b
			saved.ID = uuid.New()
			if _, err := s.d.exec(ctx, tx, s.d.dialect.Insert("bookings").Prepared(true).Rows(goqu.Record{
				"id":        saved.ID,
				"start_at":  toMillis(saved.Start),
				"end_at":    toMillis(saved.End),
				"item_id":   saved.ItemID,
				"booker_id": saved.BookerID,
				"status":    string(saved.Status),
			})); err != nil {
				return fmt.Errorf("insert booking: %w", err)
			}
		} else {
			n, err := s.d.exec(ctx, tx, s.d.dialect.Update("bookings").Prepared(true).
				Set(goqu.Record{"status": string(b.Status)}).
				Where(goqu.C("id").Eq(b.ID)))
			if err != nil {
				return fmt.Errorf("update booking: %w", err)
			}
			if n == 0 {
				return apperr.New(apperr.CodeBookingNotFound, "booking %s not found", b.ID)
			}
			current, err := s.find(ctx, tx, b.ID)
			if err != nil {
				return err
			}
			saved = *current
		}
		return s.journal(ctx, tx, saved)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *bookingStore) journal(ctx context.Context, tx *sqlx.Tx, b booking.Booking) error {
	data, err := json.Marshal(booking.StatusChangedEvent{
		BookingID: b.ID,
		ItemID:    b.ItemID,
		BookerID:  b.BookerID,
		Status:    b.Status,
	})
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	if err := s.d.events.Append(ctx, tx, b.ID, bookingAggregate, eventstore.Event{
		EventType: booking.EventTypeFor(b.Status),
		EventData: data,
	}); err != nil {
		return fmt.Errorf("append booking event: %w", err)
	}
	return nil
}

func (s *bookingStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return s.find(ctx, s.d.db, id)
}

func (s *bookingStore) find(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*booking.Booking, error) {
	var row bookingRow
	err := s.d.selectOne(ctx, q, &row, s.from().Select(bookingColumns...).Where(goqu.I("b.id").Eq(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeBookingNotFound, "booking %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	b := row.booking()
	return &b, nil
}

func (s *bookingStore) FindByBooker(ctx context.Context, bookerID uuid.UUID, f booking.Filter, p booking.Page) ([]booking.Booking, error) {
	return s.page(ctx, s.from().Where(goqu.I("b.booker_id").Eq(bookerID)), f, p)
}

func (s *bookingStore) FindByItemOwner(ctx context.Context, ownerID uuid.UUID, f booking.Filter, p booking.Page) ([]booking.Booking, error) {
	ds := s.from().
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Where(goqu.I("i.owner_id").Eq(ownerID))
	return s.page(ctx, ds, f, p)
}

func (s *bookingStore) FindApprovedByItem(ctx context.Context, itemID uuid.UUID) ([]booking.Summary, error) {
	return s.summaries(ctx, s.from().Where(
		goqu.I("b.item_id").Eq(itemID),
		goqu.I("b.status").Eq(string(booking.StatusApproved)),
	))
}

func (s *bookingStore) FindApprovedCompletedByItemAndBooker(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) ([]booking.Summary, error) {
	return s.summaries(ctx, s.from().Where(
		goqu.I("b.item_id").Eq(itemID),
		goqu.I("b.booker_id").Eq(bookerID),
		goqu.I("b.status").Eq(string(booking.StatusApproved)),
		goqu.I("b.end_at").Lt(toMillis(now)),
	))
}

// History reads the booking's journal. The status of each entry comes from
// the event payload.
func (s *bookingStore) History(ctx context.Context, id uuid.UUID) ([]booking.HistoryEntry, error) {
	events, err := s.d.events.LoadEvents(ctx, id, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]booking.HistoryEntry, 0, len(events))
	for _, e := range events {
		var payload booking.StatusChangedEvent
		if err := json.Unmarshal(e.EventData, &payload); err != nil {
			return nil, fmt.Errorf("decode booking event %d: %w", e.ID, err)
		}
		out = append(out, booking.HistoryEntry{
			Version:    e.Version,
			Type:       e.EventType,
			Status:     payload.Status,
			RecordedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func (s *bookingStore) from() *goqu.SelectDataset {
	return s.d.dialect.From(goqu.T("bookings").As("b"))
}

func (s *bookingStore) page(ctx context.Context, ds *goqu.SelectDataset, f booking.Filter, p booking.Page) ([]booking.Booking, error) {
	if cond := filterExpression(f); cond != nil {
		ds = ds.Where(cond)
	}
	var rows []bookingRow
	err := s.d.selectAll(ctx, s.d.db, &rows, ds.Select(bookingColumns...).
		Order(goqu.I("b.start_at").Desc(), goqu.I("b.id").Asc()).
		Limit(uint(p.Size)).Offset(uint(p.Offset())))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]booking.Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.booking())
	}
	return out, nil
}

func (s *bookingStore) summaries(ctx context.Context, ds *goqu.SelectDataset) ([]booking.Summary, error) {
	var rows []bookingRow
	err := s.d.selectAll(ctx, s.d.db, &rows, ds.Select(bookingColumns...).
		Order(goqu.I("b.start_at").Desc(), goqu.I("b.id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]booking.Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, booking.SummaryOf(r.booking()))
	}
	return out, nil
}

// filterExpression translates a state filter with the same semantics as
// booking.Filter.Matches. ALL yields no condition.
func filterExpression(f booking.Filter) exp.Expression {
	now := toMillis(f.Now)
	switch f.State {
	case booking.StateCurrent:
		return goqu.And(goqu.I("b.start_at").Lte(now), goqu.I("b.end_at").Gte(now))
	case booking.StatePast:
		return goqu.I("b.end_at").Lt(now)
	case booking.StateFuture:
		return goqu.I("b.start_at").Gt(now)
	case booking.StateWaiting:
		return goqu.I("b.status").Eq(string(booking.StatusWaiting))
	case booking.StateRejected:
		return goqu.I("b.status").Eq(string(booking.StatusRejected))
	}
	return nil
}
