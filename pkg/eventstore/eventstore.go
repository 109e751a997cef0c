// Package eventstore is an append-only journal of domain events stored in a
// SQL table. It runs on PostgreSQL and SQLite through goqu dialects.
//
// Versions are assigned as MAX(version)+1 per aggregate inside the caller's
// transaction. The table carries no uniqueness constraint on version, so two
// concurrent writers to one aggregate may record the same version; readers
// order by version and then by id.
package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const table = "events"

var (
	ErrNoEvents       = errors.New("no events to append")
	ErrInvalidVersion = errors.New("invalid version number")
)

// Event is one journal record.
type Event struct {
	ID            int64           `json:"id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	EventData     json.RawMessage `json:"event_data"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
}

type eventRow struct {
	ID            int64     `db:"id"`
	AggregateID   uuid.UUID `db:"aggregate_id"`
	AggregateType string    `db:"aggregate_type"`
	EventType     string    `db:"event_type"`
	EventData     string    `db:"event_data"`
	Version       int       `db:"version"`
	CreatedAt     int64     `db:"created_at"`
}

func (r eventRow) event() Event {
	return Event{
		ID:            r.ID,
		AggregateID:   r.AggregateID,
		AggregateType: r.AggregateType,
		EventType:     r.EventType,
		EventData:     json.RawMessage(r.EventData),
		Version:       r.Version,
		CreatedAt:     time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// EventStore appends and loads events.
type EventStore struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithClock sets the source of CreatedAt for events that carry none.
func WithClock(now func() time.Time) Option {
	return func(es *EventStore) { es.now = now }
}

// NewEventStore creates an event store over db. dialect is a goqu dialect
// name, "postgres" or "sqlite3".
func NewEventStore(db *sqlx.DB, dialect string, opts ...Option) *EventStore {
	es := &EventStore{
		db:      db,
		dialect: goqu.Dialect(dialect),
		tracer:  otel.Tracer("shareit/eventstore"),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Append records events for an aggregate within tx, numbering them after the
// aggregate's current maximum version.
func (es *EventStore) Append(ctx context.Context, tx *sqlx.Tx, aggregateID uuid.UUID, aggregateType string, events ...Event) error {
	ctx, span := es.tracer.Start(ctx, "eventstore.append",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.String("aggregate.type", aggregateType),
			attribute.Int("event.count", len(events)),
		),
	)
	defer span.End()

	if len(events) == 0 {
		return ErrNoEvents
	}

	current, err := es.currentVersion(ctx, tx, aggregateID)
	if err != nil {
		return err
	}

	for i, event := range events {
		version := current + i + 1
		createdAt := event.CreatedAt
		if createdAt.IsZero() {
			createdAt = es.now()
		}
		data := string(event.EventData)
		if data == "" {
			data = "{}"
		}

		query, args, err := es.dialect.Insert(table).Prepared(true).Rows(goqu.Record{
			"aggregate_id":   aggregateID,
			"aggregate_type": aggregateType,
			"event_type":     event.EventType,
			"event_data":     data,
			"version":        version,
			"created_at":     createdAt.UnixMilli(),
		}).ToSQL()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int("event.version", version),
			attribute.String("event.type", event.EventType),
		))
	}

	return nil
}

// LoadEvents returns an aggregate's events with version in [fromVersion,
// toVersion], oldest first. A toVersion of zero means no upper bound.
func (es *EventStore) LoadEvents(ctx context.Context, aggregateID uuid.UUID, fromVersion, toVersion int) ([]Event, error) {
	ctx, span := es.tracer.Start(ctx, "eventstore.load",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.Int("from.version", fromVersion),
			attribute.Int("to.version", toVersion),
		),
	)
	defer span.End()

	if fromVersion < 0 || toVersion < 0 {
		return nil, ErrInvalidVersion
	}

	ds := es.dialect.From(table).Prepared(true).
		Select("id", "aggregate_id", "aggregate_type", "event_type", "event_data", "version", "created_at").
		Where(goqu.C("aggregate_id").Eq(aggregateID), goqu.C("version").Gte(fromVersion))
	if toVersion > 0 {
		ds = ds.Where(goqu.C("version").Lte(toVersion))
	}
	query, args, err := ds.Order(goqu.C("version").Asc(), goqu.C("id").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []eventRow
	if err := sqlx.SelectContext(ctx, es.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	events := make([]Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

// CurrentVersion returns the latest version of an aggregate, zero if none.
func (es *EventStore) CurrentVersion(ctx context.Context, aggregateID uuid.UUID) (int, error) {
	ctx, span := es.tracer.Start(ctx, "eventstore.get_version",
		trace.WithAttributes(attribute.String("aggregate.id", aggregateID.String())),
	)
	defer span.End()

	version, err := es.currentVersion(ctx, es.db, aggregateID)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("current.version", version))
	return version, nil
}

func (es *EventStore) currentVersion(ctx context.Context, q sqlx.QueryerContext, aggregateID uuid.UUID) (int, error) {
	query, args, err := es.dialect.From(table).Prepared(true).
		Select(goqu.COALESCE(goqu.MAX("version"), 0)).
		Where(goqu.C("aggregate_id").Eq(aggregateID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var version int
	if err := sqlx.GetContext(ctx, q, &version, query, args...); err != nil {
		return 0, fmt.Errorf("query current version: %w", err)
	}
	return version, nil
}
