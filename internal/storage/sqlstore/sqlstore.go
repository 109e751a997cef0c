// Package sqlstore persists the ShareIt entities in PostgreSQL or SQLite.
// Queries are built with goqu for the selected dialect and run through sqlx.
// Timestamps are stored as unix milliseconds of the naive wall time.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"shareit/internal/booking"
	"shareit/internal/catalog"
	"shareit/internal/clock"
	"shareit/internal/membership"
	"shareit/internal/requests"
	"shareit/pkg/eventstore"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite3"
)

// DB is an open SQL database with its dialect.
type DB struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	name    string
	events  *eventstore.EventStore
	clock   clock.Clock
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures Open.
type Option func(*DB)

func WithLogger(logger *slog.Logger) Option {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock sets the clock that stamps journal events.
func WithClock(clk clock.Clock) Option {
	return func(d *DB) {
		if clk != nil {
			d.clock = clk
		}
	}
}

// Open connects to url and applies the schema. url is either a PostgreSQL
// connection string (postgres:// or postgresql://) or sqlite://<path>.
func Open(ctx context.Context, url string, opts ...Option) (*DB, error) {
	d := &DB{
		clock:  clock.System{},
		tracer: otel.Tracer("shareit/sqlstore"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	var (
		driver string
		dsn    string
	)
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		driver, dsn, d.name = "sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dialectSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		driver, dsn, d.name = "postgres", url, dialectPostgres
	default:
		return nil, fmt.Errorf("unsupported database url %q", url)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if d.name == dialectSQLite {
		// One writer at a time; transactions hold the only connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}

	d.db = db
	d.dialect = goqu.Dialect(d.name)
	d.events = eventstore.NewEventStore(db, d.name, eventstore.WithClock(d.clock.Now))

	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	file := "schema/postgres.sql"
	if d.name == dialectSQLite {
		file = "schema/sqlite.sql"
	}
	ddl, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Users() membership.Store  { return &userStore{d: d} }
func (d *DB) Items() catalog.Store     { return &itemStore{d: d} }
func (d *DB) Bookings() booking.Store  { return &bookingStore{d: d} }
func (d *DB) Requests() requests.Store { return &requestStore{d: d} }

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func (d *DB) selectAll(ctx context.Context, q sqlx.QueryerContext, dest any, ds *goqu.SelectDataset) error {
	return d.run(ctx, "select", ds.Prepared(true), func(ctx context.Context, query string, args []any) error {
		return sqlx.SelectContext(ctx, q, dest, query, args...)
	})
}

// selectOne returns sql.ErrNoRows when nothing matches.
func (d *DB) selectOne(ctx context.Context, q sqlx.QueryerContext, dest any, ds *goqu.SelectDataset) error {
	return d.run(ctx, "get", ds.Prepared(true), func(ctx context.Context, query string, args []any) error {
		return sqlx.GetContext(ctx, q, dest, query, args...)
	})
}

// exec runs a prepared insert, update or delete and returns rows affected.
func (d *DB) exec(ctx context.Context, e sqlx.ExecerContext, b sqlBuilder) (int64, error) {
	var affected int64
	err := d.run(ctx, "exec", b, func(ctx context.Context, query string, args []any) error {
		res, err := e.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

func (d *DB) run(ctx context.Context, op string, b sqlBuilder, fn func(context.Context, string, []any) error) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}

	ctx, span := d.tracer.Start(ctx, "sqlstore."+op,
		trace.WithAttributes(
			attribute.String("db.system", d.name),
			attribute.String("db.statement", query),
		),
	)
	defer span.End()

	start := time.Now()
	err = fn(ctx, query, args)
	d.logger.Debug("sql", "op", op, "query", query, "duration", time.Since(start), "err", err)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// inTx runs fn in a transaction at the default isolation level.
func (d *DB) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
