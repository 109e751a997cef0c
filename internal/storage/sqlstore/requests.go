// internal/storage/sqlstore/requests.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/requests"
)

type requestRow struct {
	ID          uuid.UUID `db:"id"`
	Description string    `db:"description"`
	RequesterID uuid.UUID `db:"requester_id"`
	CreatedAt   int64     `db:"created_at"`
}

func (r requestRow) request() requests.Request {
	return requests.Request{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		Created:     fromMillis(r.CreatedAt),
	}
}

type requestStore struct {
	d *DB
}

func (s *requestStore) Create(ctx context.Context, r *requests.Request) (*requests.Request, error) {
	created := *r
	created.ID = uuid.New()

	_, err := s.d.exec(ctx, s.d.db, s.d.dialect.Insert("item_requests").Prepared(true).Rows(goqu.Record{
		"id":           created.ID,
		"description":  created.Description,
		"requester_id": created.RequesterID,
		"created_at":   toMillis(created.Created),
	}))
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return &created, nil
}

func (s *requestStore) Get(ctx context.Context, id uuid.UUID) (*requests.Request, error) {
	var row requestRow
	err := s.d.selectOne(ctx, s.d.db, &row, s.from().Where(goqu.C("id").Eq(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeRequestNotFound, "request %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	r := row.request()
	return &r, nil
}

func (s *requestStore) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]requests.Request, error) {
	return s.list(ctx, s.from().Where(goqu.C("requester_id").Eq(requesterID)))
}

func (s *requestStore) ListOthers(ctx context.Context, userID uuid.UUID, p booking.Page) ([]requests.Request, error) {
	return s.list(ctx, s.from().
		Where(goqu.C("requester_id").Neq(userID)).
		Limit(uint(p.Size)).Offset(uint(p.Offset())))
}

func (s *requestStore) from() *goqu.SelectDataset {
	return s.d.dialect.From("item_requests").Select("id", "description", "requester_id", "created_at")
}

func (s *requestStore) list(ctx context.Context, ds *goqu.SelectDataset) ([]requests.Request, error) {
	var rows []requestRow
	if err := s.d.selectAll(ctx, s.d.db, &rows, ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Asc())); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	out := make([]requests.Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.request())
	}
	return out, nil
}
