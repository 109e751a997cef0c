// internal/storage/sqlstore/items.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"shareit/internal/apperr"
	"shareit/internal/booking"
	"shareit/internal/catalog"
)

var itemColumns = []interface{}{"id", "owner_id", "name", "description", "available", "request_id", "created_at"}

type itemRow struct {
	ID          uuid.UUID     `db:"id"`
	OwnerID     uuid.UUID     `db:"owner_id"`
	Name        string        `db:"name"`
	Description string        `db:"description"`
	Available   bool          `db:"available"`
	RequestID   uuid.NullUUID `db:"request_id"`
	CreatedAt   int64         `db:"created_at"`
}

func (r itemRow) item() catalog.Item {
	return catalog.Item{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Available:   r.Available,
		RequestID:   r.RequestID,
		CreatedAt:   fromMillis(r.CreatedAt),
	}
}

type commentRow struct {
	ID         uuid.UUID `db:"id"`
	ItemID     uuid.UUID `db:"item_id"`
	AuthorID   uuid.UUID `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Text       string    `db:"text"`
	CreatedAt  int64     `db:"created_at"`
}

type itemStore struct {
	d *DB
}

func (s *itemStore) CreateItem(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	created := *item
	created.ID = uuid.New()

	_, err := s.d.exec(ctx, s.d.db, s.d.dialect.Insert("items").Prepared(true).Rows(goqu.Record{
		"id":          created.ID,
		"owner_id":    created.OwnerID,
		"name":        created.Name,
		"description": created.Description,
		"available":   created.Available,
		"request_id":  created.RequestID,
		"created_at":  toMillis(created.CreatedAt),
	}))
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &created, nil
}

func (s *itemStore) UpdateItem(ctx context.Context, item *catalog.Item) error {
	n, err := s.d.exec(ctx, s.d.db, s.d.dialect.Update("items").Prepared(true).
		Set(goqu.Record{"name": item.Name, "description": item.Description, "available": item.Available}).
		Where(goqu.C("id").Eq(item.ID)))
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.CodeItemNotFound, "item %s not found", item.ID)
	}
	return nil
}

func (s *itemStore) GetItem(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var row itemRow
	err := s.d.selectOne(ctx, s.d.db, &row, s.d.dialect.From("items").Select(itemColumns...).Where(goqu.C("id").Eq(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeItemNotFound, "item %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	item := row.item()
	return &item, nil
}

func (s *itemStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, p booking.Page) ([]catalog.Item, error) {
	return s.list(ctx, s.d.dialect.From("items").
		Where(goqu.C("owner_id").Eq(ownerID)).
		Limit(uint(p.Size)).Offset(uint(p.Offset())))
}

func (s *itemStore) Search(ctx context.Context, text string, p booking.Page) ([]catalog.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	return s.list(ctx, s.d.dialect.From("items").
		Where(
			goqu.C("available").Eq(true),
			goqu.Or(
				goqu.Func("LOWER", goqu.C("name")).Like(pattern),
				goqu.Func("LOWER", goqu.C("description")).Like(pattern),
			),
		).
		Limit(uint(p.Size)).Offset(uint(p.Offset())))
}

func (s *itemStore) ListByRequests(ctx context.Context, requestIDs []uuid.UUID) ([]catalog.Item, error) {
	if len(requestIDs) == 0 {
		return []catalog.Item{}, nil
	}
	return s.list(ctx, s.d.dialect.From("items").Where(goqu.C("request_id").In(uuidArgs(requestIDs)...)))
}

func (s *itemStore) list(ctx context.Context, ds *goqu.SelectDataset) ([]catalog.Item, error) {
	var rows []itemRow
	err := s.d.selectAll(ctx, s.d.db, &rows, ds.Select(itemColumns...).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]catalog.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.item())
	}
	return out, nil
}

func (s *itemStore) AddComment(ctx context.Context, c *catalog.Comment) (*catalog.Comment, error) {
	created := *c
	created.ID = uuid.New()

	_, err := s.d.exec(ctx, s.d.db, s.d.dialect.Insert("comments").Prepared(true).Rows(goqu.Record{
		"id":          created.ID,
		"item_id":     created.ItemID,
		"author_id":   created.AuthorID,
		"author_name": created.AuthorName,
		"text":        created.Text,
		"created_at":  toMillis(created.Created),
	}))
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &created, nil
}

// ListComments returns the comments of the given items, newest first.
func (s *itemStore) ListComments(ctx context.Context, itemIDs []uuid.UUID) ([]catalog.Comment, error) {
	if len(itemIDs) == 0 {
		return []catalog.Comment{}, nil
	}
	var rows []commentRow
	err := s.d.selectAll(ctx, s.d.db, &rows, s.d.dialect.From("comments").
		Select("id", "item_id", "author_id", "author_name", "text", "created_at").
		Where(goqu.C("item_id").In(uuidArgs(itemIDs)...)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]catalog.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Comment{
			ID:         r.ID,
			ItemID:     r.ItemID,
			AuthorID:   r.AuthorID,
			AuthorName: r.AuthorName,
			Text:       r.Text,
			Created:    fromMillis(r.CreatedAt),
		})
	}
	return out, nil
}

func uuidArgs(ids []uuid.UUID) []interface{} {
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}
