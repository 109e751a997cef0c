// internal/storage/sqlstore/users.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shareit/internal/apperr"
	"shareit/internal/membership"
)

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt int64     `db:"created_at"`
}

func (r userRow) user() membership.User {
	return membership.User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: fromMillis(r.CreatedAt)}
}

type userStore struct {
	d *DB
}

func (s *userStore) Create(ctx context.Context, u *membership.User) (*membership.User, error) {
	created := *u
	created.ID = uuid.New()

	_, err := s.d.exec(ctx, s.d.db, s.d.dialect.Insert("users").Prepared(true).Rows(goqu.Record{
		"id":         created.ID,
		"name":       created.Name,
		"email":      created.Email,
		"created_at": toMillis(created.CreatedAt),
	}))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeDuplicateEmail, "email %s is already registered", u.Email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (s *userStore) Update(ctx context.Context, u *membership.User) error {
	n, err := s.d.exec(ctx, s.d.db, s.d.dialect.Update("users").Prepared(true).
		Set(goqu.Record{"name": u.Name, "email": u.Email}).
		Where(goqu.C("id").Eq(u.ID)))
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.New(apperr.CodeDuplicateEmail, "email %s is already registered", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.CodeUserNotFound, "user %s not found", u.ID)
	}
	return nil
}

func (s *userStore) Get(ctx context.Context, id uuid.UUID) (*membership.User, error) {
	return s.get(ctx, s.d.db, id)
}

func (s *userStore) get(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*membership.User, error) {
	var row userRow
	err := s.d.selectOne(ctx, q, &row, s.d.dialect.From("users").
		Select("id", "name", "email", "created_at").
		Where(goqu.C("id").Eq(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeUserNotFound, "user %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := row.user()
	return &u, nil
}

func (s *userStore) List(ctx context.Context) ([]membership.User, error) {
	var rows []userRow
	err := s.d.selectAll(ctx, s.d.db, &rows, s.d.dialect.From("users").
		Select("id", "name", "email", "created_at").
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]membership.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.user())
	}
	return out, nil
}

// Delete removes a user that no item or booking refers to.
func (s *userStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.d.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.get(ctx, tx, id); err != nil {
			return err
		}

		for _, ref := range []struct{ table, column, what string }{
			{"items", "owner_id", "owns items"},
			{"bookings", "booker_id", "has bookings"},
		} {
			var n int
			err := s.d.selectOne(ctx, tx, &n, s.d.dialect.From(ref.table).
				Select(goqu.COUNT("*")).
				Where(goqu.C(ref.column).Eq(id)))
			if err != nil {
				return fmt.Errorf("count %s of user: %w", ref.table, err)
			}
			if n > 0 {
				return apperr.New(apperr.CodeUserInUse, "user %s still %s", id, ref.what)
			}
		}

		if _, err := s.d.exec(ctx, tx, s.d.dialect.Delete("users").Prepared(true).Where(goqu.C("id").Eq(id))); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
