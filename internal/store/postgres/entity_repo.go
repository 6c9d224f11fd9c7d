package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salon/backend/internal/domain"
	"salon/backend/internal/store"
)

type record[T any] interface {
	*T
	domain.Record
}

// EntityRepo implements store.EntityRepository for any bun model embedding domain.Meta.
type EntityRepo[T any, P record[T]] struct {
	db *bun.DB
}

func NewEntityRepo[T any, P record[T]](db *bun.DB) *EntityRepo[T, P] {
	return &EntityRepo[T, P]{db: db}
}

func NewUserRepo(db *bun.DB) *EntityRepo[domain.User, *domain.User] {
	return NewEntityRepo[domain.User, *domain.User](db)
}

func NewStaffRepo(db *bun.DB) *EntityRepo[domain.Staff, *domain.Staff] {
	return NewEntityRepo[domain.Staff, *domain.Staff](db)
}

func NewServiceRepo(db *bun.DB) *EntityRepo[domain.Service, *domain.Service] {
	return NewEntityRepo[domain.Service, *domain.Service](db)
}

func (r *EntityRepo[T, P]) Create(ctx context.Context, v T) (T, error) {
	return insertRow[T, P](ctx, r.db, v)
}

func (r *EntityRepo[T, P]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return getRow[T](ctx, r.db, id, false)
}

func (r *EntityRepo[T, P]) List(ctx context.Context) ([]T, error) {
	var rows []T
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func (r *EntityRepo[T, P]) Update(ctx context.Context, id uuid.UUID, mutate func(*T) error) (T, error) {
	var out T
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		v, err := getRow[T](ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := mutate(&v); err != nil {
			return err
		}
		P(&v).SetID(id)

		out, err = updateRow[T, P](ctx, tx, v)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (r *EntityRepo[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*T)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return translateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func insertRow[T any, P record[T]](ctx context.Context, db bun.IDB, v T) (T, error) {
	if _, err := db.NewInsert().Model(P(&v)).Exec(ctx); err != nil {
		var zero T
		return zero, translateError(err)
	}
	return v, nil
}

func getRow[T any](ctx context.Context, db bun.IDB, id uuid.UUID, forUpdate bool) (T, error) {
	var v T
	q := db.NewSelect().
		Model(&v).
		Where("id = ?", id).
		Limit(1)
	if forUpdate {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		var zero T
		return zero, translateError(err)
	}
	return v, nil
}

func updateRow[T any, P record[T]](ctx context.Context, db bun.IDB, v T) (T, error) {
	res, err := db.NewUpdate().
		Model(P(&v)).
		WherePK().
		Exec(ctx)
	if err != nil {
		var zero T
		return zero, translateError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		var zero T
		return zero, err
	}
	if affected == 0 {
		var zero T
		return zero, store.ErrNotFound
	}
	return v, nil
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// unique_violation, exclusion_violation
		if pgErr.Code == "23505" || pgErr.Code == "23P01" {
			return store.ErrConflict
		}
	}
	return err
}
