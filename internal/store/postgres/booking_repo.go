package postgres

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"salon/backend/internal/domain"
	"salon/backend/internal/store"
)

type BookingRepo struct {
	*EntityRepo[domain.Booking, *domain.Booking]
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{EntityRepo: NewEntityRepo[domain.Booking, *domain.Booking](db)}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *BookingRepo) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error) {
	return listBookingsByStaff(ctx, r.db, staffID)
}

// InStaffTransaction runs fn in a transaction holding an advisory lock for every
// staff id. Locks are taken in a stable order so two writers touching the same
// pair of staff members cannot deadlock.
func (r *BookingRepo) InStaffTransaction(ctx context.Context, staffIDs []uuid.UUID, fn func(ctx context.Context, tx store.BookingTx) error) error {
	keys := make([]string, 0, len(staffIDs))
	for _, id := range staffIDs {
		keys = append(keys, id.String())
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, key := range keys {
			if err := lockStaffSchedule(ctx, tx, key); err != nil {
				return err
			}
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockStaffSchedule(ctx context.Context, tx bun.Tx, staffID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", staffID).Exec(ctx)
	return err
}

func listBookingsByStaff(ctx context.Context, db bun.IDB, staffID uuid.UUID) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := db.NewSelect().
		Model(&rows).
		Where("staff_id = ?", staffID).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

func (t bookingTx) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error) {
	return listBookingsByStaff(ctx, t.tx, staffID)
}

func (t bookingTx) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return getRow[domain.Booking](ctx, t.tx, id, true)
}

func (t bookingTx) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return insertRow[domain.Booking, *domain.Booking](ctx, t.tx, b)
}

func (t bookingTx) Save(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return updateRow[domain.Booking, *domain.Booking](ctx, t.tx, b)
}
