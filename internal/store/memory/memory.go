// Package memory keeps entities in process memory. It backs the services when
// database.url is memory:// and follows the same contract as the postgres store.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"salon/backend/internal/domain"
	"salon/backend/internal/store"
)

type record[T any] interface {
	*T
	domain.Record
}

// EntityRepo is a mutex-guarded map keyed by id. List returns rows in insertion order.
type EntityRepo[T any, P record[T]] struct {
	mu    *sync.Mutex
	rows  map[uuid.UUID]T
	order []uuid.UUID
	now   func() time.Time
}

func NewEntityRepo[T any, P record[T]]() *EntityRepo[T, P] {
	return &EntityRepo[T, P]{
		mu:   &sync.Mutex{},
		rows: make(map[uuid.UUID]T),
		now:  time.Now,
	}
}

func NewUserRepo() *EntityRepo[domain.User, *domain.User] {
	return NewEntityRepo[domain.User, *domain.User]()
}

func NewStaffRepo() *EntityRepo[domain.Staff, *domain.Staff] {
	return NewEntityRepo[domain.Staff, *domain.Staff]()
}

func NewServiceRepo() *EntityRepo[domain.Service, *domain.Service] {
	return NewEntityRepo[domain.Service, *domain.Service]()
}

func (r *EntityRepo[T, P]) Create(ctx context.Context, v T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(v)
}

func (r *EntityRepo[T, P]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *EntityRepo[T, P]) List(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id])
	}
	return out, nil
}

func (r *EntityRepo[T, P]) Update(ctx context.Context, id uuid.UUID, mutate func(*T) error) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	v, err := r.get(id)
	if err != nil {
		return zero, err
	}
	if err := mutate(&v); err != nil {
		return zero, err
	}
	P(&v).SetID(id)
	return r.save(v)
}

func (r *EntityRepo[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	r.order = slices.DeleteFunc(r.order, func(x uuid.UUID) bool { return x == id })
	return nil
}

// PingContext lets the health reporter treat the memory store like a database.
func (r *EntityRepo[T, P]) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func (r *EntityRepo[T, P]) get(id uuid.UUID) (T, error) {
	v, ok := r.rows[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return v, nil
}

func (r *EntityRepo[T, P]) insert(v T) (T, error) {
	var zero T
	if err := P(&v).Touch(r.now(), true); err != nil {
		return zero, err
	}
	id := P(&v).GetID()
	if _, exists := r.rows[id]; exists {
		return zero, store.ErrConflict
	}
	r.rows[id] = v
	r.order = append(r.order, id)
	return v, nil
}

func (r *EntityRepo[T, P]) save(v T) (T, error) {
	var zero T
	id := P(&v).GetID()
	if _, ok := r.rows[id]; !ok {
		return zero, store.ErrNotFound
	}
	if err := P(&v).Touch(r.now(), false); err != nil {
		return zero, err
	}
	r.rows[id] = v
	return v, nil
}

// BookingRepo serialises every staff transaction on a single lock, which is
// stricter than per-staff locking but keeps check-then-write atomic.
type BookingRepo struct {
	*EntityRepo[domain.Booking, *domain.Booking]
	txMu sync.Mutex
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{EntityRepo: NewEntityRepo[domain.Booking, *domain.Booking]()}
}

func (r *BookingRepo) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listByStaff(staffID), nil
}

func (r *BookingRepo) InStaffTransaction(ctx context.Context, staffIDs []uuid.UUID, fn func(ctx context.Context, tx store.BookingTx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, bookingTx{repo: r})
}

func (r *BookingRepo) listByStaff(staffID uuid.UUID) []domain.Booking {
	var out []domain.Booking
	for _, id := range r.order {
		if b := r.rows[id]; b.StaffID == staffID {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Booking) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out
}

// bookingTx writes straight through; a failed fn does not roll back earlier writes.
type bookingTx struct {
	repo *BookingRepo
}

func (t bookingTx) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error) {
	return t.repo.ListByStaff(ctx, staffID)
}

func (t bookingTx) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return t.repo.Get(ctx, id)
}

func (t bookingTx) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return t.repo.Create(ctx, b)
}

func (t bookingTx) Save(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	return t.repo.save(b)
}

var (
	_ store.UserRepository    = (*EntityRepo[domain.User, *domain.User])(nil)
	_ store.StaffRepository   = (*EntityRepo[domain.Staff, *domain.Staff])(nil)
	_ store.ServiceRepository = (*EntityRepo[domain.Service, *domain.Service])(nil)
	_ store.BookingRepository = (*BookingRepo)(nil)
)
