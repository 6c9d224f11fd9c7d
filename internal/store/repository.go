package store

import (
	"context"

	"github.com/google/uuid"

	"salon/backend/internal/domain"
)

// EntityRepository is the persistence contract shared by every entity type.
// Get, Update and Delete return ErrNotFound for unknown ids. Update loads the
// current row, hands it to mutate and saves the result; the id is never changed.
type EntityRepository[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*T) error) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type (
	UserRepository    = EntityRepository[domain.User]
	StaffRepository   = EntityRepository[domain.Staff]
	ServiceRepository = EntityRepository[domain.Service]
)

// BookingRepository adds staff-scoped reads and an exclusive per-staff
// transaction so that the availability check and the write are atomic.
type BookingRepository interface {
	EntityRepository[domain.Booking]

	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error)
	InStaffTransaction(ctx context.Context, staffIDs []uuid.UUID, fn func(ctx context.Context, tx BookingTx) error) error
}

type BookingTx interface {
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	Save(ctx context.Context, b domain.Booking) (domain.Booking, error)
}
