package bookings

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"salon/backend/internal/availability"
	"salon/backend/internal/domain"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/store"
)

const maxDuration = 24 * time.Hour

// ConflictError reports that the staff member already holds a colliding booking.
type ConflictError struct {
	StaffID   uuid.UUID
	BookingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return "Staff not available"
}

func (e *ConflictError) Unwrap() error {
	return store.ErrConflict
}

type Input struct {
	StaffID         uuid.UUID
	UserID          *uuid.UUID
	ServiceID       *uuid.UUID
	Time            string
	Date            string
	DurationMinutes int
	Price           float64
	// Status is ignored on create. On update an empty value keeps the current status.
	Status string
}

type Config struct {
	Policy          availability.Policy
	DefaultDuration time.Duration
	Location        *time.Location
}

type Service struct {
	repo store.BookingRepository
	cfg  Config
}

func NewService(repo store.BookingRepository, cfg Config) *Service {
	if cfg.Policy == nil {
		cfg.Policy = availability.Overlap{}
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{repo: repo, cfg: cfg}
}

func (s *Service) Create(ctx context.Context, in Input) (domain.Booking, error) {
	if in.StaffID == uuid.Nil {
		return domain.Booking{}, entities.Invalid("staff_id is required")
	}
	label, slot, err := s.resolveSlot(in)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := validatePrice(in.Price); err != nil {
		return domain.Booking{}, err
	}

	b := domain.Booking{
		StaffID:   in.StaffID,
		UserID:    in.UserID,
		ServiceID: in.ServiceID,
		Time:      label,
		StartTime: slot.Start,
		EndTime:   slot.End,
		Price:     in.Price,
		Status:    domain.BookingStatusPending,
	}

	var out domain.Booking
	err = s.repo.InStaffTransaction(ctx, []uuid.UUID{b.StaffID}, func(ctx context.Context, tx store.BookingTx) error {
		if err := s.admit(ctx, tx, b); err != nil {
			return err
		}
		out, err = tx.Create(ctx, b)
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	if id == uuid.Nil {
		return domain.Booking{}, entities.Invalid("id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Booking, error) {
	return nonNil(s.repo.List(ctx))
}

func (s *Service) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]domain.Booking, error) {
	if staffID == uuid.Nil {
		return nil, entities.Invalid("staff_id is required")
	}
	return nonNil(s.repo.ListByStaff(ctx, staffID))
}

// Update replaces staff, references, slot and status. The stored price is kept.
// A booking that stays active is checked again against the staff member's other
// bookings.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (domain.Booking, error) {
	if id == uuid.Nil {
		return domain.Booking{}, entities.Invalid("id is required")
	}
	if in.StaffID == uuid.Nil {
		return domain.Booking{}, entities.Invalid("staff_id is required")
	}
	label, slot, err := s.resolveSlot(in)
	if err != nil {
		return domain.Booking{}, err
	}
	var status domain.BookingStatus
	if strings.TrimSpace(in.Status) != "" {
		status, err = domain.ParseBookingStatus(in.Status)
		if err != nil {
			return domain.Booking{}, entities.Invalid("status must be one of PENDING, CONFIRMED, CANCELLED")
		}
	}

	var out domain.Booking
	err = s.repo.InStaffTransaction(ctx, []uuid.UUID{in.StaffID}, func(ctx context.Context, tx store.BookingTx) error {
		cur, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		next := cur
		next.StaffID = in.StaffID
		next.UserID = in.UserID
		next.ServiceID = in.ServiceID
		next.Time = label
		next.StartTime = slot.Start
		next.EndTime = slot.End
		if status != "" {
			next.Status = status
		}

		if next.Active() {
			if err := s.admit(ctx, tx, next); err != nil {
				return err
			}
		}
		out, err = tx.Save(ctx, next)
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return entities.Invalid("id is required")
	}
	return s.repo.Delete(ctx, id)
}

// admit returns a *ConflictError when b collides with another active booking of
// the same staff member. b itself is excluded so updates do not collide with
// their own stored row.
func (s *Service) admit(ctx context.Context, tx store.BookingTx, b domain.Booking) error {
	existing, err := tx.ListByStaff(ctx, b.StaffID)
	if err != nil {
		return err
	}
	var exclude []uuid.UUID
	if b.ID != uuid.Nil {
		exclude = append(exclude, b.ID)
	}
	d := availability.Check(b.StaffID, b.Slot(), availability.Active(existing, exclude...), s.cfg.Policy)
	if !d.Allowed {
		return &ConflictError{StaffID: b.StaffID, BookingID: d.BookingID}
	}
	return nil
}

func (s *Service) resolveSlot(in Input) (string, domain.Slot, error) {
	label := strings.TrimSpace(in.Time)
	if label == "" {
		return "", domain.Slot{}, entities.Invalid("time is required")
	}

	timestamp := domain.IsTimestampLabel(label)
	date := strings.TrimSpace(in.Date)
	if timestamp && date != "" {
		return "", domain.Slot{}, entities.Invalid("date must be omitted when time is an RFC3339 timestamp")
	}

	day := domain.UndatedDay
	if date != "" {
		d, err := time.ParseInLocation(time.DateOnly, date, s.cfg.Location)
		if err != nil {
			return "", domain.Slot{}, entities.Invalid("date must be formatted as YYYY-MM-DD")
		}
		day = d
	}

	start, err := domain.ParseTimeLabel(label, day, s.cfg.Location)
	if err != nil {
		return "", domain.Slot{}, entities.Invalid("time must be a clock time such as 10AM or 14:30, or an RFC3339 timestamp")
	}

	dur := s.cfg.DefaultDuration
	if in.DurationMinutes < 0 {
		return "", domain.Slot{}, entities.Invalid("duration_minutes must be positive")
	}
	if in.DurationMinutes > int(maxDuration/time.Minute) {
		return "", domain.Slot{}, entities.Invalid("duration too long")
	}
	if in.DurationMinutes > 0 {
		dur = time.Duration(in.DurationMinutes) * time.Minute
	}

	slot, err := domain.NewSlot(start, start.Add(dur))
	if err != nil {
		return "", domain.Slot{}, entities.Invalid(err.Error())
	}
	if slot.Duration() > maxDuration {
		return "", domain.Slot{}, entities.Invalid("duration too long")
	}

	// Undated slots all share one reference day, so they must not spill into the next one.
	if !timestamp && date == "" {
		y, m, d := domain.UndatedDay.Date()
		if slot.End.After(time.Date(y, m, d+1, 0, 0, 0, 0, s.cfg.Location)) {
			return "", domain.Slot{}, entities.Invalid("a booking without a date must end by midnight")
		}
	}
	return label, slot, nil
}

func validatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return entities.Invalid("price must be a non-negative number")
	}
	return nil
}

func nonNil(rows []domain.Booking, err error) ([]domain.Booking, error) {
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Booking{}
	}
	return rows, nil
}
