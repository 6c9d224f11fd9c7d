package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

var ErrInvalidStatus = errors.New("invalid booking status")

// ParseBookingStatus accepts any letter case.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`
	Meta

	StaffID   uuid.UUID     `bun:"staff_id,notnull,type:uuid"`
	UserID    *uuid.UUID    `bun:"user_id,type:uuid"`
	ServiceID *uuid.UUID    `bun:"service_id,type:uuid"`
	Time      string        `bun:"time_label,notnull"`
	StartTime time.Time     `bun:"start_time,notnull"`
	EndTime   time.Time     `bun:"end_time,notnull"`
	Price     float64       `bun:"price,notnull"`
	Status    BookingStatus `bun:"status,notnull"`
}

func (b Booking) Slot() Slot {
	return Slot{Start: b.StartTime.UTC(), End: b.EndTime.UTC()}
}

// Active reports whether the booking still holds its slot.
func (b Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}
