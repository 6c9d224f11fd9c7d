// Package availability decides whether a staff member is free for a candidate slot.
// It performs no I/O: callers load the staff member's bookings and pass them in.
package availability

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"salon/backend/internal/domain"
)

// Policy decides whether two slots for the same staff member collide.
type Policy interface {
	Name() string
	Collides(candidate, existing domain.Slot) bool
}

// Overlap treats any non-empty intersection as a collision.
type Overlap struct{}

func (Overlap) Name() string { return "overlap" }

func (Overlap) Collides(candidate, existing domain.Slot) bool {
	return candidate.Overlaps(existing)
}

// ExactStart only rejects slots that start at the same instant, regardless of length.
type ExactStart struct{}

func (ExactStart) Name() string { return "exact" }

func (ExactStart) Collides(candidate, existing domain.Slot) bool {
	return candidate.Start.Equal(existing.Start)
}

func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "overlap":
		return Overlap{}, nil
	case "exact":
		return ExactStart{}, nil
	}
	return nil, fmt.Errorf("unknown conflict policy %q", name)
}

// Decision is the outcome of Check. BookingID names the colliding booking when Allowed is false.
type Decision struct {
	Allowed   bool
	BookingID uuid.UUID
}

// Check scans existing for a booking of staffID whose slot collides with candidate.
// Bookings of other staff members are skipped; cancelled bookings are expected to be
// removed by the caller with Active.
func Check(staffID uuid.UUID, candidate domain.Slot, existing []domain.Booking, policy Policy) Decision {
	if policy == nil {
		policy = Overlap{}
	}
	for _, b := range existing {
		if b.StaffID != staffID {
			continue
		}
		if policy.Collides(candidate, b.Slot()) {
			return Decision{BookingID: b.ID}
		}
	}
	return Decision{Allowed: true}
}

// Active drops cancelled bookings and any booking whose id is in exclude.
func Active(bookings []domain.Booking, exclude ...uuid.UUID) []domain.Booking {
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.Active() {
			continue
		}
		skip := false
		for _, id := range exclude {
			if b.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, b)
		}
	}
	return out
}
