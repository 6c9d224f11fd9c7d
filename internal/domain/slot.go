package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidSlot      = errors.New("slot end must be after start")
	ErrInvalidTimeLabel = errors.New("invalid time label")
)

// UndatedDay anchors time-of-day labels that arrive without a date, so two
// undated bookings compare as times on the same day.
var UndatedDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Slot is the half-open interval [Start, End) a booking occupies.
type Slot struct {
	Start time.Time
	End   time.Time
}

func NewSlot(start, end time.Time) (Slot, error) {
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return Slot{}, ErrInvalidSlot
	}
	return Slot{Start: start, End: end}, nil
}

func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps is true when the intersection is non-empty. Abutting slots do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

func (s Slot) String() string {
	return s.Start.Format(time.RFC3339) + "/" + s.End.Format(time.RFC3339)
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3PM",
	"3:04PM",
	"3:04:05PM",
}

// ParseTimeLabel turns a slot label into an instant. Letter case and spaces are
// ignored, so "10AM", "10 am" and "10:00" resolve to the same time. RFC3339
// labels carry their own date; clock labels are placed on day in loc.
func ParseTimeLabel(label string, day time.Time, loc *time.Location) (time.Time, error) {
	s := normalizeLabel(label)
	if s == "" {
		return time.Time{}, ErrInvalidTimeLabel
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := day.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc).UTC(), nil
	}
	return time.Time{}, ErrInvalidTimeLabel
}

// IsTimestampLabel reports whether label is an RFC3339 timestamp, i.e. carries its own date.
func IsTimestampLabel(label string) bool {
	_, err := time.Parse(time.RFC3339, normalizeLabel(label))
	return err == nil
}

func normalizeLabel(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), ""))
}
