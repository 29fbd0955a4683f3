package models

import (
	"fmt"
	"strings"
	"time"
)

// Booking times arrive as free-form wall-clock strings and are stored
// verbatim, so parsing has to tolerate both 24h and 12h forms.
var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM"}

// CombineDateTime anchors a wall-clock string onto a calendar day in the
// server's local time zone.
func CombineDateTime(day time.Time, clock string) (time.Time, error) {
	trimmed := strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised clock time %q", clock)
}

// Slot is a half-open [Start, End) interval on one calendar day.
type Slot struct {
	Start time.Time
	End   time.Time
}

func NewSlot(day time.Time, start, end string) (Slot, error) {
	s, err := CombineDateTime(day, start)
	if err != nil {
		return Slot{}, err
	}
	e, err := CombineDateTime(day, end)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Start: s, End: e}, nil
}

// Overlaps reports whether two half-open intervals intersect:
// s1 < e2 && e1 > s2. Touching endpoints do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// StartOfDay normalizes t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DayWindow returns the inclusive [00:00:00.000, 23:59:59.999] bounds of
// the calendar day containing t, in local time.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local)
	return start, end
}
