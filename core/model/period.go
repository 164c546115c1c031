package model

import (
	"fmt"
	"time"
)

// ViewMode is the calendar granularity of the active view.
type ViewMode int

const (
	ViewDaily ViewMode = iota
	ViewWeekly
	ViewMonthly
)

func (m ViewMode) String() string {
	switch m {
	case ViewDaily:
		return "daily"
	case ViewWeekly:
		return "weekly"
	case ViewMonthly:
		return "monthly"
	default:
		return fmt.Sprintf("viewmode(%d)", int(m))
	}
}

// PeriodCursor identifies the calendar period the viewer is looking at.
type PeriodCursor struct {
	ReferenceDate time.Time
	Mode          ViewMode
}

// DateOnly truncates t to calendar-date precision in UTC. All period
// comparisons happen on these values so the time of day and the viewer's
// time zone never influence a match.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// MondayOf returns the Monday of the week containing t, date-canonical.
func MondayOf(t time.Time) time.Time {
	d := DateOnly(t)
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	d := DateOnly(t)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// CanonicalStart returns the normalized start date of the cursor's period:
// the date itself for daily, the Monday for weekly, the 1st for monthly.
func (c PeriodCursor) CanonicalStart() time.Time {
	switch c.Mode {
	case ViewWeekly:
		return MondayOf(c.ReferenceDate)
	case ViewMonthly:
		first, _ := MonthBounds(c.ReferenceDate)
		return first
	default:
		return DateOnly(c.ReferenceDate)
	}
}

// SamePeriod reports whether both cursors denote the same canonical period.
func (c PeriodCursor) SamePeriod(other PeriodCursor) bool {
	return c.Mode == other.Mode && c.CanonicalStart().Equal(other.CanonicalStart())
}

// Step returns the cursor moved by direction periods. A positive direction
// moves forward, a negative one backward; the granularity follows Mode.
func (c PeriodCursor) Step(direction int) PeriodCursor {
	next := c
	switch c.Mode {
	case ViewWeekly:
		next.ReferenceDate = DateOnly(c.ReferenceDate).AddDate(0, 0, 7*direction)
	case ViewMonthly:
		first, _ := MonthBounds(c.ReferenceDate)
		next.ReferenceDate = first.AddDate(0, direction, 0)
	default:
		next.ReferenceDate = DateOnly(c.ReferenceDate).AddDate(0, 0, direction)
	}
	return next
}

// WithMode returns the cursor switched to the given view granularity.
func (c PeriodCursor) WithMode(mode ViewMode) PeriodCursor {
	return PeriodCursor{ReferenceDate: c.ReferenceDate, Mode: mode}
}
