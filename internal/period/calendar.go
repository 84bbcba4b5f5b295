package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/osse101/playcredits/internal/domain"
)

// Calendar computes leaderboard period boundaries in one canonical timezone.
// It is the only place period edges are derived; everything else asks it.
type Calendar struct {
	location  *time.Location
	weekStart time.Weekday
}

// NewCalendar creates a calendar for the given timezone and weekly anchor day.
// A nil location means UTC.
func NewCalendar(loc *time.Location, weekStart time.Weekday) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{location: loc, weekStart: weekStart}
}

// LoadCalendar resolves an IANA timezone name and weekday name into a Calendar
func LoadCalendar(timezone, weekStart string) (*Calendar, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadLocation, timezone, err)
	}

	day := DefaultWeekStart
	if weekStart != "" {
		day, err = ParseWeekday(weekStart)
		if err != nil {
			return nil, err
		}
	}
	return NewCalendar(loc, day), nil
}

// Location returns the canonical timezone
func (c *Calendar) Location() *time.Location {
	return c.location
}

// WeekStart returns the weekday weekly periods begin on
func (c *Calendar) WeekStart() time.Weekday {
	return c.weekStart
}

// Boundaries returns the half-open interval [start, end) of the given kind
// that contains t. A t exactly on a boundary belongs to the period starting there.
func (c *Calendar) Boundaries(t time.Time, kind domain.PeriodKind) (time.Time, time.Time, error) {
	local := t.In(c.location)

	switch kind {
	case domain.PeriodWeekly:
		offset := (int(local.Weekday()) - int(c.weekStart) + DaysPerWeek) % DaysPerWeek
		y, m, d := local.Date()
		start := c.startOfDay(y, m, d-offset)
		end := c.startOfDay(y, m, d-offset+DaysPerWeek)
		return start, end, nil

	case domain.PeriodMonthly:
		y, m, _ := local.Date()
		start := c.startOfDay(y, m, 1)
		// time.Date normalizes month 13 into January of the next year
		end := c.startOfDay(y, m+1, 1)
		return start, end, nil

	case domain.PeriodAllTime:
		return AllTimeStart, AllTimeEnd, nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("%w: "+ErrMsgUnknownKind, domain.ErrInvalidPeriodKind, kind)
}

// startOfDay returns the first instant of the local date y-m-d. Where a DST
// change skips local midnight the day starts at the transition, and where
// midnight repeats the earlier occurrence wins.
func (c *Calendar) startOfDay(y int, m time.Month, d int) time.Time {
	want := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	t := time.Date(y, m, d, 0, 0, 0, 0, c.location)

	for c.localDate(t).Before(want) {
		_, zoneEnd := t.ZoneBounds()
		if zoneEnd.IsZero() || !zoneEnd.After(t) {
			break
		}
		t = zoneEnd
	}

	for {
		zoneStart, _ := t.ZoneBounds()
		if zoneStart.IsZero() || zoneStart.After(t) {
			return t
		}
		prev := zoneStart.Add(-time.Nanosecond)
		if !c.localDate(prev).Equal(want) {
			return t
		}
		// midnight repeats; step back to its occurrence in the previous zone
		_, prevOffset := prev.Zone()
		_, curOffset := t.Zone()
		earlier := t.Add(time.Duration(curOffset-prevOffset) * time.Second)
		if !earlier.Before(zoneStart) || !c.localDate(earlier).Equal(want) {
			return t
		}
		t = earlier
	}
}

// localDate truncates t to its calendar date in the canonical timezone, expressed in UTC
func (c *Calendar) localDate(t time.Time) time.Time {
	y, m, d := t.In(c.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside [start, end)
func Contains(start, end, t time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Next returns the start of the period of the given kind that follows the one containing t.
// For all-time there is no next period and the sentinel end is returned.
func (c *Calendar) Next(t time.Time, kind domain.PeriodKind) (time.Time, error) {
	_, end, err := c.Boundaries(t, kind)
	if err != nil {
		return time.Time{}, err
	}
	return end, nil
}

// Verify checks that a stored [start, end) is exactly the interval the calendar
// derives for its start. Any divergence indicates corrupted period data.
func (c *Calendar) Verify(kind domain.PeriodKind, start, end time.Time) error {
	wantStart, wantEnd, err := c.Boundaries(start, kind)
	if err != nil {
		return err
	}
	if !wantStart.Equal(start) || !wantEnd.Equal(end) {
		return fmt.Errorf(ErrMsgBoundaryMismatchFmt, domain.ErrBoundaryMismatch, kind,
			start.Format(time.RFC3339), end.Format(time.RFC3339),
			wantStart.Format(time.RFC3339), wantEnd.Format(time.RFC3339))
	}
	return nil
}

// ParseKind converts user input into a period kind
func ParseKind(s string) (domain.PeriodKind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if normalized == "alltime" {
		normalized = string(domain.PeriodAllTime)
	}
	kind := domain.PeriodKind(normalized)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: "+ErrMsgUnknownKind, domain.ErrInvalidPeriodKind, s)
	}
	return kind, nil
}

// ParseWeekday converts a weekday name ("monday", "Mon") into a time.Weekday
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf(ErrMsgUnknownWeekday, s)
}
