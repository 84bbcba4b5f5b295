package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/playcredits/internal/domain"
)

func utcCalendar() *Calendar {
	return NewCalendar(time.UTC, time.Monday)
}

func TestBoundaries_Weekly(t *testing.T) {
	cal := utcCalendar()

	tests := []struct {
		name      string
		at        time.Time
		wantStart time.Time
	}{
		{
			name:      "midweek",
			at:        time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC), // Wednesday
			wantStart: time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly on week start belongs to the new week",
			at:        time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "last instant of the week",
			at:        time.Date(2024, time.March, 17, 23, 59, 59, 999999999, time.UTC),
			wantStart: time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week spanning year end",
			at:        time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC), // Wednesday
			wantStart: time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := cal.Boundaries(tt.at, domain.PeriodWeekly)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start = %s", start)
			assert.True(t, tt.wantStart.AddDate(0, 0, 7).Equal(end), "end = %s", end)
		})
	}
}

func TestBoundaries_WeeklyConfigurableAnchor(t *testing.T) {
	cal := NewCalendar(time.UTC, time.Sunday)

	start, end, err := cal.Boundaries(time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), domain.PeriodWeekly)
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.True(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC).Equal(start))
	assert.True(t, time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC).Equal(end))
}

func TestBoundaries_MonthRollover(t *testing.T) {
	cal := utcCalendar()

	start, end, err := cal.Boundaries(time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC), domain.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC).Equal(start))
	assert.True(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Equal(end))
}

func TestBoundaries_MonthlyLeapFebruary(t *testing.T) {
	cal := utcCalendar()

	start, end, err := cal.Boundaries(time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC).Equal(start))
	assert.True(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Equal(end))
}

func TestBoundaries_AllTime(t *testing.T) {
	cal := utcCalendar()

	for _, at := range []time.Time{
		time.Date(1999, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Now(),
		time.Date(2300, time.June, 1, 0, 0, 0, 0, time.UTC),
	} {
		start, end, err := cal.Boundaries(at, domain.PeriodAllTime)
		require.NoError(t, err)
		assert.True(t, AllTimeStart.Equal(start))
		assert.True(t, AllTimeEnd.Equal(end))
		assert.True(t, Contains(start, end, at))
	}
}

func TestBoundaries_NormalizesTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	cal := NewCalendar(tokyo, time.Monday)

	// Sunday 20:00 UTC is already Monday 05:00 in Tokyo
	at := time.Date(2024, time.March, 17, 20, 0, 0, 0, time.UTC)
	start, end, err := cal.Boundaries(at, domain.PeriodWeekly)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.March, 18, 0, 0, 0, 0, tokyo).Equal(start))
	assert.True(t, time.Date(2024, time.March, 25, 0, 0, 0, 0, tokyo).Equal(end))
}

func TestBoundaries_DSTKeepsLocalMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	cal := NewCalendar(ny, time.Monday)

	// Week containing the 2024-03-10 spring-forward transition
	start, end, err := cal.Boundaries(time.Date(2024, time.March, 10, 12, 0, 0, 0, ny), domain.PeriodWeekly)
	require.NoError(t, err)
	assert.Equal(t, 0, end.In(ny).Hour())
	assert.Equal(t, 7*24*time.Hour-time.Hour, end.Sub(start))
}

func TestBoundaries_SkippedMidnightStartsAtTransition(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	cal := NewCalendar(santiago, time.Sunday)

	// Clocks jump from 2024-09-08 00:00 -04 to 01:00 -03
	start, end, err := cal.Boundaries(time.Date(2024, time.September, 12, 12, 0, 0, 0, santiago), domain.PeriodWeekly)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.September, 8, 4, 0, 0, 0, time.UTC).Equal(start), "got %s", start)
	assert.Equal(t, time.September, start.In(santiago).Month())
	assert.Equal(t, 8, start.In(santiago).Day())
	assert.True(t, time.Date(2024, time.September, 15, 0, 0, 0, 0, santiago).Equal(end))
	require.NoError(t, cal.Verify(domain.PeriodWeekly, start, end))

	_, prevEnd, err := cal.Boundaries(start.Add(-time.Nanosecond), domain.PeriodWeekly)
	require.NoError(t, err)
	assert.True(t, prevEnd.Equal(start))
}

func TestBoundaries_RepeatedMidnightStartsAtFirstOccurrence(t *testing.T) {
	havana, err := time.LoadLocation("America/Havana")
	require.NoError(t, err)
	cal := NewCalendar(havana, time.Sunday)

	// 2020-11-01 00:00-01:00 happens twice: first at -04, then at -05
	firstPass := time.Date(2020, time.November, 1, 4, 30, 0, 0, time.UTC)
	start, end, err := cal.Boundaries(firstPass, domain.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, time.Date(2020, time.November, 1, 4, 0, 0, 0, time.UTC).Equal(start), "got %s", start)
	assert.True(t, time.Date(2020, time.December, 1, 5, 0, 0, 0, time.UTC).Equal(end), "got %s", end)
	require.NoError(t, cal.Verify(domain.PeriodMonthly, start, end))

	_, octEnd, err := cal.Boundaries(time.Date(2020, time.October, 20, 0, 0, 0, 0, havana), domain.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, octEnd.Equal(start))
}

func TestBoundaries_MidnightTransitionZones(t *testing.T) {
	zones := []struct {
		name   string
		anchor time.Weekday
	}{
		{"America/Santiago", time.Sunday},
		{"America/Havana", time.Sunday},
		{"America/Asuncion", time.Sunday},
		{"Asia/Beirut", time.Monday},
	}

	base := time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, z := range zones {
		loc, err := time.LoadLocation(z.name)
		require.NoError(t, err)
		cal := NewCalendar(loc, z.anchor)

		for _, kind := range []domain.PeriodKind{domain.PeriodWeekly, domain.PeriodMonthly} {
			for at := base; at.Before(base.AddDate(7, 0, 0)); at = at.Add(5*time.Hour + 13*time.Minute) {
				start, end, err := cal.Boundaries(at, kind)
				require.NoError(t, err)
				require.True(t, Contains(start, end, at), "%s %s %s not in [%s,%s)", z.name, kind, at, start, end)

				start2, end2, err := cal.Boundaries(start, kind)
				require.NoError(t, err)
				require.True(t, start.Equal(start2) && end.Equal(end2), "%s %s: boundaries(start) drifted for %s", z.name, kind, at)
				require.NoError(t, cal.Verify(kind, start, end))

				// start is the first instant of its local day
				require.NotEqual(t, start.In(loc).YearDay(), start.Add(-time.Nanosecond).In(loc).YearDay(), "%s %s start %s", z.name, kind, start)
				if kind == domain.PeriodWeekly {
					require.Equal(t, z.anchor, start.In(loc).Weekday())
				} else {
					require.Equal(t, 1, start.In(loc).Day())
				}
			}
		}
	}
}

func TestBoundaries_Properties(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	calendars := []*Calendar{
		utcCalendar(),
		NewCalendar(berlin, time.Wednesday),
	}

	base := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, cal := range calendars {
		for _, kind := range domain.PeriodKinds {
			// Walk two years in uneven steps so every weekday/hour combination is visited
			for at := base; at.Before(base.AddDate(2, 0, 0)); at = at.Add(37*time.Hour + 11*time.Minute) {
				start, end, err := cal.Boundaries(at, kind)
				require.NoError(t, err)
				require.True(t, Contains(start, end, at), "%s %s not in [%s,%s)", kind, at, start, end)

				start2, end2, err := cal.Boundaries(start, kind)
				require.NoError(t, err)
				require.True(t, start.Equal(start2) && end.Equal(end2), "boundaries(start) must equal boundaries(t)")

				require.NoError(t, cal.Verify(kind, start, end))
			}
		}
	}
}

func TestBoundaries_AdjacentPeriodsDoNotOverlap(t *testing.T) {
	cal := utcCalendar()

	start, end, err := cal.Boundaries(time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), domain.PeriodMonthly)
	require.NoError(t, err)

	nextStart, _, err := cal.Boundaries(end, domain.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, end.Equal(nextStart))

	prevStart, prevEnd, err := cal.Boundaries(start.Add(-time.Nanosecond), domain.PeriodMonthly)
	require.NoError(t, err)
	assert.True(t, prevEnd.Equal(start))
	assert.True(t, prevStart.Before(start))
}

func TestBoundaries_UnknownKind(t *testing.T) {
	_, _, err := utcCalendar().Boundaries(time.Now(), domain.PeriodKind("daily"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriodKind)
}

func TestVerify_DetectsCorruption(t *testing.T) {
	cal := utcCalendar()
	start := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, cal.Verify(domain.PeriodWeekly, start, start.AddDate(0, 0, 7)))

	err := cal.Verify(domain.PeriodWeekly, start, start.AddDate(0, 0, 6))
	assert.ErrorIs(t, err, domain.ErrBoundaryMismatch)

	err = cal.Verify(domain.PeriodWeekly, start.Add(time.Hour), start.AddDate(0, 0, 7).Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrBoundaryMismatch)
}

func TestNext(t *testing.T) {
	cal := utcCalendar()

	next, err := cal.Next(time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), domain.PeriodWeekly)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC).Equal(next))
}

func TestParseKind(t *testing.T) {
	tests := map[string]domain.PeriodKind{
		"weekly":   domain.PeriodWeekly,
		"Monthly":  domain.PeriodMonthly,
		"all_time": domain.PeriodAllTime,
		"all-time": domain.PeriodAllTime,
		"alltime":  domain.PeriodAllTime,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("yearly")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriodKind)
}

func TestLoadCalendar(t *testing.T) {
	cal, err := LoadCalendar("", "")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location())
	assert.Equal(t, time.Monday, cal.WeekStart())

	cal, err = LoadCalendar("Europe/London", "sun")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", cal.Location().String())
	assert.Equal(t, time.Sunday, cal.WeekStart())

	_, err = LoadCalendar("Mars/Olympus", "")
	assert.Error(t, err)

	_, err = LoadCalendar("UTC", "funday")
	assert.Error(t, err)
}
