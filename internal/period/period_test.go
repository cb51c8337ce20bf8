package period

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWeeks struct {
	windows []WeekWindow
	err     error
}

func (f fakeWeeks) AvailableWeeks(ctx context.Context) ([]WeekWindow, error) {
	return f.windows, f.err
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveMonth(t *testing.T) {
	r := NewResolver("2025-08", nil)

	tests := []struct {
		value string
		start string
		end   string
	}{
		{"2025-08", "2025-08-01", "2025-08-31"},
		{"2025-09", "2025-09-01", "2025-09-30"},
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2025-02", "2025-02-01", "2025-02-28"},
		{"2025-12", "2025-12-01", "2025-12-31"},
	}
	for _, tc := range tests {
		rng := r.Resolve(context.Background(), TypeMonth, tc.value)
		assert.Equal(t, tc.start, rng.StartDate(), tc.value)
		assert.Equal(t, tc.end, rng.EndDate(), tc.value)
		assert.True(t, rng.Start.Before(rng.End), tc.value)
	}
}

func TestResolveMonthMalformedFallsBackToDefault(t *testing.T) {
	r := NewResolver("2025-08", nil)

	for _, value := range []string{"", "garbage", "2025-13", "08-2025"} {
		rng := r.Resolve(context.Background(), TypeMonth, value)
		assert.Equal(t, "2025-08-01", rng.StartDate(), value)
		assert.Equal(t, "2025-08-31", rng.EndDate(), value)
	}
}

func TestResolveMonthBadDefaultUsesCurrentMonth(t *testing.T) {
	r := NewResolver("nonsense", nil, fixedClock(date(2025, time.March, 15)))

	rng := r.Resolve(context.Background(), TypeMonth, "also-nonsense")
	assert.Equal(t, "2025-03-01", rng.StartDate())
	assert.Equal(t, "2025-03-31", rng.EndDate())
}

func TestResolveWeekFromCatalog(t *testing.T) {
	weeks := fakeWeeks{windows: []WeekWindow{
		{Year: 2025, Week: 31, Start: date(2025, time.July, 28), End: date(2025, time.August, 3)},
		{Year: 2025, Week: 32, Start: date(2025, time.August, 4), End: date(2025, time.August, 10)},
	}}
	r := NewResolver("2025-08", weeks)

	rng := r.Resolve(context.Background(), TypeWeek, "2025-W32")
	assert.Equal(t, "2025-08-04", rng.StartDate())
	assert.Equal(t, "2025-08-10", rng.EndDate())
	assert.Equal(t, time.Monday, rng.Start.Weekday())
	assert.Equal(t, time.Sunday, rng.End.Weekday())
}

func TestResolveWeekNotInCatalogUsesAnchor(t *testing.T) {
	r := NewResolver("2025-08", fakeWeeks{})

	rng := r.Resolve(context.Background(), TypeWeek, "2025-W32")
	assert.Equal(t, "2025-08-04", rng.StartDate())
	assert.Equal(t, "2025-08-10", rng.EndDate())
}

func TestResolveWeekCatalogErrorUsesAnchor(t *testing.T) {
	r := NewResolver("2025-08", fakeWeeks{err: errors.New("warehouse down")})

	rng := r.Resolve(context.Background(), TypeWeek, "2025-W32")
	assert.Equal(t, "2025-08-04", rng.StartDate())
	assert.Equal(t, "2025-08-10", rng.EndDate())
}

func TestResolveWeek53(t *testing.T) {
	r := NewResolver("2025-08", nil)

	// 2020 has 53 ISO weeks; the anchor computation lands on the real week.
	rng := r.Resolve(context.Background(), TypeWeek, "2020-W53")
	assert.Equal(t, "2020-12-28", rng.StartDate())
	assert.Equal(t, "2021-01-03", rng.EndDate())

	// 2021 has only 52 ISO weeks. Week 53 of 2021 does not exist; the
	// anchor arithmetic walks past the end of the year and yields week 1
	// of 2022. Pinned on purpose: the computation does not reject
	// out-of-range week numbers.
	rng = r.Resolve(context.Background(), TypeWeek, "2021-W53")
	assert.Equal(t, "2022-01-03", rng.StartDate())
	assert.Equal(t, "2022-01-09", rng.EndDate())
}

func TestResolveWeekMalformedFallsBackToCurrentWeek(t *testing.T) {
	// Wednesday 2025-08-20 sits in the ISO week 2025-08-18 .. 2025-08-24.
	r := NewResolver("2025-08", nil, fixedClock(date(2025, time.August, 20)))

	for _, value := range []string{"", "not-a-week", "2025-32", "2025-W5"} {
		rng := r.Resolve(context.Background(), TypeWeek, value)
		assert.Equal(t, "2025-08-18", rng.StartDate(), value)
		assert.Equal(t, "2025-08-24", rng.EndDate(), value)
	}
}

func TestResolveDay(t *testing.T) {
	r := NewResolver("2025-08", nil)

	rng := r.Resolve(context.Background(), TypeDay, "2025-08-01")
	assert.Equal(t, "2025-08-01", rng.StartDate())
	assert.Equal(t, "2025-08-01", rng.EndDate())
	require.True(t, rng.Start.Before(rng.End))
	assert.Equal(t, 0, rng.Start.Hour())
	assert.Equal(t, 23, rng.End.Hour())
	assert.Equal(t, 59, rng.End.Minute())
	assert.Equal(t, 59, rng.End.Second())
}

func TestResolveDayMalformedFallsBackToToday(t *testing.T) {
	r := NewResolver("2025-08", nil, fixedClock(date(2025, time.August, 20)))

	for _, value := range []string{"", "not-a-date", "2025-13-40", "01-08-2025"} {
		rng := r.Resolve(context.Background(), TypeDay, value)
		assert.Equal(t, "2025-08-20", rng.StartDate(), value)
		assert.Equal(t, "2025-08-20", rng.EndDate(), value)
	}
}

func TestResolveUnknownTypeTreatedAsMonth(t *testing.T) {
	r := NewResolver("2025-08", nil)

	rng := r.Resolve(context.Background(), "quarter", "2025-09")
	assert.Equal(t, "2025-09-01", rng.StartDate())
	assert.Equal(t, "2025-09-30", rng.EndDate())
}

func TestRangeBoundariesAreInclusiveDayEdges(t *testing.T) {
	r := NewResolver("2025-08", nil)

	rng := r.Resolve(context.Background(), TypeMonth, "2025-08")
	assert.Equal(t, time.Date(2025, time.August, 1, 0, 0, 0, 0, rng.Start.Location()), rng.Start)
	assert.Equal(t, 23, rng.End.Hour())
	assert.Equal(t, time.August, rng.End.Month())
	assert.Equal(t, 31, rng.End.Day())
}
