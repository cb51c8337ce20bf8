// Package period resolves a user-selected period descriptor (month, ISO week
// or day) into a concrete inclusive date range. Resolution never fails:
// malformed or unknown input falls back to a documented default period.
package period

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/jinzhu/now"
)

// Period type identifiers as they appear in the page query string.
const (
	TypeMonth = "month"
	TypeWeek  = "week"
	TypeDay   = "day"
)

var weekPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// Range is an inclusive date range. Start is the first instant of its
// calendar day and End the last, so a closed-interval comparison
// `date >= Start AND date <= End` against the warehouse is correct.
type Range struct {
	Start time.Time
	End   time.Time
}

// StartDate returns the range start formatted as YYYY-MM-DD.
func (r Range) StartDate() string { return r.Start.Format("2006-01-02") }

// EndDate returns the range end formatted as YYYY-MM-DD.
func (r Range) EndDate() string { return r.End.Format("2006-01-02") }

// WeekWindow is one entry of the available-weeks catalog: an ISO week that
// has production data, with its stored start (Monday) and end (Sunday) dates.
type WeekWindow struct {
	Year  int
	Week  int
	Start time.Time
	End   time.Time
}

// WeekSource supplies the available-weeks catalog used to resolve week
// descriptors before falling back to computed ISO week arithmetic.
type WeekSource interface {
	AvailableWeeks(ctx context.Context) ([]WeekWindow, error)
}

// Resolver turns period descriptors into date ranges.
type Resolver struct {
	defaultMonth string
	weeks        WeekSource
	clock        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) { r.clock = clock }
}

// NewResolver builds a Resolver. defaultMonth ("YYYY-MM") is the reference
// month used when a month descriptor is missing or malformed; weeks may be
// nil, in which case week descriptors always use the computed fallback.
func NewResolver(defaultMonth string, weeks WeekSource, opts ...Option) *Resolver {
	r := &Resolver{
		defaultMonth: defaultMonth,
		weeks:        weeks,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve converts a period descriptor into an inclusive date range. Any
// periodType other than "week" or "day" is treated as a month descriptor.
func (r *Resolver) Resolve(ctx context.Context, periodType, value string) Range {
	switch periodType {
	case TypeWeek:
		return r.resolveWeek(ctx, value)
	case TypeDay:
		return r.resolveDay(value)
	default:
		return r.resolveMonth(value)
	}
}

func (r *Resolver) resolveMonth(value string) Range {
	t, ok := parseMonth(value)
	if !ok {
		if t, ok = parseMonth(r.defaultMonth); !ok {
			t = r.clock()
		}
	}
	return Range{
		Start: now.With(t).BeginningOfMonth(),
		End:   now.With(t).EndOfMonth(),
	}
}

func (r *Resolver) resolveWeek(ctx context.Context, value string) Range {
	m := weekPattern.FindStringSubmatch(value)
	if m == nil {
		// Malformed descriptor: current ISO week.
		return isoWeekRange(r.clock())
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])

	if r.weeks != nil {
		if windows, err := r.weeks.AvailableWeeks(ctx); err == nil {
			for _, w := range windows {
				if w.Year == year && w.Week == week {
					return Range{
						Start: now.With(w.Start).BeginningOfDay(),
						End:   now.With(w.End).EndOfDay(),
					}
				}
			}
		}
	}

	// Week not in the catalog: compute it by anchoring on January 4th,
	// which always falls in ISO week 1 of its year. The year offset uses a
	// flat 52 weeks per year; that is a known approximation (ISO years can
	// have 53 weeks) kept for parity with the week numbers already
	// published on the dashboard. In practice January 4th of the target
	// year is always in ISO week 1 of that same year, so the multiplier
	// only matters for out-of-range week numbers, which spill into the
	// following ISO year.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	jan4Year, jan4Week := jan4.ISOWeek()
	days := ((week - jan4Week) + (year-jan4Year)*52) * 7
	return isoWeekRange(jan4.AddDate(0, 0, days))
}

func (r *Resolver) resolveDay(value string) Range {
	t, ok := parseDay(value)
	if !ok {
		t = r.clock()
	}
	return Range{
		Start: now.With(t).BeginningOfDay(),
		End:   now.With(t).EndOfDay(),
	}
}

// parseMonth parses "YYYY-MM"; ok is false when the input is unusable.
func parseMonth(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseDay parses "YYYY-MM-DD"; ok is false when the input is unusable.
func parseDay(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// isoWeekRange returns the Monday-through-Sunday range of the ISO week
// containing t, with inclusive day boundaries.
func isoWeekRange(t time.Time) Range {
	monday := startOfISOWeek(t)
	return Range{
		Start: now.With(monday).BeginningOfDay(),
		End:   now.With(monday.AddDate(0, 0, 6)).EndOfDay(),
	}
}

func startOfISOWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 { // Sunday
		wd = 7
	}
	return t.AddDate(0, 0, 1-wd)
}
