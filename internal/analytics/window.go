// Package analytics contains the pure aggregation core of the dashboard:
// time windows, weekly bucketing, period deltas, rankings and status
// distributions. Every function is synchronous and side-effect free, so
// callers may recompute on each input change.
package analytics

import (
	"fmt"
	"time"
)

// Range selects one of the supported reporting periods.
type Range string

const (
	RangeLast7Days  Range = "7d"
	RangeLast30Days Range = "30d"
	RangeLast90Days Range = "90d"
	RangeYearToDate Range = "ytd"
	RangeCustom     Range = "custom"
)

// ParseRange maps a query value to a Range, defaulting to the 30 day period.
func ParseRange(value string) Range {
	switch Range(value) {
	case RangeLast7Days, RangeLast30Days, RangeLast90Days, RangeYearToDate, RangeCustom:
		return Range(value)
	default:
		return RangeLast30Days
	}
}

// Window is a closed time interval normalized to day boundaries.
// Start sits at 00:00:00.000 and End at 23:59:59.999 of their days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the window length in calendar days. Both dates are diffed at
// UTC midnight so a daylight saving transition inside the window cannot
// shorten a day and under-count.
func (w Window) Days() int {
	start := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// Resolver turns range selectors into concrete windows in a fixed location.
type Resolver struct {
	loc *time.Location
}

// NewResolver builds a resolver; a nil location falls back to UTC.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

// Resolve returns the window for the selector relative to now.
// "Last N days" windows end at the end of the current day and start N-1
// days earlier; year-to-date starts at January 1st of now's year.
func (r *Resolver) Resolve(sel Range, now time.Time) (Window, error) {
	now = now.In(r.loc)
	switch sel {
	case RangeLast7Days:
		return r.lastDays(now, 7), nil
	case RangeLast30Days:
		return r.lastDays(now, 30), nil
	case RangeLast90Days:
		return r.lastDays(now, 90), nil
	case RangeYearToDate:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, r.loc)
		return Window{Start: start, End: dayEnd(now)}, nil
	case RangeCustom:
		return Window{}, fmt.Errorf("custom range requires explicit bounds")
	default:
		return Window{}, fmt.Errorf("unknown range selector %q", sel)
	}
}

// Custom normalizes caller-supplied bounds to day boundaries.
func (r *Resolver) Custom(start, end time.Time) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, fmt.Errorf("custom range requires both start and end")
	}
	start = dayStart(start.In(r.loc))
	end = dayEnd(end.In(r.loc))
	if end.Before(start) {
		return Window{}, fmt.Errorf("window end %s precedes start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return Window{Start: start, End: end}, nil
}

// Previous derives the immediately preceding window of identical length in
// days, ending the day before w starts.
func (r *Resolver) Previous(w Window) Window {
	days := w.Days()
	return Window{
		Start: dayStart(w.Start.AddDate(0, 0, -days)),
		End:   dayEnd(w.Start.AddDate(0, 0, -1)),
	}
}

func (r *Resolver) lastDays(now time.Time, n int) Window {
	return Window{
		Start: dayStart(now.AddDate(0, 0, -(n - 1))),
		End:   dayEnd(now),
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
