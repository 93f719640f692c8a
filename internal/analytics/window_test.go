package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLastDays(t *testing.T) {
	resolver := NewResolver(time.UTC)
	now := time.Date(2025, 12, 10, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		sel  Range
		days int
	}{
		{RangeLast7Days, 7},
		{RangeLast30Days, 30},
		{RangeLast90Days, 90},
	}

	for _, tc := range cases {
		w, err := resolver.Resolve(tc.sel, now)
		require.NoError(t, err)

		assert.Equal(t, tc.days, w.Days())
		assert.Equal(t, time.Date(2025, 12, 10, 23, 59, 59, 999000000, time.UTC), w.End)
		assert.Equal(t, 0, w.Start.Hour())
		assert.Equal(t, 0, w.Start.Minute())
	}
}

func TestResolveLast30DaysBounds(t *testing.T) {
	resolver := NewResolver(time.UTC)
	now := time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC)

	w, err := resolver.Resolve(RangeLast30Days, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.Contains(time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2025, 12, 10, 23, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 11, 10, 23, 59, 0, 0, time.UTC)))
}

func TestPreviousWindowAdjacentAndEqualLength(t *testing.T) {
	resolver := NewResolver(time.UTC)
	now := time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC)

	for _, sel := range []Range{RangeLast7Days, RangeLast30Days, RangeLast90Days} {
		w, err := resolver.Resolve(sel, now)
		require.NoError(t, err)

		prev := resolver.Previous(w)
		assert.Equal(t, w.Days(), prev.Days())
		// No gap, no overlap: the previous window ends one tick before this one starts.
		assert.Equal(t, time.Millisecond, w.Start.Sub(prev.End))
		assert.True(t, prev.End.Before(w.Start))
	}
}

func TestWindowLengthAcrossSpringForward(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	resolver := NewResolver(berlin)
	// The window spans 2026-03-29, a 23-hour day in Berlin.
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, berlin)

	w, err := resolver.Resolve(RangeLast30Days, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, berlin), w.Start)
	assert.Equal(t, 30, w.Days())

	prev := resolver.Previous(w)
	assert.Equal(t, 30, prev.Days())
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, berlin), prev.Start)
	assert.Equal(t, time.Millisecond, w.Start.Sub(prev.End))
}

func TestResolveYearToDate(t *testing.T) {
	resolver := NewResolver(time.UTC)
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	w, err := resolver.Resolve(RangeYearToDate, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 3, 15, 23, 59, 59, 999000000, time.UTC), w.End)
}

func TestCustomWindowNormalizesDayBounds(t *testing.T) {
	resolver := NewResolver(time.UTC)

	w, err := resolver.Custom(
		time.Date(2025, 6, 3, 10, 15, 0, 0, time.UTC),
		time.Date(2025, 6, 8, 4, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 6, 8, 23, 59, 59, 999000000, time.UTC), w.End)
	assert.Equal(t, 6, w.Days())
}

func TestCustomWindowRejectsReversedBounds(t *testing.T) {
	resolver := NewResolver(time.UTC)

	_, err := resolver.Custom(
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestResolveCustomWithoutBoundsFails(t *testing.T) {
	resolver := NewResolver(time.UTC)

	_, err := resolver.Resolve(RangeCustom, time.Now())
	assert.Error(t, err)
}

func TestParseRangeDefaults(t *testing.T) {
	assert.Equal(t, RangeLast7Days, ParseRange("7d"))
	assert.Equal(t, RangeYearToDate, ParseRange("ytd"))
	assert.Equal(t, RangeLast30Days, ParseRange(""))
	assert.Equal(t, RangeLast30Days, ParseRange("bogus"))
}
