package analytics

import (
	"fmt"
	"sort"
	"time"
)

// maxWeeklyBuckets caps the series at the most recent buckets shown on the
// dashboard chart.
const maxWeeklyBuckets = 5

// WeeklyBucket is one Monday-aligned week with its accumulated total.
type WeeklyBucket struct {
	WeekStart time.Time
	Label     string
	Total     float64
}

// WeeklyTotals groups records into Monday-aligned week buckets and sums the
// extracted value per bucket. Buckets exist only for weeks containing at
// least one record, are ordered ascending by week start, and the series is
// truncated to the most recent buckets. Negative values count as zero.
func WeeklyTotals[T Dated](records []T, value func(T) float64) []WeeklyBucket {
	totals := make(map[time.Time]float64)
	for _, rec := range records {
		d := rec.RecordDate()
		if d.IsZero() {
			continue
		}
		v := value(rec)
		if v < 0 {
			v = 0
		}
		totals[MondayStart(d)] += v
	}

	buckets := make([]WeeklyBucket, 0, len(totals))
	for start, total := range totals {
		buckets = append(buckets, WeeklyBucket{
			WeekStart: start,
			Label:     fmt.Sprintf("%d.%d", start.Day(), int(start.Month())),
			Total:     total,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].WeekStart.Before(buckets[j].WeekStart) })

	if len(buckets) > maxWeeklyBuckets {
		buckets = buckets[len(buckets)-maxWeeklyBuckets:]
	}
	return buckets
}

// MondayStart returns midnight of the Monday of t's week. Sunday belongs to
// the week started six days earlier. This is plain Monday alignment, not
// ISO-8601 week numbering; buckets are keyed by the week-start date itself,
// so windows crossing a year boundary stay well defined.
func MondayStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	daysSinceMonday := (weekday + 6) % 7
	start := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}

// SumBy totals the extracted value over all records, clamping negatives to
// zero the same way the weekly bucketing does.
func SumBy[T any](records []T, value func(T) float64) float64 {
	var total float64
	for _, rec := range records {
		v := value(rec)
		if v < 0 {
			v = 0
		}
		total += v
	}
	return total
}
