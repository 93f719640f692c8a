package analytics

import "time"

// Dated is any record carrying a calendar date.
type Dated interface {
	RecordDate() time.Time
}

// FilterByWindow returns the records whose date falls inside the window.
// Records with a zero date (the ingestion layer's marker for an unparsable
// value) are excluded silently.
func FilterByWindow[T Dated](records []T, w Window) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		d := rec.RecordDate()
		if d.IsZero() {
			continue
		}
		if w.Contains(d) {
			out = append(out, rec)
		}
	}
	return out
}
