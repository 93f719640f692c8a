package format

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dotted or slashed day/month/year with a 2- or 4-digit year.
var dmyRe = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{2}|\d{4})$`)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate converts loosely-typed date input into a time in loc. It accepts
// time.Time values, epoch numbers (milliseconds when the magnitude says so,
// seconds otherwise), ISO 8601 strings and d.m.y / d/m/y strings where a
// 2-digit year means 20YY. The second return is false for anything else;
// callers render that as an empty string rather than failing.
func ParseDate(value any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.In(loc), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return ParseDate(*v, loc)
	case int:
		return fromEpoch(int64(v), loc)
	case int64:
		return fromEpoch(v, loc)
	case float64:
		return fromEpoch(int64(v), loc)
	case string:
		return parseDateString(v, loc)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	if m := dmyRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
		// time.Date normalizes overflow, so 31.2 would roll into March.
		if t.Day() != day || int(t.Month()) != month {
			return time.Time{}, false
		}
		return t, true
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n, loc)
	}

	return time.Time{}, false
}

func fromEpoch(n int64, loc *time.Location) (time.Time, bool) {
	if n <= 0 {
		return time.Time{}, false
	}
	// Values this large cannot be second timestamps for any plausible date.
	if n >= 1e12 {
		return time.UnixMilli(n).In(loc), true
	}
	return time.Unix(n, 0).In(loc), true
}
