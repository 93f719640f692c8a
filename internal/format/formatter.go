// Package format renders numbers, currency amounts and dates for the
// dashboard according to the user's locale preferences, and hosts the
// tolerant date parser used at every ingestion boundary.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateFormatISO selects YYYY-MM-DD rendering regardless of locale.
const DateFormatISO = "ISO"

// Options is the preference snapshot a Formatter renders with.
type Options struct {
	Language   string
	Currency   string
	DateFormat string
	Location   *time.Location
}

// Formatter is a stateless renderer for one preference snapshot. Build a new
// one after preferences change.
type Formatter struct {
	opts    Options
	tag     language.Tag
	printer *message.Printer
	unit    currency.Unit
	loc     *time.Location
}

// New builds a Formatter. Unknown language or currency codes fall back to
// en / USD rather than failing.
func New(opts Options) *Formatter {
	tag, err := language.Parse(opts.Language)
	if err != nil {
		tag = language.English
	}

	unit, err := currency.ParseISO(opts.Currency)
	if err != nil {
		unit = currency.USD
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Formatter{
		opts:    opts,
		tag:     tag,
		printer: message.NewPrinter(tag),
		unit:    unit,
		loc:     loc,
	}
}

// FormatDate renders the calendar date: ISO layout when the preference says
// so, otherwise the locale's day/month ordering. Zero times render empty.
func (f *Formatter) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(f.loc)
	if f.opts.DateFormat == DateFormatISO {
		return t.Format("2006-01-02")
	}
	return t.Format(f.dateLayout())
}

// FormatDateTime renders the date per FormatDate plus an hour:minute part.
func (f *Formatter) FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return f.FormatDate(t) + " " + t.In(f.loc).Format("15:04")
}

// FormatNumber renders a locale-grouped number with the requested fraction
// digit bounds. NaN and infinities render as an empty string, never "NaN".
func (f *Formatter) FormatNumber(v float64, minFrac, maxFrac int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if minFrac < 0 {
		minFrac = 0
	}
	if maxFrac < minFrac {
		maxFrac = minFrac
	}
	return f.printer.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(minFrac),
		number.MaxFractionDigits(maxFrac)))
}

// FormatCurrency renders a two-decimal amount in the preferred currency.
func (f *Formatter) FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	symbol := f.printer.Sprint(currency.Symbol(f.unit))
	return symbol + " " + f.FormatNumber(v, 2, 2)
}

// FormatSignedPercent renders a delta as an explicitly signed percentage.
func (f *Formatter) FormatSignedPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%%", sign, f.FormatNumber(math.Abs(v), 0, 1))
}

// dateLayout picks day-first or month-first ordering for the locale.
// US English is the month-first outlier among the supported languages; the
// region must be explicit, a bare "en" stays day-first.
func (f *Formatter) dateLayout() string {
	base, _ := f.tag.Base()
	region, conf := f.tag.Region()
	if base.String() == "en" && region.String() == "US" && conf == language.Exact {
		return "01/02/2006"
	}
	return "02/01/2006"
}
