package analytics

// DeltaResult is the percentage change of a metric between two adjacent
// equal-length windows. Baseline is false when the previous window total was
// zero and the current one positive: there is nothing to compare against and
// Percent carries the +100 "new activity" sentinel.
type DeltaResult struct {
	Percent  float64
	Baseline bool
}

// Delta computes the period-over-period change in percent. The percentage
// is returned unrounded; rendering decides the fraction digits.
// Delta(0, 0) is zero; a zero previous total with current activity yields
// the +100 sentinel with Baseline false.
func Delta(current, previous float64) DeltaResult {
	switch {
	case previous > 0:
		return DeltaResult{Percent: (current - previous) / previous * 100, Baseline: true}
	case current > 0:
		return DeltaResult{Percent: 100, Baseline: false}
	default:
		return DeltaResult{Percent: 0, Baseline: true}
	}
}
