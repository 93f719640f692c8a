package models

// KPIItem is one headline figure on the dashboard, already rendered
// through the formatting service.
type KPIItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// ChartPoint is one bucket of a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RankingRow is one entry of a top-N table.
type RankingRow struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// DistributionRow is one slice of the health status breakdown.
type DistributionRow struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// Dashboard is the full view model consumed by the display layer.
type Dashboard struct {
	KPIs         []KPIItem         `json:"kpis"`
	WeeklyOutput []ChartPoint      `json:"weeklyOutput"`
	TopCows      []RankingRow      `json:"topCows"`
	HealthSplit  []DistributionRow `json:"healthSplit"`
}
