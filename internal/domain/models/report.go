package models

import "time"

// WeeklyReportSnapshot represents the aggregated weekly data stored in MongoDB.
type WeeklyReportSnapshot struct {
	WeekStart       time.Time `bson:"week_start" json:"week_start"`
	WeekEnd         time.Time `bson:"week_end" json:"week_end"`
	TotalLiters     float64   `bson:"total_liters" json:"total_liters"`
	DeltaPercent    float64   `bson:"delta_percent" json:"delta_percent"`
	TopCow          string    `bson:"top_cow" json:"top_cow"`
	TopCowAverage   float64   `bson:"top_cow_average" json:"top_cow_average"`
	OpenHealthCases int       `bson:"open_health_cases" json:"open_health_cases"`
	Summary         string    `bson:"summary" json:"summary"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
