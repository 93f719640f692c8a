package analytics

import (
	"math"

	"github.com/herdboard/herdboard/internal/domain/models"
)

// StatusBucket is one slice of the herd health breakdown.
type StatusBucket struct {
	Status     models.HealthStatus
	Label      string
	Color      string
	Count      int
	Percentage int
}

// statusOrder fixes the display order and palette of the distribution.
var statusOrder = []struct {
	status models.HealthStatus
	label  string
	color  string
}{
	{models.StatusHealthy, "Healthy", "#22c55e"},
	{models.StatusMonitoring, "Monitoring", "#f59e0b"},
	{models.StatusTreatment, "In treatment", "#ef4444"},
}

// HealthDistribution counts cows per health status and derives each bucket's
// rounded share of the herd. An empty herd yields zero counts and zero
// percentages for every category.
func HealthDistribution(cows []models.Cow) []StatusBucket {
	counts := make(map[models.HealthStatus]int, len(statusOrder))
	for _, c := range cows {
		counts[c.HealthStatus]++
	}

	total := len(cows)
	buckets := make([]StatusBucket, 0, len(statusOrder))
	for _, s := range statusOrder {
		buckets = append(buckets, StatusBucket{
			Status:     s.status,
			Label:      s.label,
			Color:      s.color,
			Count:      counts[s.status],
			Percentage: percentOf(counts[s.status], total),
		})
	}
	return buckets
}

func percentOf(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
