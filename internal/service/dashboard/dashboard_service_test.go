package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdboard/herdboard/internal/analytics"
	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/prefs"
	"github.com/herdboard/herdboard/internal/theme"
)

type stubSource struct {
	snapshot models.Snapshot
	err      error
}

func (s *stubSource) FetchSnapshot(context.Context) (models.Snapshot, error) {
	return s.snapshot, s.err
}

func day(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return d
}

func testPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	return prefs.NewStore(prefs.Preferences{
		Language: "en", Currency: "EUR", DateFormat: "locale", Theme: theme.Auto,
	}, nil, nil)
}

func scenarioSnapshot() models.Snapshot {
	return models.Snapshot{
		Cows: []models.Cow{
			{ID: "A", Identifier: "DE-001", Name: "Berta", HealthStatus: models.StatusHealthy},
			{ID: "B", Identifier: "DE-002", Name: "Frieda", HealthStatus: models.StatusMonitoring},
		},
		Production: []models.ProductionRecord{
			{CowID: "A", Date: day("2025-12-01"), Liters: 10},
			{CowID: "A", Date: day("2025-12-08"), Liters: 12},
			{CowID: "B", Date: day("2025-12-02"), Liters: 20},
		},
	}
}

func newTestService(t *testing.T, source RecordSource) *Service {
	t.Helper()
	svc := NewService(source, testPrefs(t), time.UTC, nil)
	svc.now = func() time.Time { return day("2025-12-10") }
	return svc
}

func TestOverviewScenario(t *testing.T) {
	svc := newTestService(t, &stubSource{snapshot: scenarioSnapshot()})

	dash, err := svc.Overview(context.Background(), analytics.RangeLast30Days, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.NotEmpty(t, dash.KPIs)
	assert.Equal(t, "Milk production", dash.KPIs[0].Label)
	assert.Equal(t, "42 L", dash.KPIs[0].Value)
	// No production in the preceding 30 days: the no-baseline sentinel.
	assert.Equal(t, "+100%", dash.KPIs[0].Delta)

	require.Len(t, dash.TopCows, 2)
	assert.Equal(t, "Frieda", dash.TopCows[0].Name)
	assert.InDelta(t, 20, dash.TopCows[0].Average, 1e-9)
	assert.Equal(t, "Berta", dash.TopCows[1].Name)
	assert.InDelta(t, 11, dash.TopCows[1].Average, 1e-9)

	require.Len(t, dash.HealthSplit, 3)
	assert.Equal(t, 1, dash.HealthSplit[0].Count)
	assert.Equal(t, 50, dash.HealthSplit[0].Percentage)
}

func TestOverviewUnknownCowGetsSynthesizedLabel(t *testing.T) {
	snap := scenarioSnapshot()
	snap.Production = append(snap.Production, models.ProductionRecord{
		CowID: "ghost", Date: day("2025-12-03"), Liters: 30,
	})
	svc := newTestService(t, &stubSource{snapshot: snap})

	dash, err := svc.Overview(context.Background(), analytics.RangeLast30Days, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.NotEmpty(t, dash.TopCows)
	assert.Equal(t, "Entity #ghost", dash.TopCows[0].Name)
}

func TestOverviewEmptySnapshot(t *testing.T) {
	svc := newTestService(t, &stubSource{})

	dash, err := svc.Overview(context.Background(), analytics.RangeLast30Days, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, dash.KPIs, 4)
	assert.Equal(t, "0 L", dash.KPIs[0].Value)
	assert.Equal(t, "+0%", dash.KPIs[0].Delta)
	assert.Empty(t, dash.WeeklyOutput)
	assert.Empty(t, dash.TopCows)
	for _, row := range dash.HealthSplit {
		assert.Equal(t, 0, row.Percentage)
	}
}

func TestOverviewWeeklySeries(t *testing.T) {
	svc := newTestService(t, &stubSource{snapshot: scenarioSnapshot()})

	dash, err := svc.Overview(context.Background(), analytics.RangeLast30Days, time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, dash.WeeklyOutput, 2)
	assert.Equal(t, "1.12", dash.WeeklyOutput[0].Label)
	assert.InDelta(t, 30, dash.WeeklyOutput[0].Value, 1e-9)
	assert.Equal(t, "8.12", dash.WeeklyOutput[1].Label)
	assert.InDelta(t, 12, dash.WeeklyOutput[1].Value, 1e-9)
}

func TestOverviewCustomRange(t *testing.T) {
	svc := newTestService(t, &stubSource{snapshot: scenarioSnapshot()})

	dash, err := svc.Overview(context.Background(), analytics.RangeCustom, day("2025-12-01"), day("2025-12-02"))
	require.NoError(t, err)

	// Only the records of Dec 1 and Dec 2 count: 10 + 20.
	assert.Equal(t, "30 L", dash.KPIs[0].Value)
}

func TestOverviewCustomRangeRequiresBounds(t *testing.T) {
	svc := newTestService(t, &stubSource{snapshot: scenarioSnapshot()})

	_, err := svc.Overview(context.Background(), analytics.RangeCustom, time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestOverviewSourceFailure(t *testing.T) {
	svc := newTestService(t, &stubSource{err: errors.New("api down")})

	_, err := svc.Overview(context.Background(), analytics.RangeLast30Days, time.Time{}, time.Time{})
	assert.Error(t, err)
}
