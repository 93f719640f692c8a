package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/herdboard/herdboard/internal/analytics"
	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/service/dashboard"
)

const dateLayout = "2006-01-02"

// SnapshotStore persists generated weekly reports.
type SnapshotStore interface {
	SaveWeeklyReport(ctx context.Context, snapshot models.WeeklyReportSnapshot) error
}

// Service generates weekly production summaries.
type Service struct {
	source   dashboard.RecordSource
	store    SnapshotStore
	resolver *analytics.Resolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. store may be nil when
// no snapshot persistence is configured.
func NewService(source dashboard.RecordSource, store SnapshotStore, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:   source,
		store:    store,
		resolver: analytics.NewResolver(loc),
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateWeeklyReport aggregates the Monday-aligned week containing ref up
// to ref, compares it with the preceding period of equal length, and
// persists the snapshot when a store is configured.
func (s *Service) GenerateWeeklyReport(ctx context.Context, ref time.Time) (models.WeeklyReportSnapshot, error) {
	window, err := s.resolver.Custom(analytics.MondayStart(ref), ref)
	if err != nil {
		return models.WeeklyReportSnapshot{}, fmt.Errorf("resolve report window: %w", err)
	}
	previous := s.resolver.Previous(window)

	snap, err := s.source.FetchSnapshot(ctx)
	if err != nil {
		return models.WeeklyReportSnapshot{}, fmt.Errorf("fetch records: %w", err)
	}

	liters := func(r models.ProductionRecord) float64 { return r.Liters }
	production := analytics.FilterByWindow(snap.Production, window)
	prevProduction := analytics.FilterByWindow(snap.Production, previous)

	total := analytics.SumBy(production, liters)
	delta := analytics.Delta(total, analytics.SumBy(prevProduction, liters))

	openCases := 0
	for _, hc := range snap.Health {
		if hc.Status != "closed" {
			openCases++
		}
	}

	report := models.WeeklyReportSnapshot{
		WeekStart:       window.Start,
		WeekEnd:         window.End,
		TotalLiters:     total,
		DeltaPercent:    delta.Percent,
		OpenHealthCases: openCases,
		CreatedAt:       s.now().UTC(),
	}

	ranked := analytics.TopAverages(production,
		func(r models.ProductionRecord) string { return r.CowID },
		liters, 1)
	if len(ranked) > 0 {
		report.TopCow = topCowLabel(snap.CowIndex(), ranked[0].ID)
		report.TopCowAverage = ranked[0].Average
	}

	report.Summary = s.summaryText(report, len(production))

	if s.store != nil {
		if err := s.store.SaveWeeklyReport(ctx, report); err != nil {
			s.logger.Error("failed to persist weekly report snapshot", zap.Error(err))
		}
	}

	return report, nil
}

func (s *Service) summaryText(r models.WeeklyReportSnapshot, sessions int) string {
	period := fmt.Sprintf("%s-%s", r.WeekStart.Format(dateLayout), r.WeekEnd.Format(dateLayout))
	if sessions == 0 {
		return fmt.Sprintf("Milk summary (%s): no records yet.", period)
	}

	text := fmt.Sprintf("Milk summary (%s): %.1f L across %d sessions (%+.1f%% vs previous period).",
		period, r.TotalLiters, sessions, r.DeltaPercent)
	if r.TopCow != "" {
		text += fmt.Sprintf(" Top producer %s with %.1f L per session.", r.TopCow, r.TopCowAverage)
	}
	if r.OpenHealthCases > 0 {
		text += fmt.Sprintf(" %d health cases still open.", r.OpenHealthCases)
	}
	return text
}

func topCowLabel(cows map[string]models.Cow, id string) string {
	if cow, ok := cows[id]; ok && cow.Name != "" {
		return cow.Name
	}
	return fmt.Sprintf("Entity #%s", id)
}
