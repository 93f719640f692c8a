// Package dashboard assembles the analytics view models served to the
// display layer: headline KPIs, the weekly production series, the top
// producer ranking and the herd health breakdown.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/herdboard/herdboard/internal/analytics"
	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/format"
	"github.com/herdboard/herdboard/internal/prefs"
)

const topCowsCount = 5

// RecordSource supplies the raw herd collections the analytics run over.
type RecordSource interface {
	FetchSnapshot(ctx context.Context) (models.Snapshot, error)
}

// Service computes dashboard view models. All aggregation is a pure
// recomputation over the fetched snapshot; nothing is cached here.
type Service struct {
	source   RecordSource
	prefsSvc *prefs.Store
	resolver *analytics.Resolver
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new dashboard service instance.
func NewService(source RecordSource, prefsSvc *prefs.Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:   source,
		prefsSvc: prefsSvc,
		resolver: analytics.NewResolver(loc),
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Overview builds the dashboard for the selected range. For RangeCustom the
// from and to bounds are required; other selectors ignore them.
func (s *Service) Overview(ctx context.Context, sel analytics.Range, from, to time.Time) (models.Dashboard, error) {
	window, err := s.window(sel, from, to)
	if err != nil {
		return models.Dashboard{}, err
	}

	snap, err := s.source.FetchSnapshot(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("fetch records: %w", err)
	}

	return s.build(snap, window), nil
}

func (s *Service) window(sel analytics.Range, from, to time.Time) (analytics.Window, error) {
	if sel == analytics.RangeCustom {
		return s.resolver.Custom(from, to)
	}
	return s.resolver.Resolve(sel, s.now())
}

func (s *Service) build(snap models.Snapshot, window analytics.Window) models.Dashboard {
	previous := s.resolver.Previous(window)

	production := analytics.FilterByWindow(snap.Production, window)
	prevProduction := analytics.FilterByWindow(snap.Production, previous)
	cases := analytics.FilterByWindow(snap.Health, window)
	prevCases := analytics.FilterByWindow(snap.Health, previous)

	liters := func(r models.ProductionRecord) float64 { return r.Liters }
	total := analytics.SumBy(production, liters)
	prevTotal := analytics.SumBy(prevProduction, liters)
	totalDelta := analytics.Delta(total, prevTotal)
	casesDelta := analytics.Delta(float64(len(cases)), float64(len(prevCases)))

	ranked := analytics.TopAverages(production,
		func(r models.ProductionRecord) string { return r.CowID },
		liters,
		topCowsCount)

	cowIndex := snap.CowIndex()
	f := s.formatter()

	producers := make(map[string]struct{}, len(production))
	for _, r := range production {
		producers[r.CowID] = struct{}{}
	}
	var avgPerCow float64
	if n := len(producers); n > 0 {
		avgPerCow = total / float64(n)
	}

	dash := models.Dashboard{
		KPIs: []models.KPIItem{
			{
				Label: "Milk production",
				Value: f.FormatNumber(total, 0, 1) + " L",
				Delta: f.FormatSignedPercent(totalDelta.Percent),
			},
			{
				Label: "Average per cow",
				Value: f.FormatNumber(avgPerCow, 0, 1) + " L",
			},
			{
				Label: "Herd size",
				Value: f.FormatNumber(float64(len(snap.Cows)), 0, 0),
			},
			{
				Label: "New health cases",
				Value: f.FormatNumber(float64(len(cases)), 0, 0),
				Delta: f.FormatSignedPercent(casesDelta.Percent),
			},
		},
	}

	for _, bucket := range analytics.WeeklyTotals(production, liters) {
		dash.WeeklyOutput = append(dash.WeeklyOutput, models.ChartPoint{
			Label: bucket.Label,
			Value: bucket.Total,
		})
	}

	for _, entity := range ranked {
		dash.TopCows = append(dash.TopCows, models.RankingRow{
			Name:    displayName(cowIndex, entity.ID),
			Average: entity.Average,
		})
	}

	for _, bucket := range analytics.HealthDistribution(snap.Cows) {
		dash.HealthSplit = append(dash.HealthSplit, models.DistributionRow{
			Label:      bucket.Label,
			Count:      bucket.Count,
			Percentage: bucket.Percentage,
			Color:      bucket.Color,
		})
	}

	return dash
}

// formatter snapshots the current preferences; preference changes take
// effect on the next recomputation.
func (s *Service) formatter() *format.Formatter {
	var p prefs.Preferences
	if s.prefsSvc != nil {
		p = s.prefsSvc.Snapshot()
	}
	return format.New(format.Options{
		Language:   p.Language,
		Currency:   p.Currency,
		DateFormat: p.DateFormat,
		Location:   s.loc,
	})
}

// displayName resolves a cow id to its display label, synthesizing one for
// records that reference an unknown id.
func displayName(cows map[string]models.Cow, id string) string {
	if cow, ok := cows[id]; ok {
		if cow.Name != "" {
			return cow.Name
		}
		if cow.Identifier != "" {
			return cow.Identifier
		}
	}
	return fmt.Sprintf("Entity #%s", id)
}
