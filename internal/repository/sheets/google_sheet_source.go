// Package sheets reads herd records from a Google Sheets workbook, the
// record source used by farms that keep their books in a spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/herdboard/herdboard/internal/config"
	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/format"
)

const (
	cowsRange       = "Cows!A2:D"
	productionRange = "Production!A2:D"
	healthRange     = "Health!A2:D"
)

// Reader defines the spreadsheet operations the source needs.
type Reader interface {
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetReader implements Reader using the official Google Sheets API.
type GoogleSheetReader struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleSheetReader builds a Google Sheets backed reader instance.
func NewGoogleSheetReader(ctx context.Context, cfg config.SheetsConfig) (*GoogleSheetReader, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetReader{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetReader) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// Source decodes spreadsheet rows into canonical herd models. Rows with
// missing or unreadable cells are skipped, never fatal.
type Source struct {
	reader Reader
	loc    *time.Location
	logger *zap.Logger
}

// NewSource wires a record source over the given reader.
func NewSource(reader Reader, loc *time.Location, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Source{reader: reader, loc: loc, logger: logger}
}

// FetchSnapshot loads cows, production records and health cases.
func (s *Source) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	cowRows, err := s.reader.ReadRange(ctx, cowsRange)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load cows range: %w", err)
	}
	for _, row := range cowRows {
		if len(row) < 3 {
			continue
		}
		status := models.HealthStatus(strings.ToLower(cell(row, 3)))
		switch status {
		case models.StatusHealthy, models.StatusMonitoring, models.StatusTreatment:
		default:
			s.logger.Debug("cow row with unknown health status", zap.String("cow_id", cell(row, 0)), zap.String("status", cell(row, 3)))
			status = models.StatusHealthy
		}
		snap.Cows = append(snap.Cows, models.Cow{
			ID:           cell(row, 0),
			Identifier:   cell(row, 1),
			Name:         cell(row, 2),
			HealthStatus: status,
		})
	}

	prodRows, err := s.reader.ReadRange(ctx, productionRange)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load production range: %w", err)
	}
	for _, row := range prodRows {
		if len(row) < 3 {
			continue
		}
		date, ok := format.ParseDate(row[1], s.loc)
		if !ok {
			s.logger.Debug("skip production row with invalid date", zap.Any("value", row[1]))
			continue
		}
		liters, ok := numericCell(row, 2)
		if !ok {
			s.logger.Debug("skip production row with invalid liters", zap.Any("value", row[2]))
			continue
		}
		snap.Production = append(snap.Production, models.ProductionRecord{
			CowID:   cell(row, 0),
			Date:    date,
			Liters:  liters,
			Session: models.SessionTag(strings.ToLower(cell(row, 3))),
		})
	}

	healthRows, err := s.reader.ReadRange(ctx, healthRange)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load health range: %w", err)
	}
	for _, row := range healthRows {
		if len(row) < 3 {
			continue
		}
		date, ok := format.ParseDate(row[1], s.loc)
		if !ok {
			s.logger.Debug("skip health row with invalid date", zap.Any("value", row[1]))
			continue
		}
		snap.Health = append(snap.Health, models.HealthCase{
			CowID:    cell(row, 0),
			OpenDate: date,
			Status:   strings.ToLower(cell(row, 2)),
			Risk:     strings.ToLower(cell(row, 3)),
		})
	}

	return snap, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func numericCell(row []interface{}, i int) (float64, bool) {
	if i >= len(row) {
		return 0, false
	}
	switch v := row[i].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
