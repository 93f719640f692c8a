// Package farmapi fetches herd records from the farm management REST API.
// All field-shape tolerance lives here: the rest of the system only ever
// sees the canonical models.
package farmapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/herdboard/herdboard/internal/config"
	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/format"
)

// Client is a resty-backed record source against the farm API.
type Client struct {
	httpClient *resty.Client
	loc        *time.Location
	logger     *zap.Logger
}

// NewClient builds a farm API client using the provided configuration values.
func NewClient(cfg config.FarmAPIConfig, loc *time.Location, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.Token != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	}

	return &Client{httpClient: restyClient, loc: loc, logger: logger}
}

type cowDTO struct {
	ID           string `json:"id"`
	Identifier   string `json:"identifier"`
	Name         string `json:"name"`
	HealthStatus string `json:"healthStatus"`
}

type productionDTO struct {
	CowID   string  `json:"cowId"`
	Date    string  `json:"date"`
	Liters  float64 `json:"liters"`
	Session string  `json:"session"`
}

type healthCaseDTO struct {
	CowID    string `json:"cowId"`
	OpenDate string `json:"openDate"`
	Status   string `json:"status"`
	Risk     string `json:"riskLevel"`
}

// apiError represents the farm API error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// FetchSnapshot loads cows, production records and health cases in one pass.
func (c *Client) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	var cows []cowDTO
	if err := c.get(ctx, "/cows", &cows); err != nil {
		return models.Snapshot{}, err
	}
	for _, dto := range cows {
		snap.Cows = append(snap.Cows, c.normalizeCow(dto))
	}

	var production []productionDTO
	if err := c.get(ctx, "/production", &production); err != nil {
		return models.Snapshot{}, err
	}
	for _, dto := range production {
		snap.Production = append(snap.Production, c.normalizeProduction(dto))
	}

	var cases []healthCaseDTO
	if err := c.get(ctx, "/health-cases", &cases); err != nil {
		return models.Snapshot{}, err
	}
	for _, dto := range cases {
		snap.Health = append(snap.Health, c.normalizeHealthCase(dto))
	}

	return snap, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return fmt.Errorf("farm api error on %s: code=%d, message=%s", path, code, message)
	}

	return nil
}

func (c *Client) normalizeCow(dto cowDTO) models.Cow {
	status := models.HealthStatus(strings.ToLower(strings.TrimSpace(dto.HealthStatus)))
	switch status {
	case models.StatusHealthy, models.StatusMonitoring, models.StatusTreatment:
	default:
		c.logger.Debug("cow with unknown health status", zap.String("cow_id", dto.ID), zap.String("status", dto.HealthStatus))
		status = models.StatusHealthy
	}
	return models.Cow{
		ID:           dto.ID,
		Identifier:   dto.Identifier,
		Name:         dto.Name,
		HealthStatus: status,
	}
}

func (c *Client) normalizeProduction(dto productionDTO) models.ProductionRecord {
	date, ok := format.ParseDate(dto.Date, c.loc)
	if !ok {
		// Zero dates are excluded by the window filter downstream.
		c.logger.Debug("production record with unparsable date", zap.String("cow_id", dto.CowID), zap.String("date", dto.Date))
	}
	return models.ProductionRecord{
		CowID:   dto.CowID,
		Date:    date,
		Liters:  dto.Liters,
		Session: models.SessionTag(strings.ToLower(strings.TrimSpace(dto.Session))),
	}
}

func (c *Client) normalizeHealthCase(dto healthCaseDTO) models.HealthCase {
	date, ok := format.ParseDate(dto.OpenDate, c.loc)
	if !ok {
		c.logger.Debug("health case with unparsable date", zap.String("cow_id", dto.CowID), zap.String("date", dto.OpenDate))
	}
	return models.HealthCase{
		CowID:    dto.CowID,
		OpenDate: date,
		Status:   strings.ToLower(strings.TrimSpace(dto.Status)),
		Risk:     strings.ToLower(strings.TrimSpace(dto.Risk)),
	}
}
