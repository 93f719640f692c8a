package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdboard/herdboard/internal/analytics"
	"github.com/herdboard/herdboard/internal/domain/models"
	"github.com/herdboard/herdboard/internal/format"
	"github.com/herdboard/herdboard/internal/prefs"
	"github.com/herdboard/herdboard/internal/theme"
)

// DashboardService is the analytics surface the handlers depend on.
type DashboardService interface {
	Overview(ctx context.Context, sel analytics.Range, from, to time.Time) (models.Dashboard, error)
}

// ReportService generates on-demand weekly reports.
type ReportService interface {
	GenerateWeeklyReport(ctx context.Context, ref time.Time) (models.WeeklyReportSnapshot, error)
}

// Handler serves the dashboard, report and preference endpoints.
type Handler struct {
	dashboardSvc DashboardService
	reportSvc    ReportService
	prefsStore   *prefs.Store
	themes       *theme.Resolver
	loc          *time.Location
	logger       *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(dashboardSvc DashboardService, reportSvc ReportService, prefsStore *prefs.Store, themes *theme.Resolver, loc *time.Location, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		dashboardSvc: dashboardSvc,
		reportSvc:    reportSvc,
		prefsStore:   prefsStore,
		themes:       themes,
		loc:          loc,
		logger:       logger,
	}
}

// GetDashboard serves the aggregated dashboard view model.
// Query: range=7d|30d|90d|ytd|custom, plus from/to for custom ranges.
func (h *Handler) GetDashboard(c *gin.Context) {
	sel := analytics.ParseRange(c.Query("range"))

	var from, to time.Time
	if sel == analytics.RangeCustom {
		var ok bool
		from, ok = format.ParseDate(c.Query("from"), h.loc)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		to, ok = format.ParseDate(c.Query("to"), h.loc)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
	}

	dash, err := h.dashboardSvc.Overview(c.Request.Context(), sel, from, to)
	if err != nil {
		h.logger.Error("failed building dashboard", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load dashboard data"})
		return
	}

	c.JSON(http.StatusOK, dash)
}

// GetWeeklyReport generates the report for the current week on demand.
func (h *Handler) GetWeeklyReport(c *gin.Context) {
	report, err := h.reportSvc.GenerateWeeklyReport(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("failed generating weekly report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to generate report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// preferencesPayload is the wire shape for preference reads and updates.
type preferencesPayload struct {
	Language   string `json:"language"`
	Currency   string `json:"currency"`
	DateFormat string `json:"dateFormat"`
	Theme      string `json:"theme"`
}

// GetPreferences returns the preference snapshot plus the resolved theme.
func (h *Handler) GetPreferences(c *gin.Context) {
	p := h.prefsStore.Snapshot()

	resolved := p.Theme
	if h.themes != nil {
		resolved = h.themes.Resolved()
	}

	c.JSON(http.StatusOK, gin.H{
		"language":      p.Language,
		"currency":      p.Currency,
		"dateFormat":    p.DateFormat,
		"theme":         p.Theme,
		"resolvedTheme": resolved,
	})
}

// PutPreferences replaces the stored preferences. Empty fields keep their
// current values; an invalid theme is rejected.
func (h *Handler) PutPreferences(c *gin.Context) {
	var payload preferencesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid preferences payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if payload.Theme != "" && !theme.Theme(payload.Theme).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be light, dark or auto"})
		return
	}

	h.prefsStore.Replace(prefs.Preferences{
		Language:   payload.Language,
		Currency:   payload.Currency,
		DateFormat: payload.DateFormat,
		Theme:      theme.Theme(payload.Theme),
	})

	h.GetPreferences(c)
}
