package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/export"
)

// Analytics computes and exports analytics results
type Analytics interface {
	ComputeAnalytics(ctx context.Context, filter domain.PeriodFilter) (*domain.AnalyticsResult, error)
	Export(result *domain.AnalyticsResult, format domain.ExportFormat, opts export.Options) (*domain.ExportArtifact, error)
}

// Handler handles API requests
type Handler struct {
	analytics Analytics
}

// NewHandler creates a new API handler
func NewHandler(analytics Analytics) *Handler {
	return &Handler{
		analytics: analytics,
	}
}

// GetAnalytics returns the analytics result for a period
// GET /api/v1/analytics
func (h *Handler) GetAnalytics(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.analytics.ComputeAnalytics(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// ExportAnalytics computes analytics and returns them as a downloadable report
// GET /api/v1/analytics/export
func (h *Handler) ExportAnalytics(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(domain.ExportCSV)))
	if err != nil {
		respondError(c, err)
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.analytics.ComputeAnalytics(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	artifact, err := h.analytics.Export(result, format, export.Options{
		ReportType: c.DefaultQuery("report_type", export.DefaultReportType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(artifact.Filename))
	c.Header("X-Export-Id", artifact.ID)
	c.Header("X-Export-Expires-At", artifact.ExpiresAt.UTC().Format(time.RFC3339))
	c.Data(http.StatusOK, artifact.ContentType, []byte(artifact.Content))
}

// HealthCheck returns the health status
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parseFilter reads the period filter from query parameters. An unknown
// period is rejected; unparsable dates are ignored.
func parseFilter(c *gin.Context) (domain.PeriodFilter, error) {
	periodStr := c.Query("period")
	kind, ok := domain.ParsePeriodKind(periodStr)
	if !ok {
		return domain.PeriodFilter{}, apperrors.NewBadRequestError("unknown period: " + periodStr)
	}

	filter := domain.PeriodFilter{
		Kind:       kind,
		PropertyID: c.Query("property_id"),
		Start:      parseDate(c.Query("start")),
		End:        parseDate(c.Query("end")),
	}
	if periodStr == "" && (filter.Start != nil || filter.End != nil) {
		filter.Kind = domain.PeriodCustom
	}
	if compare, err := strconv.ParseBool(c.DefaultQuery("compare", "false")); err == nil {
		filter.CompareWithPrevious = compare
	}
	return filter, nil
}

// parseDate accepts YYYY-MM-DD or RFC3339 and returns nil otherwise
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeBadRequest, apperrors.ErrCodeUnsupportedFormat:
		status = http.StatusBadRequest
	case apperrors.ErrCodeUpstreamUnavailable:
		status = http.StatusBadGateway
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
