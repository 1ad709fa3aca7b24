package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/export"
)

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) ComputeAnalytics(ctx context.Context, filter domain.PeriodFilter) (*domain.AnalyticsResult, error) {
	args := m.Called(ctx, filter)
	result, _ := args.Get(0).(*domain.AnalyticsResult)
	return result, args.Error(1)
}

func (m *mockAnalytics) Export(result *domain.AnalyticsResult, format domain.ExportFormat, opts export.Options) (*domain.ExportArtifact, error) {
	args := m.Called(result, format, opts)
	artifact, _ := args.Get(0).(*domain.ExportArtifact)
	return artifact, args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m *mockAnalytics) *gin.Engine {
	return SetupRoutes(NewHandler(m), zerolog.Nop())
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHealthCheck(t *testing.T) {
	w := get(newRouter(&mockAnalytics{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestGetAnalyticsParsesFilter(t *testing.T) {
	m := &mockAnalytics{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	want := domain.PeriodFilter{
		Kind:                domain.PeriodCustom,
		Start:               &start,
		End:                 &end,
		PropertyID:          "p1",
		CompareWithPrevious: true,
	}
	result := &domain.AnalyticsResult{Timeframe: domain.PeriodCustom, Summary: domain.Summary{TotalRevenue: 1200}}
	m.On("ComputeAnalytics", mock.Anything, want).Return(result, nil)

	w := get(newRouter(m), "/api/v1/analytics?period=custom&start=2024-01-01&end=2024-03-31&property_id=p1&compare=true")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data domain.AnalyticsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1200.0, body.Data.Summary.TotalRevenue)
	m.AssertExpectations(t)
}

func TestGetAnalyticsDefaultsAndLenientDates(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.PeriodFilter
	}{
		{"default", "", domain.PeriodFilter{Kind: domain.PeriodMonthly}},
		{"weekly", "?period=weekly", domain.PeriodFilter{Kind: domain.PeriodWeekly}},
		{"bad dates ignored", "?period=custom&start=yesterday&end=2024-13-45", domain.PeriodFilter{Kind: domain.PeriodCustom}},
		{"bad compare ignored", "?period=yearly&compare=maybe", domain.PeriodFilter{Kind: domain.PeriodYearly}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAnalytics{}
			m.On("ComputeAnalytics", mock.Anything, tt.want).Return(&domain.AnalyticsResult{}, nil)

			w := get(newRouter(m), "/api/v1/analytics"+tt.query)
			assert.Equal(t, http.StatusOK, w.Code)
			m.AssertExpectations(t)
		})
	}
}

func TestGetAnalyticsDatesWithoutPeriodAreCustom(t *testing.T) {
	m := &mockAnalytics{}
	m.On("ComputeAnalytics", mock.Anything, mock.MatchedBy(func(f domain.PeriodFilter) bool {
		return f.Kind == domain.PeriodCustom && f.Start != nil && f.End == nil
	})).Return(&domain.AnalyticsResult{}, nil)

	w := get(newRouter(m), "/api/v1/analytics?start=2024-02-01T00:00:00Z")
	assert.Equal(t, http.StatusOK, w.Code)
	m.AssertExpectations(t)
}

func TestGetAnalyticsRejectsUnknownPeriod(t *testing.T) {
	m := &mockAnalytics{}

	w := get(newRouter(m), "/api/v1/analytics?period=hourly")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	m.AssertNotCalled(t, "ComputeAnalytics", mock.Anything, mock.Anything)
}

func TestGetAnalyticsErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"upstream", apperrors.NewUpstreamUnavailableError("rent_payments", errors.New("refused")), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"source unavailable", apperrors.NewSourceUnavailableError("leases", errors.New("no such table")), http.StatusInternalServerError, "SOURCE_UNAVAILABLE"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAnalytics{}
			m.On("ComputeAnalytics", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := get(newRouter(m), "/api/v1/analytics")
			assert.Equal(t, tt.status, w.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestExportAnalytics(t *testing.T) {
	m := &mockAnalytics{}
	result := &domain.AnalyticsResult{Timeframe: domain.PeriodMonthly}
	expires := time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC)
	artifact := &domain.ExportArtifact{
		ID:          "export-1",
		Content:     "SUMMARY\nMetric,Value\n",
		Filename:    "analytics_report_2024-06-15T12-00-00-000Z.csv",
		ContentType: "text/csv; charset=utf-8",
		SizeBytes:   22,
		ExpiresAt:   expires,
	}
	m.On("ComputeAnalytics", mock.Anything, domain.PeriodFilter{Kind: domain.PeriodMonthly}).Return(result, nil)
	m.On("Export", result, domain.ExportCSV, export.Options{ReportType: "analytics"}).Return(artifact, nil)

	w := get(newRouter(m), "/api/v1/analytics/export?format=CSV")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="analytics_report_2024-06-15T12-00-00-000Z.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "export-1", w.Header().Get("X-Export-Id"))
	assert.Equal(t, "2024-06-16T12:00:00Z", w.Header().Get("X-Export-Expires-At"))
	assert.Equal(t, artifact.Content, w.Body.String())
	m.AssertExpectations(t)
}

func TestExportAnalyticsRejectsUnsupportedFormat(t *testing.T) {
	m := &mockAnalytics{}

	w := get(newRouter(m), "/api/v1/analytics/export?format=xlsx")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UNSUPPORTED_FORMAT", body.Error.Code)
	m.AssertNotCalled(t, "ComputeAnalytics", mock.Anything, mock.Anything)
}

func TestRequestIDIsPropagated(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	newRouter(&mockAnalytics{}).ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}
