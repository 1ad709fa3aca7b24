package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

func TestGetAnalyticsSendsFilter(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analytics", r.URL.Path)
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"timeframe":"custom","summary":{"totalRevenue":1200,"topProperty":"Maple Court"}}}`))
	}))
	defer srv.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := NewClient(srv.URL).GetAnalytics(domain.PeriodFilter{
		Kind:                domain.PeriodCustom,
		Start:               &start,
		PropertyID:          "p1",
		CompareWithPrevious: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "compare=true&period=custom&property_id=p1&start=2024-01-01T00%3A00%3A00Z", query)
	assert.Equal(t, domain.PeriodCustom, result.Timeframe)
	assert.Equal(t, 1200.0, result.Summary.TotalRevenue)
	assert.Equal(t, "Maple Court", result.Summary.TopProperty)
}

func TestGetAnalyticsReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"code":"UPSTREAM_UNAVAILABLE","message":"failed to query rent_payments"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetAnalytics(domain.PeriodFilter{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", apiErr.Code)
	assert.Equal(t, "failed to query rent_payments", apiErr.Message)
}

func TestExportReadsArtifactHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analytics/export", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "quarterly", r.URL.Query().Get("period"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="analytics_report_2024-06-15T12-00-00-000Z.json"`)
		w.Header().Set("X-Export-Id", "export-1")
		w.Header().Set("X-Export-Expires-At", "2024-06-16T12:00:00Z")
		_, _ = w.Write([]byte(`{"reportType":"analytics"}`))
	}))
	defer srv.Close()

	artifact, err := NewClient(srv.URL).Export(domain.PeriodFilter{Kind: domain.PeriodQuarterly}, domain.ExportJSON)
	require.NoError(t, err)

	assert.Equal(t, "export-1", artifact.ID)
	assert.Equal(t, "analytics_report_2024-06-15T12-00-00-000Z.json", artifact.Filename)
	assert.Equal(t, "application/json", artifact.ContentType)
	assert.Equal(t, `{"reportType":"analytics"}`, artifact.Content)
	assert.Equal(t, len(artifact.Content), artifact.SizeBytes)
	assert.Equal(t, time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC), artifact.ExpiresAt)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), artifact.CreatedAt)
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).HealthCheck())
}
