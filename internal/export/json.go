package export

import (
	"encoding/json"
	"time"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// jsonReport flattens the result next to the report metadata. The outer
// Timeframe shadows the result's own field.
type jsonReport struct {
	GeneratedAt time.Time `json:"generatedAt"`
	ReportType  string    `json:"reportType"`
	Timeframe   string    `json:"timeframe"`
	domain.AnalyticsResult
}

func renderJSON(result *domain.AnalyticsResult, opts Options, created time.Time) (string, error) {
	body, err := json.MarshalIndent(jsonReport{
		GeneratedAt:     created.UTC(),
		ReportType:      opts.ReportType,
		Timeframe:       opts.Timeframe,
		AnalyticsResult: *result,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(body), nil
}
