// Package export serializes analytics results into downloadable reports.
package export

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
)

// ArtifactTTL is the advisory lifetime attached to every artifact
const ArtifactTTL = 24 * time.Hour

// DefaultReportType names reports when the caller does not
const DefaultReportType = "analytics"

// Options describe the report being produced
type Options struct {
	ReportType string
	Timeframe  string
}

// Exporter renders AnalyticsResults. It holds no state besides its clock.
type Exporter struct {
	now func() time.Time
}

// NewExporter creates an exporter; a nil clock uses time.Now
func NewExporter(now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{now: now}
}

// ParseFormat validates a caller supplied format name
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case domain.ExportCSV, domain.ExportJSON, domain.ExportHTML, domain.ExportPDF:
		return f, nil
	}
	return "", apperrors.NewUnsupportedFormatError(s)
}

// Export renders result in format. result is read, never modified.
func (e *Exporter) Export(result *domain.AnalyticsResult, format domain.ExportFormat, opts Options) (*domain.ExportArtifact, error) {
	if opts.ReportType == "" {
		opts.ReportType = DefaultReportType
	}
	if opts.Timeframe == "" {
		opts.Timeframe = string(result.Timeframe)
	}
	created := e.now()

	var (
		content     string
		contentType string
		ext         string
		err         error
	)
	switch format {
	case domain.ExportCSV:
		content, err = renderCSV(result, opts, created)
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case domain.ExportJSON:
		content, err = renderJSON(result, opts, created)
		contentType, ext = "application/json", "json"
	case domain.ExportHTML, domain.ExportPDF:
		content, err = renderHTML(result, opts, created)
		contentType, ext = "text/html; charset=utf-8", "html"
	default:
		return nil, apperrors.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to render report", err)
	}

	return &domain.ExportArtifact{
		ID:          uuid.NewString(),
		Content:     content,
		Filename:    Filename(opts.ReportType, created, ext),
		ContentType: contentType,
		SizeBytes:   len(content),
		CreatedAt:   created,
		ExpiresAt:   created.Add(ArtifactTTL),
	}, nil
}

// Filename is <reportType>_report_<timestamp>.<ext> with a filesystem safe
// timestamp.
func Filename(reportType string, created time.Time, ext string) string {
	stamp := created.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return reportType + "_report_" + stamp + "." + ext
}
