package domain

import "time"

// ExportFormat is a report serialization
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportHTML ExportFormat = "html"
	// ExportPDF produces printable HTML for a downstream PDF renderer
	ExportPDF ExportFormat = "pdf"
)

// ExportArtifact is a generated report. ExpiresAt is advisory only.
type ExportArtifact struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	SizeBytes   int       `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
