package models

import "time"

// ExportFormat enumerates supported schedule export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult describes a rendered schedule export.
type ExportResult struct {
	ID        string       `json:"id"`
	Format    ExportFormat `json:"format"`
	Path      string       `json:"-"`
	URL       string       `json:"url"`
	Rows      int          `json:"rows"`
	ExpiresAt time.Time    `json:"expiresAt"`
}
