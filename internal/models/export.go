package models

import "time"

// ExportFormat is the rendering of a schedule export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ScheduleExport describes a rendered month schedule ready for download.
type ScheduleExport struct {
	ID        string       `json:"id"`
	Format    ExportFormat `json:"format"`
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	Rows      int          `json:"rows"`
	URL       string       `json:"url"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}
