package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// ExportAttendance renders attendance records as an xlsx workbook
	ExportAttendance(ctx context.Context, req ExportAttendanceRequest) (ExportFile, error)
}
