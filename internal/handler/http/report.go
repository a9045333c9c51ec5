package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock/internal/domain/report"
	"github.com/cmlabs-hris/timeclock/internal/handler/http/response"
)

type ReportHandler interface {
	// Attendance workbook for a date range
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ExportAttendance handles GET /attendance/export
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	query := r.URL.Query()
	req := report.ExportAttendanceRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}

	file, err := h.reportService.ExportAttendance(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}
