package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/report"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetAttendance = "Attendance"
	sheetSummary    = "Summary"
	pageSize        = 1000

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	settingsService settings.SettingsService
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, settingsService settings.SettingsService) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo:  attendanceRepo,
		settingsService: settingsService,
	}
}

type employeeTotals struct {
	id         string
	name       string
	department string
	days       int
	open       int
	hours      decimal.Decimal
	overtime   decimal.Decimal
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, req report.ExportAttendanceRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	cfg, err := s.settingsService.Current(ctx)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc := cfg.Location()

	records, err := s.collect(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetAttendance); err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}

	if err := writeAttendanceSheet(f, records, loc, headerStyle); err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}
	if err := writeSummarySheet(f, summarize(records), headerStyle); err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
	}

	slog.Info("Attendance exported",
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"rows", len(records))

	return report.ExportFile{
		Filename:    fmt.Sprintf("attendance_%s_%s.xlsx", req.StartDate, req.EndDate),
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}, nil
}

// collect pages through the record store, oldest day first.
func (s *ReportServiceImpl) collect(ctx context.Context, req report.ExportAttendanceRequest) ([]attendance.Attendance, error) {
	filter := attendance.AttendanceFilter{
		EmployeeID: req.EmployeeID,
		StartDate:  &req.StartDate,
		EndDate:    &req.EndDate,
		Page:       1,
		Limit:      pageSize,
		SortBy:     "date",
		SortOrder:  "asc",
	}

	var records []attendance.Attendance
	for {
		page, total, err := s.attendanceRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance for export: %w", err)
		}
		records = append(records, page...)
		if len(page) == 0 || int64(len(records)) >= total {
			return records, nil
		}
		filter.Page++
	}
}

func writeAttendanceSheet(f *excelize.File, records []attendance.Attendance, loc *time.Location, headerStyle int) error {
	header := []any{"Date", "Employee ID", "Name", "Department", "Check In", "Check Out", "Total Hours", "Overtime Hours", "Status"}
	if err := f.SetSheetRow(sheetAttendance, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetAttendance, "A1", "I1", headerStyle); err != nil {
		return err
	}

	for i, att := range records {
		row := []any{
			att.Date.Format("2006-01-02"),
			att.EmployeeID,
			deref(att.EmployeeName),
			deref(att.EmployeeDepartment),
			clockCell(att.ClockIn, loc),
			clockCell(att.ClockOut, loc),
			hoursCell(att.TotalHours),
			hoursCell(att.OvertimeHours),
			string(attendance.StateOf(&att)),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetAttendance, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetAttendance, "A", "I", 18)
}

func writeSummarySheet(f *excelize.File, totals []employeeTotals, headerStyle int) error {
	header := []any{"Employee ID", "Name", "Department", "Days Present", "Days Without Check Out", "Total Hours", "Overtime Hours"}
	if err := f.SetSheetRow(sheetSummary, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "G1", headerStyle); err != nil {
		return err
	}

	for i, t := range totals {
		row := []any{
			t.id,
			t.name,
			t.department,
			t.days,
			t.open,
			t.hours.InexactFloat64(),
			t.overtime.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetSummary, "A", "G", 20)
}

func summarize(records []attendance.Attendance) []employeeTotals {
	byEmployee := make(map[string]*employeeTotals)
	for _, att := range records {
		t, ok := byEmployee[att.EmployeeID]
		if !ok {
			t = &employeeTotals{
				id:         att.EmployeeID,
				name:       deref(att.EmployeeName),
				department: deref(att.EmployeeDepartment),
			}
			byEmployee[att.EmployeeID] = t
		}
		t.days++
		if att.ClockOut == nil {
			t.open++
		}
		if att.TotalHours != nil {
			t.hours = t.hours.Add(decimal.NewFromFloat(*att.TotalHours))
		}
		if att.OvertimeHours != nil {
			t.overtime = t.overtime.Add(decimal.NewFromFloat(*att.OvertimeHours))
		}
	}

	totals := make([]employeeTotals, 0, len(byEmployee))
	for _, t := range byEmployee {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].name == totals[j].name {
			return totals[i].id < totals[j].id
		}
		return totals[i].name < totals[j].name
	})
	return totals
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clockCell(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04:05")
}

func hoursCell(h *float64) any {
	if h == nil {
		return ""
	}
	return *h
}
