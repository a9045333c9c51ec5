package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	"github.com/cmlabs-hris/timeclock/internal/pkg/sse"
)

const EventUnclosed = "attendance.unclosed"

type AttendanceJobs struct {
	attendanceRepo  attendance.AttendanceRepository
	settingsService settings.SettingsService
	publisher       sse.Publisher
	now             func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	settingsService settings.SettingsService,
	publisher sse.Publisher,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		settingsService: settingsService,
		publisher:       publisher,
		now:             time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("report_unclosed_attendances", 1*time.Hour, j.ReportUnclosedAttendances)
}

// UnclosedAttendance is the payload published for a day left without check-out.
type UnclosedAttendance struct {
	AttendanceID string `json:"attendance_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Date         string `json:"date"`
	CheckInTime  string `json:"check_in_time"`
}

// ReportUnclosedAttendances flags records from earlier days that never got a
// check-out. Records are left untouched; closing them is an admin decision.
func (j *AttendanceJobs) ReportUnclosedAttendances(ctx context.Context) error {
	cfg, err := j.settingsService.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	today := attendance.DayOf(j.now(), cfg.Location())

	open, err := j.attendanceRepo.ListOpenBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list unclosed attendances: %w", err)
	}

	if len(open) == 0 {
		slog.Debug("Cron: No unclosed attendances found")
		return nil
	}

	unclosed := make([]UnclosedAttendance, 0, len(open))
	for _, att := range open {
		item := UnclosedAttendance{
			AttendanceID: att.ID,
			EmployeeID:   att.EmployeeID,
			Date:         att.Date.Format("2006-01-02"),
		}
		if att.EmployeeName != nil {
			item.EmployeeName = *att.EmployeeName
		}
		if att.ClockIn != nil {
			item.CheckInTime = att.ClockIn.Format(time.RFC3339)
		}
		unclosed = append(unclosed, item)

		slog.Warn("Cron: Attendance without check-out",
			"attendance_id", att.ID,
			"employee_id", att.EmployeeID,
			"date", item.Date)
	}

	if j.publisher != nil {
		j.publisher.Publish(sse.ChannelAttendance, sse.Event{Event: EventUnclosed, Data: unclosed})
	}

	slog.Info("Cron: Reported unclosed attendances", "count", len(unclosed))
	return nil
}
