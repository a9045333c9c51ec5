package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	"github.com/cmlabs-hris/timeclock/internal/pkg/keylock"
	"github.com/cmlabs-hris/timeclock/internal/pkg/sse"
)

const (
	EventCheckIn  = "attendance.check_in"
	EventCheckOut = "attendance.check_out"
)

type AttendanceServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	employeeService employee.EmployeeService
	settingsService settings.SettingsService
	transactor      attendance.Transactor
	locks           *keylock.KeyLock
	publisher       sse.Publisher
	minLength       int
	now             func() time.Time
}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now as the source of scan timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceServiceImpl) {
		s.now = now
	}
}

// WithPublisher broadcasts accepted scans after they are committed.
func WithPublisher(publisher sse.Publisher) Option {
	return func(s *AttendanceServiceImpl) {
		s.publisher = publisher
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeService employee.EmployeeService,
	settingsService settings.SettingsService,
	transactor attendance.Transactor,
	minLength int,
	opts ...Option,
) attendance.AttendanceService {
	s := &AttendanceServiceImpl{
		attendanceRepo:  attendanceRepo,
		employeeService: employeeService,
		settingsService: settingsService,
		transactor:      transactor,
		locks:           keylock.New(),
		minLength:       minLength,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Toggle(ctx context.Context, req attendance.ToggleRequest) (attendance.ToggleResponse, error) {
	if err := req.Validate(s.minLength); err != nil {
		return attendance.ToggleResponse{}, err
	}
	identifier := req.Identifier()

	emp, err := s.employeeService.Lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, employee.ErrInactiveEmployee) {
			slog.Info("Attendance scan rejected",
				"outcome", outcomeOf(err),
				"identifier_kind", identifier.Kind,
				"identifier", identifier.Value)
			return attendance.ToggleResponse{}, err
		}
		return attendance.ToggleResponse{}, s.storageFailure("lookup employee", err)
	}

	cfg, err := s.settingsService.Current(ctx)
	if err != nil {
		return attendance.ToggleResponse{}, s.storageFailure("load settings", err)
	}

	// Scans for one employee are decided one at a time; the storage layer
	// still rejects a write that raced past another process.
	unlock, err := s.locks.Lock(ctx, emp.ID)
	if err != nil {
		return attendance.ToggleResponse{}, s.storageFailure("acquire employee lock", err)
	}
	defer unlock()

	now := s.now()
	date := attendance.DayOf(now, cfg.Location())

	var (
		action attendance.Action
		record attendance.Attendance
	)
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		today, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
		if err != nil {
			return err
		}
		action, record, err = s.advance(ctx, emp.ID, today, now, date, cfg)
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceConflict) {
			// Another scan for the same day committed first.
			err = &attendance.CooldownError{Remaining: cfg.Cooldown()}
		}
		if !isBusinessOutcome(err) {
			return attendance.ToggleResponse{}, s.storageFailure("record attendance", err)
		}
		logRejection(emp.ID, date, err)
		return attendance.ToggleResponse{}, err
	}

	result := FormatToggleResult(emp, action, record)
	slog.Info("Attendance recorded",
		"action", action,
		"employee_id", emp.ID,
		"attendance_id", record.ID,
		"date", date.Format("2006-01-02"),
		"total_hours", result.HoursWorked,
		"overtime_hours", result.OvertimeHours)
	s.publish(action, result)
	return result, nil
}

// advance applies one scan to today's record: no record checks in, an open
// record checks out once the cooldown has passed, a closed record is final.
func (s *AttendanceServiceImpl) advance(
	ctx context.Context,
	employeeID string,
	today *attendance.Attendance,
	now, date time.Time,
	cfg settings.Settings,
) (attendance.Action, attendance.Attendance, error) {
	switch attendance.StateOf(today) {
	case attendance.StateNone:
		created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID: employeeID,
			Date:       date,
			ClockIn:    &now,
		})
		if err != nil {
			return "", attendance.Attendance{}, err
		}
		return attendance.ActionCheckIn, created, nil

	case attendance.StateCheckedIn:
		elapsed := now.Sub(*today.ClockIn)
		if elapsed < 0 {
			return "", attendance.Attendance{}, attendance.ErrInvalidClockSequence
		}
		if cooldown := cfg.Cooldown(); elapsed < cooldown {
			return "", attendance.Attendance{}, &attendance.CooldownError{Remaining: cooldown - elapsed}
		}

		total, err := TotalHours(*today.ClockIn, now)
		if err != nil {
			return "", attendance.Attendance{}, err
		}
		overtime := OvertimeHours(total, cfg.StandardShiftHours)

		closing := *today
		closing.ClockOut = &now
		closing.TotalHours = &total
		closing.OvertimeHours = &overtime

		updated, err := s.attendanceRepo.Update(ctx, closing)
		if err != nil {
			return "", attendance.Attendance{}, err
		}
		return attendance.ActionCheckOut, updated, nil

	default:
		return "", attendance.Attendance{}, attendance.ErrCycleComplete
	}
}

func (s *AttendanceServiceImpl) publish(action attendance.Action, result attendance.ToggleResponse) {
	if s.publisher == nil {
		return
	}
	name := EventCheckIn
	if action == attendance.ActionCheckOut {
		name = EventCheckOut
	}
	s.publisher.Publish(sse.ChannelAttendance, sse.Event{Event: name, Data: result, At: s.now()})
}

// storageFailure marks err as StorageUnavailable unless it already is.
func (s *AttendanceServiceImpl) storageFailure(op string, err error) error {
	slog.Error("Attendance storage failure", "operation", op, "error", err)
	if errors.Is(err, attendance.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: failed to %s: %w", attendance.ErrStorageUnavailable, op, err)
}

func isBusinessOutcome(err error) bool {
	return errors.Is(err, attendance.ErrCooldownActive) ||
		errors.Is(err, attendance.ErrCycleComplete) ||
		errors.Is(err, attendance.ErrInvalidInput)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "employee_not_found"
	case errors.Is(err, employee.ErrInactiveEmployee):
		return "inactive_employee"
	case errors.Is(err, attendance.ErrCooldownActive):
		return "cooldown_active"
	case errors.Is(err, attendance.ErrCycleComplete):
		return "cycle_complete"
	case errors.Is(err, attendance.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

func logRejection(employeeID string, date time.Time, err error) {
	attrs := []any{
		"outcome", outcomeOf(err),
		"employee_id", employeeID,
		"date", date.Format("2006-01-02"),
	}
	var cooldownErr *attendance.CooldownError
	if errors.As(err, &cooldownErr) {
		attrs = append(attrs, "remaining_seconds", cooldownErr.RemainingSeconds())
	}
	if errors.Is(err, attendance.ErrInvalidInput) {
		slog.Warn("Attendance scan rejected", append(attrs, "error", err)...)
		return
	}
	slog.Info("Attendance scan rejected", attrs...)
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	emp, err := s.employeeService.Lookup(ctx, employee.ByID(employeeID))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, employee.ErrInactiveEmployee) {
			return attendance.StatusResponse{}, err
		}
		return attendance.StatusResponse{}, s.storageFailure("lookup employee", err)
	}

	cfg, err := s.settingsService.Current(ctx)
	if err != nil {
		return attendance.StatusResponse{}, s.storageFailure("load settings", err)
	}

	now := s.now()
	date := attendance.DayOf(now, cfg.Location())

	today, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return attendance.StatusResponse{}, s.storageFailure("get today's attendance", err)
	}

	state := attendance.StateOf(today)
	resp := attendance.StatusResponse{
		EmployeeID: emp.ID,
		Date:       date.Format("2006-01-02"),
		State:      state,
	}

	switch state {
	case attendance.StateNone:
		next := attendance.ActionCheckIn
		resp.NextAction = &next
		resp.CanToggle = true
	case attendance.StateCheckedIn:
		next := attendance.ActionCheckOut
		resp.NextAction = &next
		allowedAt := today.ClockIn.Add(cfg.Cooldown())
		resp.CanToggle = !now.Before(allowedAt)
		if !resp.CanToggle {
			resp.CanToggleAt = timePtrToString(&allowedAt)
		}
	}

	if today != nil {
		record := mapAttendanceToResponse(*today)
		resp.Record = &record
	}

	return resp, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return mapAttendanceToResponse(att), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}
