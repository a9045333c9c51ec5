package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

// clone copies pointer fields so callers never alias stored records.
func clone(att attendance.Attendance) attendance.Attendance {
	cp := att
	if att.ClockIn != nil {
		v := *att.ClockIn
		cp.ClockIn = &v
	}
	if att.ClockOut != nil {
		v := *att.ClockOut
		cp.ClockOut = &v
	}
	if att.TotalHours != nil {
		v := *att.TotalHours
		cp.TotalHours = &v
	}
	if att.OvertimeHours != nil {
		v := *att.OvertimeHours
		cp.OvertimeHours = &v
	}
	return cp
}

// withEmployee fills the joined employee columns. Caller holds store.mu.
func (r *attendanceRepository) withEmployee(att attendance.Attendance) attendance.Attendance {
	cp := clone(att)
	if emp, ok := r.store.employees[att.EmployeeID]; ok {
		name, dept := emp.FullName, emp.Department
		cp.EmployeeName = &name
		cp.EmployeeDepartment = &dept
	}
	return cp
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.days[dayKey{employeeID: employeeID, date: dateKey(date)}]
	if !ok {
		return nil, nil
	}
	att := r.withEmployee(r.store.attendances[id])
	return &att, nil
}

func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[newAttendance.EmployeeID]; !ok {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", employee.ErrEmployeeNotFound)
	}

	key := dayKey{employeeID: newAttendance.EmployeeID, date: dateKey(newAttendance.Date)}
	if _, exists := r.store.days[key]; exists {
		return attendance.Attendance{}, attendance.ErrAttendanceConflict
	}

	now := r.store.now()
	newAttendance.ID = uuid.NewString()
	newAttendance.CreatedAt = now
	newAttendance.UpdatedAt = now
	newAttendance.EmployeeName = nil
	newAttendance.EmployeeDepartment = nil

	r.store.attendances[newAttendance.ID] = clone(newAttendance)
	r.store.days[key] = newAttendance.ID
	return r.withEmployee(newAttendance), nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if att.ClockOut == nil {
		return attendance.Attendance{}, fmt.Errorf("no check-out time provided for attendance update")
	}

	current, ok := r.store.attendances[att.ID]
	if !ok || current.ClockOut != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceConflict
	}

	current.ClockOut = att.ClockOut
	current.TotalHours = att.TotalHours
	current.OvertimeHours = att.OvertimeHours
	current.UpdatedAt = r.store.now()

	r.store.attendances[att.ID] = clone(current)
	return r.withEmployee(current), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	att, ok := r.store.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withEmployee(att), nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []attendance.Attendance
	for _, att := range r.store.attendances {
		if !matchesFilter(att, filter) {
			continue
		}
		matched = append(matched, r.withEmployee(att))
	}

	desc := strings.ToLower(filter.SortOrder) != "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		ka, kb := sortKey(a, filter.SortBy), sortKey(b, filter.SortBy)
		if ka == kb {
			return a.ID < b.ID
		}
		if desc {
			return ka > kb
		}
		return ka < kb
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cutoff := dateKey(date)
	var open []attendance.Attendance
	for _, att := range r.store.attendances {
		if attendance.StateOf(&att) == attendance.StateCheckedIn && dateKey(att.Date) < cutoff {
			open = append(open, r.withEmployee(att))
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].Date.Equal(open[j].Date) {
			return open[i].EmployeeID < open[j].EmployeeID
		}
		return open[i].Date.Before(open[j].Date)
	})
	return open, nil
}

func matchesFilter(att attendance.Attendance, filter attendance.AttendanceFilter) bool {
	day := dateKey(att.Date)
	if filter.EmployeeID != nil && *filter.EmployeeID != "" && att.EmployeeID != *filter.EmployeeID {
		return false
	}
	if filter.Date != nil && *filter.Date != "" && day != *filter.Date {
		return false
	}
	// YYYY-MM-DD compares correctly as a string.
	if filter.StartDate != nil && *filter.StartDate != "" && day < *filter.StartDate {
		return false
	}
	if filter.EndDate != nil && *filter.EndDate != "" && day > *filter.EndDate {
		return false
	}
	if filter.Status != nil && string(attendance.StateOf(&att)) != *filter.Status {
		return false
	}
	return true
}

// sortKey renders the sort column as a string that orders like the column.
// sortTimeLayout keeps every key the same width so string order matches time order.
const sortTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func sortKey(att attendance.Attendance, sortBy string) string {
	switch sortBy {
	case "clock_in_time":
		if att.ClockIn != nil {
			return att.ClockIn.UTC().Format(sortTimeLayout)
		}
	case "clock_out_time":
		if att.ClockOut != nil {
			return att.ClockOut.UTC().Format(sortTimeLayout)
		}
	case "total_hours":
		if att.TotalHours != nil {
			return fmt.Sprintf("%012.2f", *att.TotalHours)
		}
	default:
		return dateKey(att.Date)
	}
	return ""
}
