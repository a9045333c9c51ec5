package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	"github.com/cmlabs-hris/timeclock/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, id, barcode string) employee.Employee {
	t.Helper()
	emp, err := repo.Create(context.Background(), employee.Employee{
		ID: id, Barcode: barcode, FullName: "Employee " + id, Department: "Finance", IsActive: true,
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	created := createEmployee(t, repo, "EMP-001", "MOJV040815")
	assert.False(t, created.CreatedAt.IsZero())

	byBarcode, err := repo.GetByBarcode(ctx, "MOJV040815")
	require.NoError(t, err)
	assert.Equal(t, "EMP-001", byBarcode.ID)

	_, err = repo.GetByID(ctx, "EMP-404")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = repo.Create(ctx, employee.Employee{ID: "EMP-001", Barcode: "OTHER-1", FullName: "Dup"})
	assert.ErrorIs(t, err, employee.ErrIDExists)

	_, err = repo.Create(ctx, employee.Employee{ID: "EMP-002", Barcode: "MOJV040815", FullName: "Dup"})
	assert.ErrorIs(t, err, employee.ErrBarcodeExists)

	created.IsActive = false
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active := true
	list, total, err := repo.List(ctx, employee.EmployeeFilter{IsActive: &active, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestAttendanceRepository_DailyCycle(t *testing.T) {
	setup := NewTestDatabase(t)
	employeeRepo := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	createEmployee(t, employeeRepo, "EMP-001", "MOJV040815")
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	clockIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	none, err := repo.GetByEmployeeAndDate(ctx, "EMP-001", day)
	require.NoError(t, err)
	assert.Nil(t, none)

	created, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "EMP-001", Date: day, ClockIn: &clockIn})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "EMP-001", Date: day, ClockIn: &clockIn})
	assert.ErrorIs(t, err, attendance.ErrAttendanceConflict)

	clockOut := clockIn.Add(8 * time.Hour)
	total, overtime := 8.0, 0.0
	created.ClockOut = &clockOut
	created.TotalHours = &total
	created.OvertimeHours = &overtime
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, attendance.ErrAttendanceConflict)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TotalHours)
	assert.Equal(t, 8.0, *got.TotalHours)
	assert.Equal(t, attendance.StateCompleted, attendance.StateOf(&got))
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Employee EMP-001", *got.EmployeeName)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListAndOpen(t *testing.T) {
	setup := NewTestDatabase(t)
	employeeRepo := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	createEmployee(t, employeeRepo, "EMP-001", "MOJV040815")
	createEmployee(t, employeeRepo, "EMP-002", "EMP-002")

	for _, d := range []int{8, 9, 10} {
		day := time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
		in := day.Add(9 * time.Hour)
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: "EMP-001", Date: day, ClockIn: &in})
		require.NoError(t, err)
	}

	start, end := "2025-03-09", "2025-03-10"
	list, total, err := repo.List(ctx, attendance.AttendanceFilter{
		StartDate: &start, EndDate: &end, Page: 1, Limit: 10, SortBy: "date", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-09", list[0].Date.Format("2006-01-02"))

	open, err := repo.ListOpenBefore(ctx, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestTransactor_SerializesDailyRecord(t *testing.T) {
	setup := NewTestDatabase(t)
	employeeRepo := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)

	createEmployee(t, employeeRepo, "EMP-001", "MOJV040815")
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := transactor.WithinTransaction(context.Background(), func(ctx context.Context) error {
				existing, err := repo.GetByEmployeeAndDate(ctx, "EMP-001", day)
				if err != nil || existing != nil {
					return err
				}
				in := time.Now().UTC()
				_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: "EMP-001", Date: day, ClockIn: &in})
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, attendance.ErrAttendanceConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	list, total, err := repo.List(context.Background(), attendance.AttendanceFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
	assert.Equal(t, 5, created+conflicts)
}

func TestSettingsRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewSettingsRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, settings.ErrSettingsNotFound)

	saved, err := repo.Upsert(ctx, settings.Settings{
		CooldownSeconds: 60, StandardShiftHours: 8, EntryToleranceMinutes: 10, Timezone: "Asia/Jakarta",
	})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	saved.CooldownSeconds = 90
	_, err = repo.Upsert(ctx, saved)
	require.NoError(t, err)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, got.CooldownSeconds)
	assert.Equal(t, "Asia/Jakarta", got.Timezone)
}
