package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	"github.com/cmlabs-hris/timeclock/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock/internal/repository/memory"
	settingsservice "github.com/cmlabs-hris/timeclock/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	errFirst := errors.New("first")
	s.AddJob("fails", time.Hour, func(ctx context.Context) error { return errFirst })
	s.AddJob("ok", time.Hour, func(ctx context.Context) error { return nil })

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorContains(t, err, "job fails")
}

func TestReportUnclosedAttendances(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	attendances := memory.NewAttendanceRepository(store)
	_, err := memory.NewEmployeeRepository(store).Create(ctx, employee.Employee{
		ID: "EMP-001", Barcode: "MOJV040815", FullName: "Budi Santoso", IsActive: true,
	})
	require.NoError(t, err)

	for _, day := range []string{"2024-03-03", "2024-03-04"} {
		date, _ := time.Parse("2006-01-02", day)
		in := date.Add(9 * time.Hour)
		_, err := attendances.Create(ctx, attendance.Attendance{EmployeeID: "EMP-001", Date: date, ClockIn: &in})
		require.NoError(t, err)
	}

	hub := sse.NewHub()
	events, cleanup := hub.Subscribe(sse.ChannelAttendance)
	defer cleanup()

	settingsSvc := settingsservice.NewSettingsService(memory.NewSettingsRepository(store), settings.Settings{
		CooldownSeconds: 60, StandardShiftHours: 8, Timezone: "UTC",
	})
	jobs := NewAttendanceJobs(attendances, settingsSvc, hub)
	jobs.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.ReportUnclosedAttendances(ctx))

	select {
	case ev := <-events:
		assert.Equal(t, EventUnclosed, ev.Event)
		unclosed, ok := ev.Data.([]UnclosedAttendance)
		require.True(t, ok)
		require.Len(t, unclosed, 1)
		assert.Equal(t, "2024-03-03", unclosed[0].Date)
		assert.Equal(t, "Budi Santoso", unclosed[0].EmployeeName)
	case <-time.After(time.Second):
		t.Fatal("unclosed attendances were not published")
	}

	// Reporting never closes records.
	open, err := attendances.ListOpenBefore(ctx, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, open, 2)
}
