package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalHours(t *testing.T) {
	in := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{name: "zero", elapsed: 0, want: 0},
		{name: "exact shift", elapsed: 8 * time.Hour, want: 8},
		{name: "shift plus ten seconds", elapsed: 8*time.Hour + 10*time.Second, want: 8},
		{name: "ten and a half", elapsed: 10*time.Hour + 30*time.Minute, want: 10.5},
		{name: "half rounds up", elapsed: 18 * time.Second, want: 0.01},
		{name: "just below half rounds down", elapsed: 17999 * time.Millisecond, want: 0},
		{name: "one third", elapsed: 20 * time.Minute, want: 0.33},
		{name: "two thirds", elapsed: 40 * time.Minute, want: 0.67},
		{name: "sub-millisecond is truncated", elapsed: 500 * time.Microsecond, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TotalHours(in, in.Add(tt.elapsed))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalHours_NegativeDuration(t *testing.T) {
	in := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	_, err := TotalHours(in, in.Add(-time.Second))
	assert.ErrorIs(t, err, attendance.ErrInvalidClockSequence)
	assert.ErrorIs(t, err, attendance.ErrInvalidInput)
}

func TestOvertimeHours(t *testing.T) {
	assert.Equal(t, 0.0, OvertimeHours(8, 8))
	assert.Equal(t, 0.0, OvertimeHours(4.25, 8))
	assert.Equal(t, 2.5, OvertimeHours(10.5, 8))
	assert.Equal(t, 0.1, OvertimeHours(8.1, 8))
	assert.Equal(t, 1.75, OvertimeHours(9.25, 7.5))
}

func TestHours_OvertimeNeverExceedsTotal(t *testing.T) {
	in := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for minutes := 0; minutes <= 24*60; minutes += 7 {
		total, err := TotalHours(in, in.Add(time.Duration(minutes)*time.Minute))
		require.NoError(t, err)
		for _, shift := range []float64{0, 4, 8, 12} {
			overtime := OvertimeHours(total, shift)
			assert.GreaterOrEqual(t, total, 0.0)
			assert.GreaterOrEqual(t, overtime, 0.0)
			assert.LessOrEqual(t, overtime, total, "minutes=%d shift=%v", minutes, shift)
		}
	}
}
