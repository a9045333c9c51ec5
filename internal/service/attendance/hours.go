package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// TotalHours is the elapsed time between in and out in hours, rounded half-up
// to two decimals. out before in is ErrInvalidClockSequence.
func TotalHours(in, out time.Time) (float64, error) {
	ms := out.Sub(in).Milliseconds()
	if ms < 0 {
		return 0, attendance.ErrInvalidClockSequence
	}
	return decimal.NewFromInt(ms).Div(millisPerHour).Round(2).InexactFloat64(), nil
}

// OvertimeHours is the positive excess of total over the standard shift.
func OvertimeHours(total, standardShift float64) float64 {
	excess := decimal.NewFromFloat(total).Sub(decimal.NewFromFloat(standardShift))
	if !excess.IsPositive() {
		return 0
	}
	return excess.Round(2).InexactFloat64()
}
