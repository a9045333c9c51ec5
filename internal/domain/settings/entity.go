package settings

import (
	"time"
)

// Settings are the system-wide knobs the attendance engine reads on every scan.
type Settings struct {
	CooldownSeconds       int
	StandardShiftHours    float64
	EntryToleranceMinutes int // reserved for a late-arrival policy; not read by the engine
	Timezone              string
	UpdatedAt             time.Time
}

func (s Settings) Cooldown() time.Duration {
	return time.Duration(s.CooldownSeconds) * time.Second
}

// Location falls back to UTC for an unknown timezone name.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
