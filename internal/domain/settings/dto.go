package settings

import (
	"github.com/cmlabs-hris/timeclock/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	CooldownSeconds       *int     `json:"cooldown_seconds,omitempty"`
	StandardShiftHours    *float64 `json:"standard_shift_hours,omitempty"`
	EntryToleranceMinutes *int     `json:"entry_tolerance_minutes,omitempty"`
	Timezone              *string  `json:"timezone,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CooldownSeconds != nil && (*r.CooldownSeconds < 0 || *r.CooldownSeconds > 3600) {
		errs = append(errs, validator.ValidationError{
			Field:   "cooldown_seconds",
			Message: "cooldown_seconds must be between 0 and 3600",
		})
	}

	if r.StandardShiftHours != nil && (*r.StandardShiftHours < 1 || *r.StandardShiftHours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "standard_shift_hours",
			Message: "standard_shift_hours must be between 1 and 24",
		})
	}

	if r.EntryToleranceMinutes != nil && (*r.EntryToleranceMinutes < 0 || *r.EntryToleranceMinutes > 240) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_tolerance_minutes",
			Message: "entry_tolerance_minutes must be between 0 and 240",
		})
	}

	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA timezone name",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SettingsResponse struct {
	CooldownSeconds       int     `json:"cooldown_seconds"`
	StandardShiftHours    float64 `json:"standard_shift_hours"`
	EntryToleranceMinutes int     `json:"entry_tolerance_minutes"`
	Timezone              string  `json:"timezone"`
	UpdatedAt             string  `json:"updated_at,omitempty"`
}

func ToResponse(s Settings) SettingsResponse {
	resp := SettingsResponse{
		CooldownSeconds:       s.CooldownSeconds,
		StandardShiftHours:    s.StandardShiftHours,
		EntryToleranceMinutes: s.EntryToleranceMinutes,
		Timezone:              s.Timezone,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
