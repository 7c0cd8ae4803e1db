package domain

import "time"

// ScheduleTarget is the user-configured target sleep schedule: a
// bedtime-of-day, a wake-of-day, and a tolerance within which a night
// counts as on schedule.
// @Description Target sleep schedule used for regularity and deviation metrics.
type ScheduleTarget struct {
	BedtimeHour      int `json:"bedtime_hour" example:"23"`
	BedtimeMinute    int `json:"bedtime_minute" example:"0"`
	WakeHour         int `json:"wake_hour" example:"7"`
	WakeMinute       int `json:"wake_minute" example:"0"`
	ToleranceMinutes int `json:"tolerance_minutes" example:"30"`
}

// DefaultScheduleTarget is the schedule used until the user configures one.
func DefaultScheduleTarget() ScheduleTarget {
	return ScheduleTarget{
		BedtimeHour:      23,
		BedtimeMinute:    0,
		WakeHour:         7,
		WakeMinute:       0,
		ToleranceMinutes: 30,
	}
}

// Tolerance returns the on-schedule tolerance as a duration.
func (t ScheduleTarget) Tolerance() time.Duration {
	return time.Duration(t.ToleranceMinutes) * time.Minute
}

// MidpointFor anchors the recurring daily target to a concrete night
// and returns the target midpoint as an absolute instant. Bedtimes
// before noon land on the day after the night date, consistent with the
// noon assignment rule, and schedules crossing midnight resolve the
// wake instant to the following day so the span is always positive.
func (t ScheduleTarget) MidpointFor(night NightDate, loc *time.Location) (time.Time, error) {
	day, err := night.Time(loc)
	if err != nil {
		return time.Time{}, err
	}

	bed := time.Date(day.Year(), day.Month(), day.Day(), t.BedtimeHour, t.BedtimeMinute, 0, 0, loc)
	if t.BedtimeHour < 12 {
		bed = bed.AddDate(0, 0, 1)
	}

	wake := time.Date(bed.Year(), bed.Month(), bed.Day(), t.WakeHour, t.WakeMinute, 0, 0, loc)
	if !wake.After(bed) {
		wake = wake.AddDate(0, 0, 1)
	}

	return bed.Add(wake.Sub(bed) / 2), nil
}

// Settings is the persisted settings blob. Only the schedule target
// lives here today; the struct exists so the blob can grow without a
// format break.
type Settings struct {
	Schedule ScheduleTarget `json:"schedule"`
}

// DefaultSettings returns settings for a fresh or corrupt settings blob.
func DefaultSettings() Settings {
	return Settings{Schedule: DefaultScheduleTarget()}
}

// UpdateScheduleRequest is the request body for updating the schedule target.
// @Description Request payload for configuring the target sleep schedule.
type UpdateScheduleRequest struct {
	// Target bedtime hour of day (0-23)
	BedtimeHour *int `json:"bedtime_hour" validate:"required,min=0,max=23" example:"23"`
	// Target bedtime minute (0-59)
	BedtimeMinute *int `json:"bedtime_minute" validate:"required,min=0,max=59" example:"0"`
	// Target wake hour of day (0-23)
	WakeHour *int `json:"wake_hour" validate:"required,min=0,max=23" example:"7"`
	// Target wake minute (0-59)
	WakeMinute *int `json:"wake_minute" validate:"required,min=0,max=59" example:"0"`
	// On-schedule tolerance in minutes (1-240)
	ToleranceMinutes *int `json:"tolerance_minutes" validate:"required,min=1,max=240" example:"30"`
}

// ToTarget materializes the request into a ScheduleTarget.
func (r UpdateScheduleRequest) ToTarget() ScheduleTarget {
	return ScheduleTarget{
		BedtimeHour:      *r.BedtimeHour,
		BedtimeMinute:    *r.BedtimeMinute,
		WakeHour:         *r.WakeHour,
		WakeMinute:       *r.WakeMinute,
		ToleranceMinutes: *r.ToleranceMinutes,
	}
}
