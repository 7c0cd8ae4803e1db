package domain

import (
	"time"
)

// nightDateLayout is the wire/persistence format for night dates.
const nightDateLayout = "2006-01-02"

// NightDate identifies the calendar night a sleep session belongs to,
// formatted YYYY-MM-DD. ISO dates sort lexicographically, so string
// comparison doubles as date comparison.
type NightDate string

// NightOf buckets an instant into its night using the noon rule: a
// local time before 12:00 belongs to the previous calendar day's night,
// noon and later belong to the current day. A 2 AM sample on March 5
// is part of the night of March 4.
func NightOf(t time.Time, loc *time.Location) NightDate {
	lt := t.In(loc)
	if lt.Hour() < 12 {
		lt = lt.AddDate(0, 0, -1)
	}
	return NightDate(lt.Format(nightDateLayout))
}

// Time returns the night date at midnight in the given location.
func (d NightDate) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(nightDateLayout, string(d), loc)
}

// Weekend reports whether the night date falls on Saturday or Sunday
// (the flanking days of a Sunday-first week).
func (d NightDate) Weekend(loc *time.Location) bool {
	t, err := d.Time(loc)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// NightSummary is the aggregated record for one calendar night. Every
// derived field is optional: a night assembled from partial data keeps
// nulls rather than guessed values, and consumers must check presence.
// @Description Aggregated sleep summary for a single night.
type NightSummary struct {
	// Night date (YYYY-MM-DD), the unique key
	Date NightDate `json:"date" example:"2024-03-04"`
	// Total time in bed, including sleep time
	TimeInBed *time.Duration `json:"time_in_bed,omitempty" swaggertype:"integer"`
	// Total time asleep across all sleep stages
	TimeAsleep *time.Duration `json:"time_asleep,omitempty" swaggertype:"integer"`
	// Earliest sample start of the night
	Bedtime *time.Time `json:"bedtime,omitempty" example:"2024-03-04T23:00:00Z"`
	// Latest sample end of the night
	WakeTime *time.Time `json:"wake_time,omitempty" example:"2024-03-05T07:00:00Z"`
	// Temporal center of the session, bedtime + (wake-bedtime)/2
	Midpoint *time.Time `json:"midpoint,omitempty" example:"2024-03-05T03:00:00Z"`
	// timeAsleep / timeInBed * 100, only when both are present
	Efficiency *float64 `json:"efficiency,omitempty" example:"91.5"`
}

// NightResponse is the presentation form of a NightSummary, with
// durations converted to hours at the boundary.
// @Description Night summary with durations in hours.
type NightResponse struct {
	Date            NightDate  `json:"date" example:"2024-03-04"`
	TimeInBedHours  *float64   `json:"time_in_bed_hours,omitempty" example:"8.0"`
	TimeAsleepHours *float64   `json:"time_asleep_hours,omitempty" example:"7.5"`
	Bedtime         *time.Time `json:"bedtime,omitempty"`
	WakeTime        *time.Time `json:"wake_time,omitempty"`
	Midpoint        *time.Time `json:"midpoint,omitempty"`
	Efficiency      *float64   `json:"efficiency,omitempty" example:"91.5"`
}

// ToResponse converts internal durations to hour figures. Conversions
// happen only here, not inside metric computation.
func (n NightSummary) ToResponse() NightResponse {
	resp := NightResponse{
		Date:       n.Date,
		Bedtime:    n.Bedtime,
		WakeTime:   n.WakeTime,
		Midpoint:   n.Midpoint,
		Efficiency: n.Efficiency,
	}
	if n.TimeInBed != nil {
		h := n.TimeInBed.Hours()
		resp.TimeInBedHours = &h
	}
	if n.TimeAsleep != nil {
		h := n.TimeAsleep.Hours()
		resp.TimeAsleepHours = &h
	}
	return resp
}

// NightListResponse is the paginated nights listing.
// @Description Paginated list of night summaries, most recent first.
type NightListResponse struct {
	Data       []NightResponse    `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}
