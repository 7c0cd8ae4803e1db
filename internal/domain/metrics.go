package domain

import "time"

// MetricsReport holds the longitudinal sleep metrics computed over the
// night history. Each metric is nil when the window holds too few
// usable nights for a meaningful estimate.
// @Description Longitudinal sleep metrics. Null fields mean not enough data.
type MetricsReport struct {
	// Population stdev of midpoint hour-of-day over the last 7 nights, clamped to [0,12]
	ConsistencyHours *float64 `json:"consistency_hours,omitempty" example:"0.7"`
	// Absolute weekday/weekend midpoint gap over the last 14 nights, clamped to [0,12]
	SocialJetlagHours *float64 `json:"social_jetlag_hours,omitempty" example:"1.2"`
	// Percentage of the last 30 nights whose midpoint is within tolerance of the target
	RegularityPercent *float64 `json:"regularity_percent,omitempty" example:"76.7"`
	// Number of nights available to the metrics window
	NightsAnalyzed int `json:"nights_analyzed" example:"30"`
	// Schedule target the regularity figures were computed against
	Target ScheduleTarget `json:"target"`
}

// ScheduleFit labels how one night relates to the schedule target.
type ScheduleFit string

const (
	FitOnSchedule ScheduleFit = "on_schedule"
	FitLater      ScheduleFit = "later"
	FitEarlier    ScheduleFit = "earlier"
	FitUnknown    ScheduleFit = "unknown"
)

// NightDeviation is one night's signed distance from the target
// midpoint, in minutes, with a display label.
// @Description Per-night deviation from the target schedule.
type NightDeviation struct {
	Date NightDate `json:"date" example:"2024-03-04"`
	// Signed minutes from target midpoint; nil when the night has no midpoint
	Minutes *int        `json:"minutes,omitempty" example:"25"`
	Fit     ScheduleFit `json:"fit" example:"later"`
	// Human-readable form, e.g. "later by 25 min"
	Label string `json:"label" example:"later by 25 min"`
}

// SyncStatus describes the fetch coordinator's current state.
// @Description Current sync state.
type SyncStatus struct {
	// True while a fetch is in flight
	Busy bool `json:"busy" example:"false"`
	// Completion time of the last successful fetch
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
	// Error text of the last failed fetch, cleared on success
	LastError string `json:"last_error,omitempty"`
	// True once an incremental cursor has been persisted
	CursorSet bool `json:"cursor_set" example:"true"`
	// Nights merged by the last successful fetch
	LastMerged int `json:"last_merged" example:"3"`
}

// SyncResult summarizes one completed fetch pass.
// @Description Outcome of a sync pass.
type SyncResult struct {
	// Raw samples returned by the source
	SamplesFetched int `json:"samples_fetched" example:"42"`
	// Nights aggregated and merged into history
	NightsMerged int `json:"nights_merged" example:"5"`
	// True when the pass was discarded because a resync superseded it
	Superseded bool `json:"superseded,omitempty"`
	// True when the pass was a full resync
	FullResync bool `json:"full_resync,omitempty"`
}
