package domain

import (
	"time"

	"github.com/google/uuid"
)

// StateKind represents the classified state of a raw sleep interval.
// @Description Sleep/wake state of an interval sample as classified by the external source.
type StateKind string

const (
	// StateInBed covers time spent in bed, asleep or not
	StateInBed StateKind = "IN_BED"
	// StateAsleepUnspecified is sleep without stage information
	StateAsleepUnspecified StateKind = "ASLEEP_UNSPECIFIED"
	// StateAsleepCore is light/core stage sleep
	StateAsleepCore StateKind = "ASLEEP_CORE"
	// StateAsleepDeep is deep stage sleep
	StateAsleepDeep StateKind = "ASLEEP_DEEP"
	// StateAsleepREM is REM stage sleep
	StateAsleepREM StateKind = "ASLEEP_REM"
	// StateAwake is a wake period inside a tracked session
	StateAwake StateKind = "AWAKE"
)

// Known reports whether the kind is one the aggregator understands.
func (k StateKind) Known() bool {
	switch k {
	case StateInBed, StateAsleepUnspecified, StateAsleepCore, StateAsleepDeep, StateAsleepREM, StateAwake:
		return true
	}
	return false
}

// Asleep reports whether the kind is any of the Asleep* stages.
func (k StateKind) Asleep() bool {
	switch k {
	case StateAsleepUnspecified, StateAsleepCore, StateAsleepDeep, StateAsleepREM:
		return true
	}
	return false
}

// SourceMetadata carries provenance for a raw sample. Inferred samples
// are candidates produced by the motion-gap classifier rather than the
// platform itself.
type SourceMetadata struct {
	SampleID   uuid.UUID `json:"sample_id,omitempty"`
	Bundle     string    `json:"bundle,omitempty"`
	Inferred   bool      `json:"inferred,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// RawSample is one classified sleep/wake interval from the external
// health-data source. Samples are transient input to aggregation and are
// never persisted; only the derived NightSummary is.
type RawSample struct {
	StartAt time.Time      `json:"start_at"`
	EndAt   time.Time      `json:"end_at"`
	Kind    StateKind      `json:"kind"`
	Source  SourceMetadata `json:"source,omitempty"`
}

// Duration returns the interval length.
func (s RawSample) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// Valid reports whether the sample is well-formed: a known state kind
// and end not before start. Malformed samples are skipped individually,
// never fatal to an aggregation batch.
func (s RawSample) Valid() bool {
	return s.Kind.Known() && !s.EndAt.Before(s.StartAt)
}
