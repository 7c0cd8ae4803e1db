package service

import (
	"sort"

	"github.com/nightfold/nightfold/internal/domain"
)

// MergeNights combines previously persisted nights with a freshly
// aggregated batch. An incoming summary replaces any existing entry for
// the same night wholesale; there is no field-level merge, because the
// incoming summary was computed from a superset or corrected set of
// that night's samples. The result is unique per night date, sorted
// most recent first, and the operation is idempotent.
//
// Callers must aggregate raw samples into per-night summaries before
// merging. If an earlier partial fetch locked in an incomplete night
// envelope that a later fetch did not fully correct, the recovery path
// is a full resync, not a field merge here.
func MergeNights(existing, incoming []domain.NightSummary) []domain.NightSummary {
	byDate := make(map[domain.NightDate]domain.NightSummary, len(existing)+len(incoming))
	for _, n := range existing {
		byDate[n.Date] = n
	}
	for _, n := range incoming {
		byDate[n.Date] = n
	}

	merged := make([]domain.NightSummary, 0, len(byDate))
	for _, n := range byDate {
		merged = append(merged, n)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date > merged[j].Date
	})
	return merged
}
