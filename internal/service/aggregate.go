package service

import (
	"sort"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

// AggregateSamples folds raw interval samples into one NightSummary per
// night. Samples may arrive unsorted and may span multiple nights; each
// is bucketed by the noon rule on its start time. Malformed samples are
// skipped individually rather than failing the batch. A night with no
// valid samples produces no summary at all.
//
// Session bounds (bedtime, wake) are taken over the full envelope of
// samples including Awake intervals: the source models brief nighttime
// wake periods as separate intervals inside the true session, and
// excluding them would clip the session boundaries.
func AggregateSamples(samples []domain.RawSample, loc *time.Location) []domain.NightSummary {
	byNight := make(map[domain.NightDate][]domain.RawSample)
	for _, s := range samples {
		if !s.Valid() {
			continue
		}
		night := domain.NightOf(s.StartAt, loc)
		byNight[night] = append(byNight[night], s)
	}

	nights := make([]domain.NightSummary, 0, len(byNight))
	for night, group := range byNight {
		sort.Slice(group, func(i, j int) bool {
			return group[i].StartAt.Before(group[j].StartAt)
		})
		nights = append(nights, foldNight(night, group))
	}

	// Most recent first, matching history order.
	sort.Slice(nights, func(i, j int) bool {
		return nights[i].Date > nights[j].Date
	})
	return nights
}

// foldNight walks one night's samples in start order and accumulates
// the summary. Asleep durations count toward time in bed as well:
// when only sleep-stage samples exist, with no separate InBed samples,
// time in bed would otherwise be undercounted. With InBed samples
// present this double counts, which mirrors the source's documented
// behavior and keeps efficiency figures comparable with it.
func foldNight(night domain.NightDate, samples []domain.RawSample) domain.NightSummary {
	var (
		bedtime time.Time
		wake    time.Time
		inBed   time.Duration
		asleep  time.Duration
	)

	for i, s := range samples {
		if i == 0 || s.StartAt.Before(bedtime) {
			bedtime = s.StartAt
		}
		if s.EndAt.After(wake) {
			wake = s.EndAt
		}

		switch {
		case s.Kind == domain.StateInBed:
			inBed += s.Duration()
		case s.Kind.Asleep():
			asleep += s.Duration()
			inBed += s.Duration()
		}
		// Awake samples contribute to the bounds only.
	}

	summary := domain.NightSummary{
		Date:     night,
		Bedtime:  &bedtime,
		WakeTime: &wake,
	}

	mid := bedtime.Add(wake.Sub(bedtime) / 2)
	summary.Midpoint = &mid

	// A zero total is absence, not a zero-length measurement.
	if inBed > 0 {
		summary.TimeInBed = &inBed
	}
	if asleep > 0 {
		summary.TimeAsleep = &asleep
	}
	if summary.TimeInBed != nil && summary.TimeAsleep != nil {
		eff := asleep.Seconds() / inBed.Seconds() * 100
		summary.Efficiency = &eff
	}

	return summary
}
