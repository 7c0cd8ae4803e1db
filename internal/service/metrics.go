package service

import (
	"fmt"
	"math"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

const (
	// ConsistencyWindowNights is the lookback for midpoint consistency.
	ConsistencyWindowNights = 7
	// ConsistencyMinMidpoints is the minimum non-null midpoints required.
	ConsistencyMinMidpoints = 3
	// JetlagWindowNights is the lookback for social jetlag.
	JetlagWindowNights = 14
	// RegularityWindowNights is the lookback for the regularity index.
	RegularityWindowNights = 30

	// maxHourSpread caps hour-of-day statistics. Values above 12 hours
	// indicate a data anomaly or near-midnight wraparound artifact and
	// must not be reported uncapped.
	maxHourSpread = 12.0
)

// ComputeMetrics derives the longitudinal metrics from a night history
// ordered most recent first. Pure and I/O-free.
func ComputeMetrics(nights []domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) domain.MetricsReport {
	return domain.MetricsReport{
		ConsistencyHours:  MidpointConsistency(nights, loc),
		SocialJetlagHours: SocialJetlag(nights, loc),
		RegularityPercent: Regularity(nights, target, loc),
		NightsAnalyzed:    len(nights),
		Target:            target,
	}
}

// MidpointConsistency is the population standard deviation of midpoint
// hour-of-day over the most recent 7 nights, in hours, clamped to
// [0,12]. Nil below 3 usable midpoints.
//
// Midpoints are compared as times of day, not absolute instants:
// absolute epochs from different calendar days would measure calendar
// distance, not schedule dispersion.
func MidpointConsistency(nights []domain.NightSummary, loc *time.Location) *float64 {
	hours := midpointHours(nights, ConsistencyWindowNights, loc)
	if len(hours) < ConsistencyMinMidpoints {
		return nil
	}

	std := clampHours(populationStdDev(hours))
	std = round2(std)
	return &std
}

// SocialJetlag is the absolute gap between mean weekday and mean
// weekend midpoint hour-of-day over the most recent 14 nights, clamped
// to [0,12]. Weekend nights are those dated Saturday or Sunday. Nil
// unless both groups have at least one midpoint.
func SocialJetlag(nights []domain.NightSummary, loc *time.Location) *float64 {
	gap := socialJetlagRaw(nights, loc)
	if gap == nil {
		return nil
	}
	v := round2(clampHours(*gap))
	return &v
}

// socialJetlagRaw returns the unclamped weekday/weekend gap; the
// recommendation rules compare against thresholds without clamping.
func socialJetlagRaw(nights []domain.NightSummary, loc *time.Location) *float64 {
	var weekday, weekend []float64

	for _, n := range window(nights, JetlagWindowNights) {
		if n.Midpoint == nil {
			continue
		}
		h := hourOfDay(*n.Midpoint, loc)
		if n.Date.Weekend(loc) {
			weekend = append(weekend, h)
		} else {
			weekday = append(weekday, h)
		}
	}

	if len(weekday) == 0 || len(weekend) == 0 {
		return nil
	}

	gap := math.Abs(mean(weekday) - mean(weekend))
	return &gap
}

// Regularity is the percentage of the most recent 30 nights whose
// midpoint falls within the target tolerance. Unlike consistency and
// jetlag, closeness to a single recurring daily target is judged on
// absolute instants: the target midpoint is anchored to each night's
// own date and compared by epoch distance. Nil with no usable
// midpoints, and nil for any computed value outside [0,100].
func Regularity(nights []domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) *float64 {
	usable := 0
	within := 0

	for _, n := range window(nights, RegularityWindowNights) {
		if n.Midpoint == nil {
			continue
		}
		tm, err := target.MidpointFor(n.Date, loc)
		if err != nil {
			continue
		}
		usable++

		diff := n.Midpoint.Sub(tm)
		if diff < 0 {
			diff = -diff
		}
		if diff <= target.Tolerance() {
			within++
		}
	}

	if usable == 0 {
		return nil
	}

	pct := float64(within) / float64(usable) * 100
	if pct < 0 || pct > 100 {
		return nil
	}
	pct = round2(pct)
	return &pct
}

// DeviationFor labels a single night against the target schedule.
func DeviationFor(night domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) domain.NightDeviation {
	dev := domain.NightDeviation{
		Date:  night.Date,
		Fit:   domain.FitUnknown,
		Label: "no data",
	}
	if night.Midpoint == nil {
		return dev
	}

	tm, err := target.MidpointFor(night.Date, loc)
	if err != nil {
		return dev
	}

	diff := night.Midpoint.Sub(tm)
	minutes := int(math.Round(diff.Minutes()))
	dev.Minutes = &minutes

	abs := diff
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= target.Tolerance():
		dev.Fit = domain.FitOnSchedule
		dev.Label = "on schedule"
	case minutes > 0:
		dev.Fit = domain.FitLater
		dev.Label = fmt.Sprintf("later by %d min", minutes)
	default:
		dev.Fit = domain.FitEarlier
		dev.Label = fmt.Sprintf("earlier by %d min", -minutes)
	}
	return dev
}

// window takes the most-recent-first prefix of the history.
func window(nights []domain.NightSummary, n int) []domain.NightSummary {
	if len(nights) > n {
		return nights[:n]
	}
	return nights
}

// midpointHours collects the non-null midpoints of the last n nights as
// decimal hours of day in the given location.
func midpointHours(nights []domain.NightSummary, n int, loc *time.Location) []float64 {
	var hours []float64
	for _, night := range window(nights, n) {
		if night.Midpoint == nil {
			continue
		}
		hours = append(hours, hourOfDay(*night.Midpoint, loc))
	}
	return hours
}

// hourOfDay converts an instant to a fractional hour of local day (0-24).
func hourOfDay(t time.Time, loc *time.Location) float64 {
	lt := t.In(loc)
	return float64(lt.Hour()) + float64(lt.Minute())/60 + float64(lt.Second())/3600
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1: the window is treated as the
// full population of interest, not a sample of one.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func clampHours(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxHourSpread {
		return maxHourSpread
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
