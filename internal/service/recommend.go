package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

const (
	// RecommendationWindowNights is the lookback for the rule engine.
	RecommendationWindowNights = 14
	// recConsistencyMinMidpoints is the minimum midpoints the
	// recommendation consistency rule needs. Deliberately stricter than
	// the dashboard's 3-of-7: recommendation text is more conservative.
	recConsistencyMinMidpoints = 5

	shortSleepHours     = 6.5
	longSleepHours      = 9.5
	highVariabilityHrs  = 2.0
	mildVariabilityHrs  = 1.0
	poorAdherencePct    = 50.0
	fairAdherencePct    = 75.0
	lowEfficiencyPct    = 75.0
	okEfficiencyPct     = 85.0
	lateBedtimeFromHour = 1
	lateBedtimeToHour   = 6
)

// GenerateRecommendations runs the rule engine over the most recent 14
// nights. Stateless and deterministic: each rule independently
// contributes a recommendation or nothing, results are ordered by
// priority descending, and a positive-reinforcement item is prepended
// when nothing above Low priority was produced.
func GenerateRecommendations(nights []domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) []domain.Recommendation {
	if len(nights) == 0 {
		return []domain.Recommendation{startTrackingRecommendation()}
	}

	recent := window(nights, RecommendationWindowNights)

	var recs []domain.Recommendation
	appendIf := func(r *domain.Recommendation) {
		if r != nil {
			recs = append(recs, *r)
		}
	}

	appendIf(checkDuration(recent))
	appendIf(checkConsistency(recent, loc))
	appendIf(checkAdherence(recent, target, loc))
	appendIf(checkEfficiency(recent))
	appendIf(checkJetlag(recent, loc))
	appendIf(checkBedtimePattern(recent, loc))

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})

	if allLowPriority(recs) {
		recs = append([]domain.Recommendation{positiveRecommendation()}, recs...)
	}
	return recs
}

func startTrackingRecommendation() domain.Recommendation {
	return domain.Recommendation{
		Category:        domain.CategoryGeneral,
		Priority:        domain.PriorityMedium,
		Title:           "Start Tracking",
		Description:     "No sleep data yet. Once a few nights have been recorded, personalized guidance will appear here.",
		Actionable:      true,
		SuggestedAction: "Wear your device tonight and sync tomorrow morning.",
	}
}

func positiveRecommendation() domain.Recommendation {
	return domain.Recommendation{
		Category:    domain.CategoryPositive,
		Priority:    domain.PriorityLow,
		Title:       "Great Sleep Habits",
		Description: "Your recent nights look healthy across duration, consistency and efficiency. Keep doing what you're doing.",
		Actionable:  false,
	}
}

func allLowPriority(recs []domain.Recommendation) bool {
	for _, r := range recs {
		if r.Priority > domain.PriorityLow {
			return false
		}
	}
	return true
}

func checkDuration(nights []domain.NightSummary) *domain.Recommendation {
	var hours []float64
	for _, n := range nights {
		if n.TimeAsleep != nil {
			hours = append(hours, n.TimeAsleep.Hours())
		}
	}
	if len(hours) == 0 {
		return nil
	}

	avg := mean(hours)
	switch {
	case avg < shortSleepHours:
		return &domain.Recommendation{
			Category:        domain.CategoryDuration,
			Priority:        domain.PriorityHigh,
			Title:           "Increase Sleep Duration",
			Description:     fmt.Sprintf("You averaged %.1f hours of sleep over the last %d nights, below the recommended 7-9 hours.", avg, len(nights)),
			Actionable:      true,
			SuggestedAction: "Move your bedtime 30 minutes earlier this week.",
		}
	case avg > longSleepHours:
		return &domain.Recommendation{
			Category:    domain.CategoryDuration,
			Priority:    domain.PriorityMedium,
			Title:       "Monitor Oversleeping",
			Description: fmt.Sprintf("You averaged %.1f hours of sleep, above the typical 7-9 hour range. Consistently long sleep can signal poor sleep quality.", avg),
			Actionable:  false,
		}
	}
	return nil
}

func checkConsistency(nights []domain.NightSummary, loc *time.Location) *domain.Recommendation {
	hours := midpointHours(nights, RecommendationWindowNights, loc)
	if len(hours) < recConsistencyMinMidpoints {
		return nil
	}

	std := populationStdDev(hours)
	switch {
	case std > highVariabilityHrs:
		return &domain.Recommendation{
			Category:        domain.CategoryConsistency,
			Priority:        domain.PriorityHigh,
			Title:           "Stabilize Your Sleep Schedule",
			Description:     fmt.Sprintf("Your sleep midpoint varied by %.1f hours over the last two weeks. Irregular timing disrupts your circadian rhythm.", std),
			Actionable:      true,
			SuggestedAction: "Pick a fixed bedtime and wake time and hold them for a week.",
		}
	case std > mildVariabilityHrs:
		return &domain.Recommendation{
			Category:        domain.CategoryConsistency,
			Priority:        domain.PriorityMedium,
			Title:           "Tighten Your Sleep Timing",
			Description:     fmt.Sprintf("Your sleep midpoint varied by %.1f hours recently. Aim to keep it within about an hour.", std),
			Actionable:      true,
			SuggestedAction: "Set a wind-down reminder an hour before your target bedtime.",
		}
	}
	return nil
}

func checkAdherence(nights []domain.NightSummary, target domain.ScheduleTarget, loc *time.Location) *domain.Recommendation {
	usable := 0
	onSchedule := 0
	for _, n := range nights {
		dev := DeviationFor(n, target, loc)
		if dev.Minutes == nil {
			continue
		}
		usable++
		if dev.Fit == domain.FitOnSchedule {
			onSchedule++
		}
	}
	if usable == 0 {
		return nil
	}

	pct := float64(onSchedule) / float64(usable) * 100
	switch {
	case pct < poorAdherencePct:
		return &domain.Recommendation{
			Category:        domain.CategorySchedule,
			Priority:        domain.PriorityHigh,
			Title:           "Get Back on Schedule",
			Description:     fmt.Sprintf("Only %.0f%% of your recent nights matched your target schedule.", pct),
			Actionable:      true,
			SuggestedAction: "Review whether your target bedtime is realistic for your routine.",
		}
	case pct < fairAdherencePct:
		return &domain.Recommendation{
			Category:    domain.CategorySchedule,
			Priority:    domain.PriorityMedium,
			Title:       "Improve Schedule Adherence",
			Description: fmt.Sprintf("%.0f%% of your recent nights matched your target schedule. A little more regularity will compound.", pct),
			Actionable:  true,
		}
	}
	return nil
}

func checkEfficiency(nights []domain.NightSummary) *domain.Recommendation {
	var values []float64
	for _, n := range nights {
		if n.Efficiency != nil {
			values = append(values, *n.Efficiency)
		}
	}
	if len(values) == 0 {
		return nil
	}

	avg := mean(values)
	switch {
	case avg < lowEfficiencyPct:
		return &domain.Recommendation{
			Category:        domain.CategoryEfficiency,
			Priority:        domain.PriorityHigh,
			Title:           "Improve Sleep Efficiency",
			Description:     fmt.Sprintf("Your average sleep efficiency was %.0f%%, meaning a large share of time in bed was spent awake.", avg),
			Actionable:      true,
			SuggestedAction: "Only go to bed when sleepy, and get up if you can't fall asleep within 20 minutes.",
		}
	case avg < okEfficiencyPct:
		return &domain.Recommendation{
			Category:    domain.CategoryEfficiency,
			Priority:    domain.PriorityLow,
			Title:       "Watch Sleep Efficiency",
			Description: fmt.Sprintf("Your average sleep efficiency was %.0f%%, slightly below the healthy 85%% mark.", avg),
			Actionable:  false,
		}
	}
	return nil
}

func checkJetlag(nights []domain.NightSummary, loc *time.Location) *domain.Recommendation {
	gap := socialJetlagRaw(nights, loc)
	if gap == nil {
		return nil
	}

	switch {
	case *gap > highVariabilityHrs:
		return &domain.Recommendation{
			Category:        domain.CategoryJetlag,
			Priority:        domain.PriorityHigh,
			Title:           "Reduce Social Jetlag",
			Description:     fmt.Sprintf("Your weekend sleep timing shifts %.1f hours from weekdays, comparable to flying across time zones twice a week.", *gap),
			Actionable:      true,
			SuggestedAction: "Keep weekend wake times within an hour of weekdays.",
		}
	case *gap > mildVariabilityHrs:
		return &domain.Recommendation{
			Category:    domain.CategoryJetlag,
			Priority:    domain.PriorityMedium,
			Title:       "Mind Weekend Sleep Timing",
			Description: fmt.Sprintf("Your weekend sleep timing shifts %.1f hours from weekdays.", *gap),
			Actionable:  true,
		}
	}
	return nil
}

// checkBedtimePattern flags habitual very late bedtimes: more than half
// of the considered nights starting between 1 AM and 6 AM.
func checkBedtimePattern(nights []domain.NightSummary, loc *time.Location) *domain.Recommendation {
	late := 0
	for _, n := range nights {
		if n.Bedtime == nil {
			continue
		}
		h := n.Bedtime.In(loc).Hour()
		if h >= lateBedtimeFromHour && h < lateBedtimeToHour {
			late++
		}
	}

	if late*2 <= len(nights) {
		return nil
	}
	return &domain.Recommendation{
		Category:        domain.CategoryBedtime,
		Priority:        domain.PriorityMedium,
		Title:           "Shift to an Earlier Bedtime",
		Description:     fmt.Sprintf("%d of your last %d nights started after 1 AM. Very late bedtimes compress restorative sleep.", late, len(nights)),
		Actionable:      true,
		SuggestedAction: "Wind down 30 minutes earlier each night until your bedtime is before 1 AM.",
	}
}
