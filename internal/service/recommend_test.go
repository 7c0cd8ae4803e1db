package service

import (
	"testing"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

func TestGenerateRecommendations_NoData(t *testing.T) {
	recs := GenerateRecommendations(nil, domain.DefaultScheduleTarget(), time.UTC)
	if len(recs) != 1 {
		t.Fatalf("expected exactly one recommendation, got %d", len(recs))
	}
	r := recs[0]
	if r.Title != "Start Tracking" {
		t.Errorf("expected Start Tracking, got %q", r.Title)
	}
	if r.Category != domain.CategoryGeneral || r.Priority != domain.PriorityMedium {
		t.Errorf("unexpected category/priority: %s/%s", r.Category, r.Priority)
	}
}

func TestGenerateRecommendations_HealthyGetsPositive(t *testing.T) {
	loc := time.UTC
	// A week of textbook nights: 7h sleep, consistent 3 AM midpoint,
	// on schedule, 87.5% efficiency, 11 PM bedtime.
	var nights []domain.NightSummary
	for i := 0; i < 7; i++ {
		d := domain.NightDate(time.Date(2024, 3, 10-i, 0, 0, 0, 0, loc).Format("2006-01-02"))
		nights = append(nights, nightAt(d, 3, 0, loc))
	}

	recs := GenerateRecommendations(nights, domain.DefaultScheduleTarget(), loc)
	if len(recs) == 0 {
		t.Fatal("expected at least the positive recommendation")
	}
	if recs[0].Category != domain.CategoryPositive {
		t.Errorf("expected positive reinforcement first, got %s", recs[0].Category)
	}
	for _, r := range recs[1:] {
		if r.Priority > domain.PriorityLow {
			t.Errorf("healthy data produced %s priority %q", r.Priority, r.Title)
		}
	}
}

func TestGenerateRecommendations_ShortSleep(t *testing.T) {
	loc := time.UTC
	var nights []domain.NightSummary
	for i := 0; i < 7; i++ {
		d := domain.NightDate(time.Date(2024, 3, 10-i, 0, 0, 0, 0, loc).Format("2006-01-02"))
		n := nightAt(d, 3, 0, loc)
		n.TimeAsleep = durPtr(5 * time.Hour)
		nights = append(nights, n)
	}

	recs := GenerateRecommendations(nights, domain.DefaultScheduleTarget(), loc)
	found := false
	for _, r := range recs {
		if r.Category == domain.CategoryDuration {
			found = true
			if r.Priority != domain.PriorityHigh {
				t.Errorf("short sleep should be high priority, got %s", r.Priority)
			}
			if !r.Actionable || r.SuggestedAction == "" {
				t.Error("short sleep recommendation should be actionable")
			}
		}
		if r.Category == domain.CategoryPositive {
			t.Error("positive reinforcement must not appear alongside a high-priority item")
		}
	}
	if !found {
		t.Fatal("expected a duration recommendation")
	}
}

func TestGenerateRecommendations_PriorityOrdering(t *testing.T) {
	loc := time.UTC
	// Short sleep (high) plus mild efficiency shortfall (low).
	var nights []domain.NightSummary
	for i := 0; i < 7; i++ {
		d := domain.NightDate(time.Date(2024, 3, 10-i, 0, 0, 0, 0, loc).Format("2006-01-02"))
		n := nightAt(d, 3, 0, loc)
		n.TimeAsleep = durPtr(5 * time.Hour)
		n.Efficiency = f64Ptr(80)
		nights = append(nights, n)
	}

	recs := GenerateRecommendations(nights, domain.DefaultScheduleTarget(), loc)
	if len(recs) < 2 {
		t.Fatalf("expected multiple recommendations, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Priority > recs[i-1].Priority {
			t.Errorf("recommendations not ordered by priority: %s before %s", recs[i-1].Priority, recs[i].Priority)
		}
	}
}

func TestGenerateRecommendations_LateBedtimes(t *testing.T) {
	loc := time.UTC
	// Only bedtimes are known; every other rule lacks its inputs.
	var nights []domain.NightSummary
	for i := 0; i < 6; i++ {
		bed := time.Date(2024, 3, 10-i, 2, 15, 0, 0, loc)
		nights = append(nights, domain.NightSummary{
			Date:    domain.NightOf(bed, loc),
			Bedtime: &bed,
		})
	}

	recs := GenerateRecommendations(nights, domain.DefaultScheduleTarget(), loc)
	if len(recs) != 1 {
		t.Fatalf("expected only the bedtime recommendation, got %d: %+v", len(recs), recs)
	}
	if recs[0].Category != domain.CategoryBedtime || recs[0].Priority != domain.PriorityMedium {
		t.Errorf("unexpected recommendation: %+v", recs[0])
	}
}

func TestGenerateRecommendations_LowEfficiency(t *testing.T) {
	loc := time.UTC
	var nights []domain.NightSummary
	for i := 0; i < 5; i++ {
		d := domain.NightDate(time.Date(2024, 3, 10-i, 0, 0, 0, 0, loc).Format("2006-01-02"))
		nights = append(nights, domain.NightSummary{
			Date:       d,
			Efficiency: f64Ptr(70),
		})
	}

	recs := GenerateRecommendations(nights, domain.DefaultScheduleTarget(), loc)
	if len(recs) != 1 {
		t.Fatalf("expected only the efficiency recommendation, got %d", len(recs))
	}
	if recs[0].Category != domain.CategoryEfficiency || recs[0].Priority != domain.PriorityHigh {
		t.Errorf("unexpected recommendation: %+v", recs[0])
	}
}

func TestGenerateRecommendations_SocialJetlag(t *testing.T) {
	loc := time.UTC
	// Weekday midpoints at 3 AM, weekend at 6 AM: 3 hours of jetlag.
	var nights []domain.NightSummary
	for _, d := range []domain.NightDate{"2024-03-09", "2024-03-10"} {
		n := nightAt(d, 6, 0, loc)
		n.TimeAsleep = nil // keep the duration rule quiet
		nights = append(nights, n)
	}
	for _, d := range []domain.NightDate{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08"} {
		n := nightAt(d, 3, 0, loc)
		n.TimeAsleep = nil
		nights = append(nights, n)
	}

	recs := GenerateRecommendations(nights, domain.DefaultScheduleTarget(), loc)
	found := false
	for _, r := range recs {
		if r.Category == domain.CategoryJetlag {
			found = true
			if r.Priority != domain.PriorityHigh {
				t.Errorf("3h jetlag should be high priority, got %s", r.Priority)
			}
		}
	}
	if !found {
		t.Fatal("expected a jetlag recommendation")
	}
}
