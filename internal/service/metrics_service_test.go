package service

import (
	"context"
	"testing"
	"time"

	"github.com/nightfold/nightfold/internal/cache"
	"github.com/nightfold/nightfold/internal/domain"
	"go.uber.org/zap"
)

func newTestMetrics(state *mockStateRepository) (MetricsService, HistoryService) {
	log := zap.NewNop()
	history := NewHistoryService(state, log)
	settings := NewSettingsService(state, log)
	metrics := NewMetricsService(history, settings, cache.NewMemoryKVStore(), time.UTC, log)
	return metrics, history
}

func TestMetricsService_Compute(t *testing.T) {
	state := newMockStateRepository()
	state.history = []domain.NightSummary{
		nightAt("2024-03-05", 3, 0, time.UTC),
		nightAt("2024-03-04", 3, 0, time.UTC),
		nightAt("2024-03-03", 3, 0, time.UTC),
	}
	metrics, _ := newTestMetrics(state)

	report, err := metrics.Compute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.NightsAnalyzed != 3 {
		t.Errorf("expected 3 nights analyzed, got %d", report.NightsAnalyzed)
	}
	if report.ConsistencyHours == nil || *report.ConsistencyHours != 0 {
		t.Errorf("expected consistency 0, got %v", report.ConsistencyHours)
	}
	if report.Target != domain.DefaultScheduleTarget() {
		t.Errorf("expected default target, got %+v", report.Target)
	}
}

func TestMetricsService_CacheInvalidatedByMerge(t *testing.T) {
	state := newMockStateRepository()
	metrics, history := newTestMetrics(state)
	ctx := context.Background()

	first, err := metrics.Compute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.NightsAnalyzed != 0 {
		t.Fatalf("expected empty report, got %d nights", first.NightsAnalyzed)
	}

	// A merge bumps the revision, so the cached empty report must not
	// be served again.
	if _, err := history.Merge(ctx, []domain.NightSummary{nightAt("2024-03-05", 3, 0, time.UTC)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := metrics.Compute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.NightsAnalyzed != 1 {
		t.Errorf("expected fresh report with 1 night, got %d", second.NightsAnalyzed)
	}
}

func TestMetricsService_Deviations(t *testing.T) {
	state := newMockStateRepository()
	state.history = []domain.NightSummary{
		nightAt("2024-03-05", 3, 0, time.UTC),
		nightAt("2024-03-04", 5, 0, time.UTC),
		{Date: "2024-03-03"},
	}
	metrics, _ := newTestMetrics(state)

	devs, err := metrics.Deviations(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devs) != 2 {
		t.Fatalf("expected 2 deviations, got %d", len(devs))
	}
	if devs[0].Fit != domain.FitOnSchedule {
		t.Errorf("expected first night on schedule, got %s", devs[0].Fit)
	}
	if devs[1].Fit != domain.FitLater {
		t.Errorf("expected second night later, got %s", devs[1].Fit)
	}

	// Zero limit means everything, including the no-data night.
	devs, err = metrics.Deviations(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devs) != 3 {
		t.Fatalf("expected 3 deviations, got %d", len(devs))
	}
	if devs[2].Fit != domain.FitUnknown {
		t.Errorf("expected unknown fit for the empty night, got %s", devs[2].Fit)
	}
}

func TestSettingsService_UpdateSchedule(t *testing.T) {
	state := newMockStateRepository()
	svc := NewSettingsService(state, zap.NewNop())
	ctx := context.Background()

	settings, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Schedule != domain.DefaultScheduleTarget() {
		t.Errorf("expected default schedule, got %+v", settings.Schedule)
	}

	target := domain.ScheduleTarget{BedtimeHour: 22, BedtimeMinute: 30, WakeHour: 6, WakeMinute: 15, ToleranceMinutes: 45}
	updated, err := svc.UpdateSchedule(ctx, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Schedule != target {
		t.Errorf("expected updated schedule, got %+v", updated.Schedule)
	}

	// Survives a reload
	settings, _ = svc.Get(ctx)
	if settings.Schedule != target {
		t.Errorf("expected persisted schedule, got %+v", settings.Schedule)
	}
}
