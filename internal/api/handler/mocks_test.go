package handler

import (
	"context"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

// MockHistoryService is a mock implementation of service.HistoryService
type MockHistoryService struct {
	nightsFunc func(ctx context.Context) ([]domain.NightSummary, error)
}

func (m *MockHistoryService) Nights(ctx context.Context) ([]domain.NightSummary, error) {
	if m.nightsFunc != nil {
		return m.nightsFunc(ctx)
	}
	return nil, nil
}

func (m *MockHistoryService) Merge(ctx context.Context, incoming []domain.NightSummary) ([]domain.NightSummary, error) {
	return incoming, nil
}

func (m *MockHistoryService) Clear(ctx context.Context) error { return nil }

func (m *MockHistoryService) Revision() uint64 { return 0 }

// MockSettingsService is a mock implementation of service.SettingsService
type MockSettingsService struct {
	getFunc    func(ctx context.Context) (domain.Settings, error)
	updateFunc func(ctx context.Context, target domain.ScheduleTarget) (domain.Settings, error)
}

func (m *MockSettingsService) Get(ctx context.Context) (domain.Settings, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx)
	}
	return domain.DefaultSettings(), nil
}

func (m *MockSettingsService) UpdateSchedule(ctx context.Context, target domain.ScheduleTarget) (domain.Settings, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, target)
	}
	return domain.Settings{Schedule: target}, nil
}

// MockSyncService is a mock implementation of service.SyncService
type MockSyncService struct {
	fetchFunc    func(ctx context.Context) (*domain.SyncResult, error)
	resyncFunc   func(ctx context.Context) (*domain.SyncResult, error)
	acceptFunc   func(ctx context.Context, sample domain.RawSample) error
	statusResult domain.SyncStatus
}

func (m *MockSyncService) IncrementalFetch(ctx context.Context) (*domain.SyncResult, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	return &domain.SyncResult{}, nil
}

func (m *MockSyncService) ForceResync(ctx context.Context) (*domain.SyncResult, error) {
	if m.resyncFunc != nil {
		return m.resyncFunc(ctx)
	}
	return &domain.SyncResult{FullResync: true}, nil
}

func (m *MockSyncService) AcceptInferred(ctx context.Context, sample domain.RawSample) error {
	if m.acceptFunc != nil {
		return m.acceptFunc(ctx, sample)
	}
	return nil
}

func (m *MockSyncService) Status(ctx context.Context) domain.SyncStatus {
	return m.statusResult
}

func (m *MockSyncService) RunPeriodic(ctx context.Context, interval time.Duration) {}

// testNight builds a fully populated summary for handler fixtures.
func testNight(date domain.NightDate) domain.NightSummary {
	day, _ := date.Time(time.UTC)
	bed := time.Date(day.Year(), day.Month(), day.Day(), 23, 0, 0, 0, time.UTC)
	wake := bed.Add(8 * time.Hour)
	mid := bed.Add(4 * time.Hour)
	inBed := 8 * time.Hour
	asleep := 7 * time.Hour
	eff := 87.5
	return domain.NightSummary{
		Date:       date,
		TimeInBed:  &inBed,
		TimeAsleep: &asleep,
		Bedtime:    &bed,
		WakeTime:   &wake,
		Midpoint:   &mid,
		Efficiency: &eff,
	}
}
