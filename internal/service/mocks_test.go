package service

import (
	"context"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/healthsource"
)

// mockStateRepository is an in-memory StateRepository.
type mockStateRepository struct {
	history  []domain.NightSummary
	settings *domain.Settings
	cursor   string

	historyErr  error
	settingsErr error
	cursorErr   error

	savedHistoryCalls int
	savedCursorCalls  int
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{}
}

func (m *mockStateRepository) LoadHistory(ctx context.Context) ([]domain.NightSummary, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

func (m *mockStateRepository) SaveHistory(ctx context.Context, nights []domain.NightSummary) error {
	if m.historyErr != nil {
		return m.historyErr
	}
	m.history = nights
	m.savedHistoryCalls++
	return nil
}

func (m *mockStateRepository) ClearHistory(ctx context.Context) error {
	if m.historyErr != nil {
		return m.historyErr
	}
	m.history = nil
	return nil
}

func (m *mockStateRepository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	if m.settingsErr != nil {
		return domain.DefaultSettings(), m.settingsErr
	}
	if m.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *mockStateRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	if m.settingsErr != nil {
		return m.settingsErr
	}
	m.settings = &settings
	return nil
}

func (m *mockStateRepository) LoadCursor(ctx context.Context) (string, error) {
	if m.cursorErr != nil {
		return "", m.cursorErr
	}
	return m.cursor, nil
}

func (m *mockStateRepository) SaveCursor(ctx context.Context, cursor string) error {
	if m.cursorErr != nil {
		return m.cursorErr
	}
	m.cursor = cursor
	m.savedCursorCalls++
	return nil
}

func (m *mockStateRepository) ClearCursor(ctx context.Context) error {
	if m.cursorErr != nil {
		return m.cursorErr
	}
	m.cursor = ""
	return nil
}

// mockSource is a scriptable healthsource.Source.
type mockSource struct {
	authorized    bool
	authorizedErr error

	queryResult *healthsource.QueryResult
	queryErr    error
	queryCalls  int
	lastCursor  string

	// onQuery runs before Query returns, letting tests interleave a
	// resync with an in-flight fetch.
	onQuery func()

	written  []domain.RawSample
	writeErr error
}

func newMockSource() *mockSource {
	return &mockSource{
		authorized:  true,
		queryResult: &healthsource.QueryResult{},
	}
}

func (m *mockSource) Authorized(ctx context.Context) (bool, error) {
	if m.authorizedErr != nil {
		return false, m.authorizedErr
	}
	return m.authorized, nil
}

func (m *mockSource) Query(ctx context.Context, start, end time.Time, cursor string) (*healthsource.QueryResult, error) {
	m.queryCalls++
	m.lastCursor = cursor
	if m.onQuery != nil {
		m.onQuery()
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.queryResult, nil
}

func (m *mockSource) WriteSample(ctx context.Context, sample domain.RawSample) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, sample)
	return nil
}

// Pointer helpers for building summaries in tests.

func durPtr(d time.Duration) *time.Duration { return &d }

func f64Ptr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

// nightAt builds a summary whose midpoint lands at the given local
// clock time on the night's own date plus one day (a typical
// past-midnight midpoint).
func nightAt(date domain.NightDate, midHour, midMinute int, loc *time.Location) domain.NightSummary {
	day, err := date.Time(loc)
	if err != nil {
		panic(err)
	}
	mid := time.Date(day.Year(), day.Month(), day.Day(), midHour, midMinute, 0, 0, loc).AddDate(0, 0, 1)
	bed := mid.Add(-4 * time.Hour)
	wake := mid.Add(4 * time.Hour)
	return domain.NightSummary{
		Date:       date,
		TimeInBed:  durPtr(8 * time.Hour),
		TimeAsleep: durPtr(7 * time.Hour),
		Bedtime:    &bed,
		WakeTime:   &wake,
		Midpoint:   &mid,
		Efficiency: f64Ptr(87.5),
	}
}
