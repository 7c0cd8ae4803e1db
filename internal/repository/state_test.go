package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
	"go.uber.org/zap"
)

// memBlobStore is an in-memory BlobStore for tests.
type memBlobStore struct {
	data map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{data: make(map[string][]byte)}
}

func (m *memBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

func (m *memBlobStore) Put(ctx context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memBlobStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestStateRepositoryHistoryRoundTrip(t *testing.T) {
	repo := NewStateRepository(newMemBlobStore(), zap.NewNop())
	ctx := context.Background()

	bedtime := time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC)
	inBed := 8 * time.Hour
	nights := []domain.NightSummary{
		{Date: domain.NightDate("2024-03-04"), Bedtime: &bedtime, TimeInBed: &inBed},
	}

	if err := repo.SaveHistory(ctx, nights); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}

	loaded, err := repo.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("LoadHistory() returned %d nights, want 1", len(loaded))
	}
	if loaded[0].Date != nights[0].Date {
		t.Errorf("Date = %v, want %v", loaded[0].Date, nights[0].Date)
	}
	if loaded[0].TimeInBed == nil || *loaded[0].TimeInBed != inBed {
		t.Errorf("TimeInBed = %v, want %v", loaded[0].TimeInBed, inBed)
	}
	if loaded[0].Bedtime == nil || !loaded[0].Bedtime.Equal(bedtime) {
		t.Errorf("Bedtime = %v, want %v", loaded[0].Bedtime, bedtime)
	}
}

func TestStateRepositoryMissingBlobsDefaultEmpty(t *testing.T) {
	repo := NewStateRepository(newMemBlobStore(), zap.NewNop())
	ctx := context.Background()

	nights, err := repo.LoadHistory(ctx)
	if err != nil || nights != nil {
		t.Errorf("LoadHistory() = (%v, %v), want (nil, nil)", nights, err)
	}

	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if settings != domain.DefaultSettings() {
		t.Errorf("LoadSettings() = %+v, want defaults", settings)
	}

	cursor, err := repo.LoadCursor(ctx)
	if err != nil || cursor != "" {
		t.Errorf("LoadCursor() = (%q, %v), want empty", cursor, err)
	}
}

func TestStateRepositoryCorruptBlobsDefaultEmpty(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.data[historyKey] = []byte("{not json")
	blobs.data[settingsKey] = []byte("also not json")

	repo := NewStateRepository(blobs, zap.NewNop())
	ctx := context.Background()

	nights, err := repo.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v, corrupt state must not be fatal", err)
	}
	if nights != nil {
		t.Errorf("LoadHistory() = %v, want nil for corrupt blob", nights)
	}

	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v, corrupt state must not be fatal", err)
	}
	if settings != domain.DefaultSettings() {
		t.Errorf("LoadSettings() = %+v, want defaults for corrupt blob", settings)
	}
}

func TestStateRepositoryCursorRoundTrip(t *testing.T) {
	repo := NewStateRepository(newMemBlobStore(), zap.NewNop())
	ctx := context.Background()

	// The cursor is opaque; arbitrary bytes must survive verbatim.
	if err := repo.SaveCursor(ctx, "anchor:xyz==/41"); err != nil {
		t.Fatalf("SaveCursor() error = %v", err)
	}
	cursor, err := repo.LoadCursor(ctx)
	if err != nil {
		t.Fatalf("LoadCursor() error = %v", err)
	}
	if cursor != "anchor:xyz==/41" {
		t.Errorf("LoadCursor() = %q, want original cursor", cursor)
	}

	if err := repo.ClearCursor(ctx); err != nil {
		t.Fatalf("ClearCursor() error = %v", err)
	}
	cursor, err = repo.LoadCursor(ctx)
	if err != nil || cursor != "" {
		t.Errorf("LoadCursor() after clear = (%q, %v), want empty", cursor, err)
	}
}
