package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nightfold/nightfold/internal/domain"
	"go.uber.org/zap"
)

const (
	historyKey  = "night_history"
	settingsKey = "settings"
	cursorKey   = "sync_cursor"
)

// StateRepository wraps the blob store with typed accessors for the
// three persisted blobs. Missing or corrupt blobs load as their empty
// value, never as an error: a damaged store must not block startup.
type StateRepository interface {
	LoadHistory(ctx context.Context) ([]domain.NightSummary, error)
	SaveHistory(ctx context.Context, nights []domain.NightSummary) error
	ClearHistory(ctx context.Context) error

	LoadSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error

	LoadCursor(ctx context.Context) (string, error)
	SaveCursor(ctx context.Context, cursor string) error
	ClearCursor(ctx context.Context) error
}

type stateRepository struct {
	blobs BlobStore
	log   *zap.Logger
}

// NewStateRepository creates a StateRepository over the given blob store.
func NewStateRepository(blobs BlobStore, log *zap.Logger) StateRepository {
	return &stateRepository{blobs: blobs, log: log}
}

func (r *stateRepository) LoadHistory(ctx context.Context) ([]domain.NightSummary, error) {
	raw, err := r.blobs.Get(ctx, historyKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var nights []domain.NightSummary
	if err := json.Unmarshal(raw, &nights); err != nil {
		r.log.Warn("corrupt night history blob, starting empty", zap.Error(err))
		return nil, nil
	}
	return nights, nil
}

func (r *stateRepository) SaveHistory(ctx context.Context, nights []domain.NightSummary) error {
	raw, err := json.Marshal(nights)
	if err != nil {
		return err
	}
	return r.blobs.Put(ctx, historyKey, raw)
}

func (r *stateRepository) ClearHistory(ctx context.Context) error {
	return r.blobs.Delete(ctx, historyKey)
}

func (r *stateRepository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	raw, err := r.blobs.Get(ctx, settingsKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.DefaultSettings(), err
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		r.log.Warn("corrupt settings blob, using defaults", zap.Error(err))
		return domain.DefaultSettings(), nil
	}
	return settings, nil
}

func (r *stateRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.blobs.Put(ctx, settingsKey, raw)
}

// LoadCursor returns the opaque sync cursor, empty when none is stored.
// The cursor is stored verbatim; its contents belong to the source.
func (r *stateRepository) LoadCursor(ctx context.Context) (string, error) {
	raw, err := r.blobs.Get(ctx, cursorKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(raw), nil
}

func (r *stateRepository) SaveCursor(ctx context.Context, cursor string) error {
	return r.blobs.Put(ctx, cursorKey, []byte(cursor))
}

func (r *stateRepository) ClearCursor(ctx context.Context) error {
	return r.blobs.Delete(ctx, cursorKey)
}
