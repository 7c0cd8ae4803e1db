package service

import (
	"context"

	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/repository"
	"go.uber.org/zap"
)

// SettingsService owns the persisted settings blob, currently just the
// schedule target. Settings are saved on every update.
type SettingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	UpdateSchedule(ctx context.Context, target domain.ScheduleTarget) (domain.Settings, error)
}

type settingsService struct {
	state repository.StateRepository
	log   *zap.Logger
}

// NewSettingsService creates a SettingsService over the state repository.
func NewSettingsService(state repository.StateRepository, log *zap.Logger) SettingsService {
	return &settingsService{state: state, log: log}
}

func (s *settingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.state.LoadSettings(ctx)
}

func (s *settingsService) UpdateSchedule(ctx context.Context, target domain.ScheduleTarget) (domain.Settings, error) {
	settings, err := s.state.LoadSettings(ctx)
	if err != nil {
		return settings, err
	}

	settings.Schedule = target
	if err := s.state.SaveSettings(ctx, settings); err != nil {
		return settings, err
	}

	s.log.Info("schedule target updated",
		zap.Int("bedtime_hour", target.BedtimeHour),
		zap.Int("wake_hour", target.WakeHour),
		zap.Int("tolerance_minutes", target.ToleranceMinutes),
	)
	return settings, nil
}
