package service

import (
	"context"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
	"go.uber.org/zap"
)

// RecommendationService runs the rule engine against the persisted
// history and current schedule target.
type RecommendationService interface {
	Generate(ctx context.Context) ([]domain.Recommendation, error)
}

type recommendationService struct {
	history  HistoryService
	settings SettingsService
	loc      *time.Location
	log      *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(history HistoryService, settings SettingsService, loc *time.Location, log *zap.Logger) RecommendationService {
	return &recommendationService{
		history:  history,
		settings: settings,
		loc:      loc,
		log:      log,
	}
}

func (s *recommendationService) Generate(ctx context.Context) ([]domain.Recommendation, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	nights, err := s.history.Nights(ctx)
	if err != nil {
		return nil, err
	}

	recs := GenerateRecommendations(nights, settings.Schedule, s.loc)
	s.log.Debug("generated recommendations",
		zap.Int("nights", len(nights)),
		zap.Int("recommendations", len(recs)),
	)
	return recs, nil
}
