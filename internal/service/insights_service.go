package service

import (
	"context"

	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/llm"
)

// InsightsService generates an LLM narrative over the recent nights,
// the longitudinal metrics, and the rule-derived recommendations.
type InsightsService interface {
	Generate(ctx context.Context) (*domain.InsightsResponse, error)
}

type insightsService struct {
	history         HistoryService
	metrics         MetricsService
	recommendations RecommendationService
	llmClient       llm.InsightsLLM
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(history HistoryService, metrics MetricsService, recommendations RecommendationService, llmClient llm.InsightsLLM) InsightsService {
	return &insightsService{
		history:         history,
		metrics:         metrics,
		recommendations: recommendations,
		llmClient:       llmClient,
	}
}

func (s *insightsService) Generate(ctx context.Context) (*domain.InsightsResponse, error) {
	nights, err := s.history.Nights(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.metrics.Compute(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.recommendations.Generate(ctx)
	if err != nil {
		return nil, err
	}

	recent := window(nights, RecommendationWindowNights)
	responses := make([]domain.NightResponse, 0, len(recent))
	for _, n := range recent {
		responses = append(responses, n.ToResponse())
	}

	insightsCtx := &domain.InsightsContext{
		Nights:          responses,
		Metrics:         *report,
		Recommendations: recs,
	}

	llmOutput, err := s.llmClient.GenerateInsights(ctx, insightsCtx)
	if err != nil {
		return nil, err
	}

	return &domain.InsightsResponse{
		Metrics:         *report,
		Recommendations: recs,
		Insights:        *llmOutput,
	}, nil
}
