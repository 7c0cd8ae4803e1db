package service

import (
	"context"
	"sync/atomic"

	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/repository"
	"go.uber.org/zap"
)

// HistoryService owns the persisted night history. All mutation goes
// through Merge or Clear, and every mutation bumps the revision so
// cached derivations can be invalidated.
type HistoryService interface {
	// Nights returns the history, most recent first.
	Nights(ctx context.Context) ([]domain.NightSummary, error)
	// Merge folds freshly aggregated nights into the history and
	// persists the result.
	Merge(ctx context.Context, incoming []domain.NightSummary) ([]domain.NightSummary, error)
	// Clear discards the history entirely.
	Clear(ctx context.Context) error
	// Revision increases monotonically with each mutation.
	Revision() uint64
}

type historyService struct {
	state repository.StateRepository
	log   *zap.Logger
	rev   atomic.Uint64
}

// NewHistoryService creates a HistoryService over the state repository.
func NewHistoryService(state repository.StateRepository, log *zap.Logger) HistoryService {
	return &historyService{state: state, log: log}
}

func (s *historyService) Nights(ctx context.Context) ([]domain.NightSummary, error) {
	return s.state.LoadHistory(ctx)
}

func (s *historyService) Merge(ctx context.Context, incoming []domain.NightSummary) ([]domain.NightSummary, error) {
	existing, err := s.state.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	merged := MergeNights(existing, incoming)
	if err := s.state.SaveHistory(ctx, merged); err != nil {
		return nil, err
	}
	s.rev.Add(1)

	s.log.Info("merged nights into history",
		zap.Int("incoming", len(incoming)),
		zap.Int("total", len(merged)),
	)
	return merged, nil
}

func (s *historyService) Clear(ctx context.Context) error {
	if err := s.state.ClearHistory(ctx); err != nil {
		return err
	}
	s.rev.Add(1)
	s.log.Info("night history cleared")
	return nil
}

func (s *historyService) Revision() uint64 {
	return s.rev.Load()
}
