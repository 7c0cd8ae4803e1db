package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/healthsource"
	"github.com/nightfold/nightfold/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultLookbackDays bounds how far back an incremental fetch asks the
// source for samples.
const DefaultLookbackDays = 180

// SyncService is the incremental fetch coordinator. It owns the sync
// cursor and drives aggregation passes: fetch samples since the cursor,
// aggregate them into nights, merge into history, then persist the new
// cursor. Only one fetch is in flight at a time.
type SyncService interface {
	// IncrementalFetch runs one fetch pass. Returns
	// domain.ErrSyncInProgress when a pass is already running.
	IncrementalFetch(ctx context.Context) (*domain.SyncResult, error)
	// ForceResync discards the cursor and the entire history, then
	// performs a full fetch. This is the recovery path for merge
	// anomalies. Unlike IncrementalFetch it is not rejected while a
	// fetch is in flight: it supersedes it, and the superseded pass
	// discards its result.
	ForceResync(ctx context.Context) (*domain.SyncResult, error)
	// AcceptInferred writes an inferred-sleep candidate back to the
	// source and kicks a fetch so it lands in the history.
	AcceptInferred(ctx context.Context, sample domain.RawSample) error
	// Status reports the coordinator state.
	Status(ctx context.Context) domain.SyncStatus
	// RunPeriodic re-triggers IncrementalFetch on the interval until
	// ctx is done. Ticks landing during an in-flight fetch are ignored.
	RunPeriodic(ctx context.Context, interval time.Duration)
}

type syncService struct {
	source       healthsource.Source
	history      HistoryService
	state        repository.StateRepository
	loc          *time.Location
	lookbackDays int
	log          *zap.Logger

	// mu is the single-flight guard; generation invalidates passes
	// superseded by a resync.
	mu         sync.Mutex
	generation atomic.Uint64
	busy       atomic.Bool

	statusMu sync.Mutex
	status   domain.SyncStatus
}

// NewSyncService creates the fetch coordinator. lookbackDays <= 0
// selects the default window.
func NewSyncService(source healthsource.Source, history HistoryService, state repository.StateRepository, loc *time.Location, lookbackDays int, log *zap.Logger) SyncService {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &syncService{
		source:       source,
		history:      history,
		state:        state,
		loc:          loc,
		lookbackDays: lookbackDays,
		log:          log,
	}
}

func (s *syncService) IncrementalFetch(ctx context.Context) (*domain.SyncResult, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	return s.fetchPass(ctx, false)
}

func (s *syncService) ForceResync(ctx context.Context) (*domain.SyncResult, error) {
	// Invalidate any in-flight pass before waiting for the lock: its
	// result arrives against a stale generation and is discarded.
	s.generation.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reset state before fetching so even a failed fetch leaves the
	// documented recovery state (no cursor, no history) rather than a
	// half-cleared mix.
	if err := s.state.ClearCursor(ctx); err != nil {
		return nil, err
	}
	if err := s.history.Clear(ctx); err != nil {
		return nil, err
	}
	s.log.Info("force resync: cursor and history discarded")

	result, err := s.fetchPass(ctx, true)
	if result != nil {
		result.FullResync = true
	}
	return result, err
}

func (s *syncService) fetchPass(ctx context.Context, fullResync bool) (*domain.SyncResult, error) {
	tracer := otel.Tracer("nightfold/sync")
	ctx, span := tracer.Start(ctx, "SyncService.fetchPass")
	defer span.End()
	span.SetAttributes(attribute.Bool("sync.full_resync", fullResync))

	s.busy.Store(true)
	defer s.busy.Store(false)

	gen := s.generation.Load()

	authorized, err := s.source.Authorized(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	if !authorized {
		return nil, s.fail(domain.ErrPermissionDenied)
	}

	cursor, err := s.state.LoadCursor(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	end := time.Now().In(s.loc)
	start := end.AddDate(0, 0, -s.lookbackDays)

	res, err := s.source.Query(ctx, start, end, cursor)
	if err != nil {
		// History and cursor are untouched; the next trigger retries.
		return nil, s.fail(err)
	}

	// A resync issued while the query was in flight wins: this pass's
	// samples were fetched against discarded state.
	if s.generation.Load() != gen {
		s.log.Warn("discarding fetch result superseded by resync")
		return &domain.SyncResult{Superseded: true}, nil
	}

	nights := AggregateSamples(res.Samples, s.loc)
	if len(nights) > 0 {
		if _, err := s.history.Merge(ctx, nights); err != nil {
			return nil, s.fail(err)
		}
	}

	// The cursor is persisted only after the merge landed; a crash
	// between the two refetches data rather than losing it.
	if res.NewCursor != "" {
		if err := s.state.SaveCursor(ctx, res.NewCursor); err != nil {
			return nil, s.fail(err)
		}
	}

	span.SetAttributes(
		attribute.Int("sync.samples", len(res.Samples)),
		attribute.Int("sync.nights", len(nights)),
	)

	now := time.Now()
	s.setStatus(func(st *domain.SyncStatus) {
		st.LastSyncAt = &now
		st.LastError = ""
		st.LastMerged = len(nights)
	})
	s.log.Info("sync pass complete",
		zap.Int("samples", len(res.Samples)),
		zap.Int("nights_merged", len(nights)),
		zap.Bool("full_resync", fullResync),
	)

	return &domain.SyncResult{
		SamplesFetched: len(res.Samples),
		NightsMerged:   len(nights),
	}, nil
}

func (s *syncService) AcceptInferred(ctx context.Context, sample domain.RawSample) error {
	if !sample.Valid() {
		return domain.ErrInvalidInput
	}

	sample.Source.Inferred = true
	if sample.Source.SampleID == uuid.Nil {
		sample.Source.SampleID = uuid.New()
	}

	if err := s.source.WriteSample(ctx, sample); err != nil {
		return err
	}

	// Pull the written sample back through the normal pipeline so the
	// night is re-aggregated with everything else the source holds.
	if _, err := s.IncrementalFetch(ctx); err != nil && !errors.Is(err, domain.ErrSyncInProgress) {
		return err
	}
	return nil
}

func (s *syncService) Status(ctx context.Context) domain.SyncStatus {
	s.statusMu.Lock()
	status := s.status
	s.statusMu.Unlock()

	status.Busy = s.busy.Load()
	if cursor, err := s.state.LoadCursor(ctx); err == nil {
		status.CursorSet = cursor != ""
	}
	return status
}

func (s *syncService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.IncrementalFetch(ctx); err != nil {
				if errors.Is(err, domain.ErrSyncInProgress) {
					s.log.Debug("periodic sync skipped, fetch already in flight")
					continue
				}
				s.log.Warn("periodic sync failed", zap.Error(err))
			}
		}
	}
}

func (s *syncService) fail(err error) error {
	s.setStatus(func(st *domain.SyncStatus) {
		st.LastError = err.Error()
	})
	return err
}

func (s *syncService) setStatus(mutate func(*domain.SyncStatus)) {
	s.statusMu.Lock()
	mutate(&s.status)
	s.statusMu.Unlock()
}
