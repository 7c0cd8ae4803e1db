package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nightfold/nightfold/internal/cache"
	"github.com/nightfold/nightfold/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// metricsCacheTTL caps cached reports; revision keys already invalidate
// on every history mutation, the TTL just bounds stale entries.
const metricsCacheTTL = 10 * time.Minute

// MetricsService computes longitudinal metrics over the night history.
type MetricsService interface {
	// Compute returns the metrics report for the current history and
	// schedule target.
	Compute(ctx context.Context) (*domain.MetricsReport, error)
	// Deviations returns the per-night schedule deviation for the most
	// recent nights, up to limit.
	Deviations(ctx context.Context, limit int) ([]domain.NightDeviation, error)
}

type metricsService struct {
	history  HistoryService
	settings SettingsService
	cache    cache.KVStore
	loc      *time.Location
	log      *zap.Logger

	// instanceID scopes cache keys to this process; revisions restart
	// at zero on boot, so keys from a previous run must not collide.
	instanceID string
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(history HistoryService, settings SettingsService, kv cache.KVStore, loc *time.Location, log *zap.Logger) MetricsService {
	return &metricsService{
		history:    history,
		settings:   settings,
		cache:      kv,
		loc:        loc,
		log:        log,
		instanceID: uuid.NewString(),
	}
}

func (s *metricsService) Compute(ctx context.Context) (*domain.MetricsReport, error) {
	tracer := otel.Tracer("nightfold/metrics")
	ctx, span := tracer.Start(ctx, "MetricsService.Compute")
	defer span.End()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	target := settings.Schedule

	key := s.cacheKey(target)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var report domain.MetricsReport
		if err := json.Unmarshal([]byte(raw), &report); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &report, nil
		}
	}

	nights, err := s.history.Nights(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("cache.hit", false),
		attribute.Int("nights.count", len(nights)),
	)

	report := ComputeMetrics(nights, target, s.loc)

	if raw, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), metricsCacheTTL); err != nil {
			s.log.Debug("metrics cache write failed", zap.Error(err))
		}
	}
	return &report, nil
}

func (s *metricsService) Deviations(ctx context.Context, limit int) ([]domain.NightDeviation, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	nights, err := s.history.Nights(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > len(nights) {
		limit = len(nights)
	}

	deviations := make([]domain.NightDeviation, 0, limit)
	for _, n := range nights[:limit] {
		deviations = append(deviations, DeviationFor(n, settings.Schedule, s.loc))
	}
	return deviations, nil
}

func (s *metricsService) cacheKey(target domain.ScheduleTarget) string {
	return fmt.Sprintf("metrics:%s:%d:%02d%02d-%02d%02d-%d",
		s.instanceID,
		s.history.Revision(),
		target.BedtimeHour, target.BedtimeMinute,
		target.WakeHour, target.WakeMinute,
		target.ToleranceMinutes,
	)
}
