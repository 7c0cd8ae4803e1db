// Nightfold API
//
// Night aggregation engine for interval-based sleep data.
//
//	@title			Nightfold API
//	@version		1.0
//	@description	Aggregates raw sleep samples into per-night summaries with longitudinal metrics, recommendations, and incremental source sync.
//
//	@BasePath	/v1
//
//	@tag.name			nights
//	@tag.description	Per-night summary endpoints
//
//	@tag.name			insights
//	@tag.description	Metrics, recommendations, and LLM insights
//
//	@tag.name			settings
//	@tag.description	Schedule target configuration
//
//	@tag.name			sync
//	@tag.description	Health source fetch coordination
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/nightfold/nightfold/internal/api"
	"github.com/nightfold/nightfold/internal/api/handler"
	"github.com/nightfold/nightfold/internal/cache"
	"github.com/nightfold/nightfold/internal/config"
	"github.com/nightfold/nightfold/internal/healthsource"
	"github.com/nightfold/nightfold/internal/llm"
	"github.com/nightfold/nightfold/internal/repository"
	"github.com/nightfold/nightfold/internal/service"
	"github.com/nightfold/nightfold/internal/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (no-op unless OTLP_ENDPOINT is set)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "nightfold-api")
	if err != nil {
		logger.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&repository.Blob{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed")

	// Metrics cache: Redis when configured, in-process otherwise
	var kv cache.KVStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		kv = cache.NewRedisKVStore(redis.NewClient(opts))
		logger.Info("using redis metrics cache")
	} else {
		kv = cache.NewMemoryKVStore()
	}

	loc := cfg.Location()

	// Repositories
	blobs := repository.NewBlobStore(db)
	state := repository.NewStateRepository(blobs, logger)

	// Health data source
	source := healthsource.NewHTTPSource(cfg.SourceBaseURL, cfg.SourceToken, logger)

	// Services
	historyService := service.NewHistoryService(state, logger)
	settingsService := service.NewSettingsService(state, logger)
	metricsService := service.NewMetricsService(historyService, settingsService, kv, loc, logger)
	recommendationService := service.NewRecommendationService(historyService, settingsService, loc, logger)
	syncService := service.NewSyncService(source, historyService, state, loc, cfg.LookbackDays, logger)

	// OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIInsightsModel)
	if openaiClient == nil {
		logger.Warn("OpenAI API key not configured, insights endpoint will be unavailable")
	}
	insightsService := service.NewInsightsService(historyService, metricsService, recommendationService, openaiClient)

	// Handlers
	nightsHandler := handler.NewNightsHandler(historyService, settingsService, loc)
	insightsHandler := handler.NewInsightsHandler(metricsService, recommendationService, insightsService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	syncHandler := handler.NewSyncHandler(syncService)

	router := api.NewRouter(logger, nightsHandler, insightsHandler, settingsHandler, syncHandler)

	// Background incremental sync
	go syncService.RunPeriodic(ctx, cfg.SyncInterval)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Setup(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(err))
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	zapLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zapLevel
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
