package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/nightfold/nightfold/docs"
	"github.com/nightfold/nightfold/internal/api/handler"
	"github.com/nightfold/nightfold/internal/api/middleware"
)

type Router struct {
	logger          *zap.Logger
	nightsHandler   *handler.NightsHandler
	insightsHandler *handler.InsightsHandler
	settingsHandler *handler.SettingsHandler
	syncHandler     *handler.SyncHandler
}

func NewRouter(
	logger *zap.Logger,
	nightsHandler *handler.NightsHandler,
	insightsHandler *handler.InsightsHandler,
	settingsHandler *handler.SettingsHandler,
	syncHandler *handler.SyncHandler,
) *Router {
	return &Router{
		logger:          logger,
		nightsHandler:   nightsHandler,
		insightsHandler: insightsHandler,
		settingsHandler: settingsHandler,
		syncHandler:     syncHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Get("/nights", rt.nightsHandler.List)
		r.Get("/export.csv", rt.nightsHandler.ExportCSV)

		r.Get("/metrics", rt.insightsHandler.GetMetrics)
		r.Get("/metrics/deviations", rt.insightsHandler.GetDeviations)
		r.Get("/recommendations", rt.insightsHandler.GetRecommendations)
		r.Get("/insights", rt.insightsHandler.GetInsights)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/schedule", rt.settingsHandler.GetSchedule)
			r.Put("/schedule", rt.settingsHandler.UpdateSchedule)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Post("/", rt.syncHandler.Trigger)
			r.Post("/resync", rt.syncHandler.Resync)
			r.Get("/status", rt.syncHandler.Status)
		})

		r.Post("/sessions/inferred", rt.syncHandler.AcceptInferred)
	})

	return r
}
