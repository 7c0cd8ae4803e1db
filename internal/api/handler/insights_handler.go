package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/llm"
	"github.com/nightfold/nightfold/internal/service"
	"github.com/nightfold/nightfold/pkg/problem"
)

// InsightsHandler serves the metrics, recommendations and LLM insights
// endpoints.
type InsightsHandler struct {
	metricsService        service.MetricsService
	recommendationService service.RecommendationService
	insightsService       service.InsightsService
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(
	metricsService service.MetricsService,
	recommendationService service.RecommendationService,
	insightsService service.InsightsService,
) *InsightsHandler {
	return &InsightsHandler{
		metricsService:        metricsService,
		recommendationService: recommendationService,
		insightsService:       insightsService,
	}
}

// GetMetrics handles GET /v1/metrics
// @Summary Get longitudinal sleep metrics
// @Description Midpoint consistency, social jetlag and schedule regularity over the night history. Null fields mean not enough data.
// @Tags insights
// @Produce json
// @Success 200 {object} domain.MetricsReport "Metrics report"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /metrics [get]
func (h *InsightsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.metricsService.Compute(r.Context())
	if err != nil {
		problem.InternalError("Failed to compute metrics").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// GetDeviations handles GET /v1/metrics/deviations
// @Summary Get per-night schedule deviations
// @Description Signed minutes from the target midpoint for the most recent nights.
// @Tags insights
// @Produce json
// @Param limit query integer false "Number of nights" default(30)
// @Success 200 {array} domain.NightDeviation "Per-night deviations"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /metrics/deviations [get]
func (h *InsightsHandler) GetDeviations(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			problem.BadRequest("limit must be a positive integer").Write(w)
			return
		}
		limit = parsed
	}

	deviations, err := h.metricsService.Deviations(r.Context(), limit)
	if err != nil {
		problem.InternalError("Failed to compute deviations").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deviations)
}

// GetRecommendations handles GET /v1/recommendations
// @Summary Get sleep recommendations
// @Description Rule-derived guidance over the recent nights, highest priority first.
// @Tags insights
// @Produce json
// @Success 200 {object} domain.RecommendationListResponse "Ordered recommendations"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /recommendations [get]
func (h *InsightsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recommendationService.Generate(r.Context())
	if err != nil {
		problem.InternalError("Failed to generate recommendations").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.RecommendationListResponse{Data: recs})
}

// GetInsights handles GET /v1/insights
// @Summary Get LLM-generated sleep insights
// @Description Narrative summary over recent nights, metrics and recommendations. Requires the LLM to be configured.
// @Tags insights
// @Produce json
// @Success 200 {object} domain.InsightsResponse "Generated insights"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 503 {object} problem.Problem "LLM not configured or unavailable"
// @Router /insights [get]
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	response, err := h.insightsService.Generate(r.Context())
	if err != nil {
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.New(http.StatusServiceUnavailable, "llm-unavailable", "Insights Unavailable", "LLM insights are not configured").Write(w)
			return
		}
		problem.InternalError("Failed to generate insights").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
