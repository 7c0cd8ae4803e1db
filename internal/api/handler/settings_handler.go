package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nightfold/nightfold/internal/api/validation"
	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/service"
	"github.com/nightfold/nightfold/pkg/problem"
)

// SettingsHandler serves the schedule target settings.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSchedule handles GET /v1/settings/schedule
// @Summary Get the target sleep schedule
// @Tags settings
// @Produce json
// @Success 200 {object} domain.ScheduleTarget "Current schedule target"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /settings/schedule [get]
func (h *SettingsHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		problem.InternalError("Failed to load settings").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings.Schedule)
}

// UpdateSchedule handles PUT /v1/settings/schedule
// @Summary Update the target sleep schedule
// @Description Replaces the schedule target used by regularity metrics and recommendations.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateScheduleRequest true "New schedule target"
// @Success 200 {object} domain.ScheduleTarget "Updated schedule target"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 422 {object} problem.Problem "Validation errors"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /settings/schedule [put]
func (h *SettingsHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	settings, err := h.settings.UpdateSchedule(r.Context(), req.ToTarget())
	if err != nil {
		problem.InternalError("Failed to save settings").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings.Schedule)
}
