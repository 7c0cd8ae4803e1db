package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nightfold/nightfold/internal/api/validation"
	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/service"
	"github.com/nightfold/nightfold/pkg/problem"
)

// SyncHandler exposes the fetch coordinator: manual sync triggers,
// forced resync, status, and inferred-session acceptance.
type SyncHandler struct {
	sync service.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(sync service.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// InferredSessionRequest is the request body for accepting an
// inferred-sleep candidate.
// @Description Candidate sleep interval produced by gap inference.
type InferredSessionRequest struct {
	// Interval start in RFC3339 format
	StartAt time.Time `json:"start_at" validate:"required" example:"2024-03-04T23:30:00Z"`
	// Interval end in RFC3339 format (must be after start_at)
	EndAt time.Time `json:"end_at" validate:"required,gtfield=StartAt" example:"2024-03-05T06:45:00Z"`
	// Classifier confidence in [0,1]
	Confidence *float64 `json:"confidence,omitempty" validate:"omitempty,min=0,max=1" example:"0.8"`
}

// Trigger handles POST /v1/sync
// @Summary Run an incremental fetch
// @Description Fetches samples changed since the last sync cursor and merges them into the night history.
// @Tags sync
// @Produce json
// @Success 200 {object} domain.SyncResult "Fetch outcome"
// @Failure 403 {object} problem.Problem "Health data access not authorized"
// @Failure 409 {object} problem.Problem "A sync is already in progress"
// @Failure 502 {object} problem.Problem "Health data source unavailable"
// @Router /sync [post]
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.sync.IncrementalFetch(r.Context())
	if err != nil {
		writeSyncError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Resync handles POST /v1/sync/resync
// @Summary Discard state and refetch everything
// @Description Clears the sync cursor and the entire night history, then performs a full fetch. Recovery path for merge anomalies.
// @Tags sync
// @Produce json
// @Success 200 {object} domain.SyncResult "Resync outcome"
// @Failure 403 {object} problem.Problem "Health data access not authorized"
// @Failure 502 {object} problem.Problem "Health data source unavailable"
// @Router /sync/resync [post]
func (h *SyncHandler) Resync(w http.ResponseWriter, r *http.Request) {
	result, err := h.sync.ForceResync(r.Context())
	if err != nil {
		writeSyncError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Status handles GET /v1/sync/status
// @Summary Get sync status
// @Tags sync
// @Produce json
// @Success 200 {object} domain.SyncStatus "Coordinator state"
// @Router /sync/status [get]
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.sync.Status(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// AcceptInferred handles POST /v1/sessions/inferred
// @Summary Accept an inferred sleep session
// @Description Writes an inferred-sleep candidate back to the health source and merges it into the history.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body InferredSessionRequest true "Candidate interval"
// @Success 202 {object} domain.SyncStatus "Accepted"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 403 {object} problem.Problem "Health data access not authorized"
// @Failure 422 {object} problem.Problem "Validation errors"
// @Failure 502 {object} problem.Problem "Health data source unavailable"
// @Router /sessions/inferred [post]
func (h *SyncHandler) AcceptInferred(w http.ResponseWriter, r *http.Request) {
	var req InferredSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	sample := domain.RawSample{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Kind:    domain.StateAsleepUnspecified,
		Source: domain.SourceMetadata{
			Inferred:   true,
			Confidence: req.Confidence,
		},
	}

	if err := h.sync.AcceptInferred(r.Context(), sample); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("Invalid sample interval").Write(w)
			return
		}
		writeSyncError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(h.sync.Status(r.Context()))
}

func writeSyncError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		problem.Conflict("A sync is already in progress").Write(w)
	case errors.Is(err, domain.ErrPermissionDenied):
		problem.New(http.StatusForbidden, "permission-denied", "Permission Denied", "Health data access has not been authorized").Write(w)
	case errors.Is(err, domain.ErrSourceUnavailable):
		problem.New(http.StatusBadGateway, "source-unavailable", "Source Unavailable", "The health data source did not respond").Write(w)
	default:
		problem.InternalError("Sync failed").Write(w)
	}
}
