package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
	"github.com/nightfold/nightfold/internal/service"
	"github.com/nightfold/nightfold/pkg/pagination"
	"github.com/nightfold/nightfold/pkg/problem"
)

// NightsHandler serves the night history and its CSV export.
type NightsHandler struct {
	history  service.HistoryService
	settings service.SettingsService
	loc      *time.Location
}

// NewNightsHandler creates a new NightsHandler.
func NewNightsHandler(history service.HistoryService, settings service.SettingsService, loc *time.Location) *NightsHandler {
	return &NightsHandler{history: history, settings: settings, loc: loc}
}

// List handles GET /v1/nights
// @Summary List nights
// @Description Fetch the aggregated night history, most recent first, cursor-paginated.
// @Tags nights
// @Produce json
// @Param limit query integer false "Results per page (1-180)" default(30) minimum(1) maximum(180)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.NightListResponse "Night summaries with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /nights [get]
func (h *NightsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := pagination.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			problem.BadRequest("limit must be a positive integer").Write(w)
			return
		}
		limit = pagination.NormalizeLimit(parsed)
	}

	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		problem.BadRequest("Invalid cursor").Write(w)
		return
	}

	nights, err := h.history.Nights(r.Context())
	if err != nil {
		problem.InternalError("Failed to load night history").Write(w)
		return
	}

	// History is sorted most recent first; resume strictly after the
	// cursor date.
	if cursor != nil {
		start := len(nights)
		for i, n := range nights {
			if string(n.Date) < cursor.Date {
				start = i
				break
			}
		}
		nights = nights[start:]
	}

	hasMore := len(nights) > limit
	if hasMore {
		nights = nights[:limit]
	}

	response := domain.NightListResponse{
		Data: make([]domain.NightResponse, 0, len(nights)),
	}
	for _, n := range nights {
		response.Data = append(response.Data, n.ToResponse())
	}
	response.Pagination.HasMore = hasMore
	if hasMore && len(nights) > 0 {
		c := pagination.Cursor{Date: string(nights[len(nights)-1].Date)}
		response.Pagination.NextCursor = c.Encode()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ExportCSV handles GET /v1/export.csv
// @Summary Export night history as CSV
// @Description One row per night ascending by date; null fields render as "n/a".
// @Tags nights
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /export.csv [get]
func (h *NightsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	nights, err := h.history.Nights(r.Context())
	if err != nil {
		problem.InternalError("Failed to load night history").Write(w)
		return
	}
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		problem.InternalError("Failed to load settings").Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="nights.csv"`)
	if err := service.WriteCSV(w, nights, settings.Schedule, h.loc); err != nil {
		// Headers are gone; nothing sensible left to send.
		return
	}
}
