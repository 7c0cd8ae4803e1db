package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nightfold/nightfold/internal/domain"
)

func TestSyncHandler_Trigger(t *testing.T) {
	tests := []struct {
		name           string
		fetchErr       error
		wantStatusCode int
	}{
		{"success", nil, http.StatusOK},
		{"already running", domain.ErrSyncInProgress, http.StatusConflict},
		{"not authorized", domain.ErrPermissionDenied, http.StatusForbidden},
		{"source down", domain.ErrSourceUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSyncHandler(&MockSyncService{
				fetchFunc: func(ctx context.Context) (*domain.SyncResult, error) {
					if tt.fetchErr != nil {
						return nil, tt.fetchErr
					}
					return &domain.SyncResult{SamplesFetched: 10, NightsMerged: 2}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/sync", nil)
			rec := httptest.NewRecorder()
			h.Trigger(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("expected %d, got %d", tt.wantStatusCode, rec.Code)
			}
			if tt.fetchErr == nil {
				var result domain.SyncResult
				if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
					t.Fatalf("invalid response body: %v", err)
				}
				if result.SamplesFetched != 10 || result.NightsMerged != 2 {
					t.Errorf("unexpected result: %+v", result)
				}
			}
		})
	}
}

func TestSyncHandler_Resync(t *testing.T) {
	h := NewSyncHandler(&MockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/resync", nil)
	rec := httptest.NewRecorder()
	h.Resync(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result domain.SyncResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !result.FullResync {
		t.Error("expected FullResync in the response")
	}
}

func TestSyncHandler_Status(t *testing.T) {
	h := NewSyncHandler(&MockSyncService{
		statusResult: domain.SyncStatus{Busy: true, CursorSet: true, LastMerged: 4},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status domain.SyncStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !status.Busy || !status.CursorSet || status.LastMerged != 4 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestSyncHandler_AcceptInferred(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		acceptErr      error
		wantStatusCode int
	}{
		{
			name:           "valid candidate",
			body:           `{"start_at": "2024-03-04T23:30:00Z", "end_at": "2024-03-05T06:45:00Z", "confidence": 0.8}`,
			wantStatusCode: http.StatusAccepted,
		},
		{
			name:           "malformed json",
			body:           `{`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing end",
			body:           `{"start_at": "2024-03-04T23:30:00Z"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "end before start",
			body:           `{"start_at": "2024-03-05T06:45:00Z", "end_at": "2024-03-04T23:30:00Z"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "confidence out of range",
			body:           `{"start_at": "2024-03-04T23:30:00Z", "end_at": "2024-03-05T06:45:00Z", "confidence": 1.5}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "source unavailable",
			body:           `{"start_at": "2024-03-04T23:30:00Z", "end_at": "2024-03-05T06:45:00Z"}`,
			acceptErr:      domain.ErrSourceUnavailable,
			wantStatusCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var accepted *domain.RawSample
			h := NewSyncHandler(&MockSyncService{
				acceptFunc: func(ctx context.Context, sample domain.RawSample) error {
					if tt.acceptErr != nil {
						return tt.acceptErr
					}
					accepted = &sample
					return nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/inferred", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.AcceptInferred(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("expected %d, got %d", tt.wantStatusCode, rec.Code)
			}
			if tt.wantStatusCode == http.StatusAccepted {
				if accepted == nil {
					t.Fatal("expected the sample to reach the service")
				}
				if !accepted.Source.Inferred {
					t.Error("expected the sample marked inferred")
				}
				if accepted.Kind != domain.StateAsleepUnspecified {
					t.Errorf("expected ASLEEP_UNSPECIFIED, got %s", accepted.Kind)
				}
				if accepted.Source.Confidence == nil || *accepted.Source.Confidence != 0.8 {
					t.Errorf("expected confidence 0.8, got %v", accepted.Source.Confidence)
				}
			}
		})
	}
}
