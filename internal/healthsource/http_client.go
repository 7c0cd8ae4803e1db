package healthsource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/nightfold/nightfold/internal/domain"
	"go.uber.org/zap"
)

// HTTPSource talks to a health-data bridge over REST. The bridge fronts
// the platform health store and implements the incremental anchored
// query protocol; the cursor string it returns is opaque to us.
type HTTPSource struct {
	client *resty.Client
	log    *zap.Logger
}

// NewHTTPSource creates a Source against the bridge base URL. The token
// is sent as a bearer credential on every request.
func NewHTTPSource(baseURL, token string, log *zap.Logger) *HTTPSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}

	return &HTTPSource{client: client, log: log}
}

type authorizationResponse struct {
	Authorized bool `json:"authorized"`
}

type wireSample struct {
	ID         string   `json:"id,omitempty"`
	StartAt    string   `json:"start_at"`
	EndAt      string   `json:"end_at"`
	Kind       string   `json:"kind"`
	Bundle     string   `json:"bundle,omitempty"`
	Inferred   bool     `json:"inferred,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type queryResponse struct {
	Samples    []wireSample `json:"samples"`
	NextCursor string       `json:"next_cursor"`
}

func (s *HTTPSource) Authorized(ctx context.Context) (bool, error) {
	var body authorizationResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/v1/authorization")
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("%w: authorization probe returned %d", domain.ErrSourceUnavailable, resp.StatusCode())
	}
	return body.Authorized, nil
}

func (s *HTTPSource) Query(ctx context.Context, start, end time.Time, cursor string) (*QueryResult, error) {
	var body queryResponse
	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("start", start.UTC().Format(time.RFC3339)).
		SetQueryParam("end", end.UTC().Format(time.RFC3339)).
		SetResult(&body)
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}

	resp, err := req.Get("/v1/samples")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, domain.ErrPermissionDenied
	case resp.IsError():
		return nil, fmt.Errorf("%w: sample query returned %d", domain.ErrSourceUnavailable, resp.StatusCode())
	}

	result := &QueryResult{NewCursor: body.NextCursor}
	for _, w := range body.Samples {
		sample, err := w.toDomain()
		if err != nil {
			// Unparseable samples are skipped, not fatal for the batch.
			s.log.Warn("skipping malformed sample from source",
				zap.String("sample_id", w.ID),
				zap.Error(err),
			)
			continue
		}
		result.Samples = append(result.Samples, sample)
	}
	return result, nil
}

func (s *HTTPSource) WriteSample(ctx context.Context, sample domain.RawSample) error {
	payload := wireSample{
		StartAt:    sample.StartAt.UTC().Format(time.RFC3339),
		EndAt:      sample.EndAt.UTC().Format(time.RFC3339),
		Kind:       string(sample.Kind),
		Bundle:     sample.Source.Bundle,
		Inferred:   sample.Source.Inferred,
		Confidence: sample.Source.Confidence,
	}
	if sample.Source.SampleID != uuid.Nil {
		payload.ID = sample.Source.SampleID.String()
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v1/samples")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return domain.ErrPermissionDenied
	case resp.IsError():
		return fmt.Errorf("%w: sample write returned %d", domain.ErrSourceUnavailable, resp.StatusCode())
	}
	return nil
}

func (w wireSample) toDomain() (domain.RawSample, error) {
	start, err := time.Parse(time.RFC3339, w.StartAt)
	if err != nil {
		return domain.RawSample{}, fmt.Errorf("bad start_at: %v", err)
	}
	end, err := time.Parse(time.RFC3339, w.EndAt)
	if err != nil {
		return domain.RawSample{}, fmt.Errorf("bad end_at: %v", err)
	}

	sample := domain.RawSample{
		StartAt: start,
		EndAt:   end,
		Kind:    domain.StateKind(w.Kind),
		Source: domain.SourceMetadata{
			Bundle:     w.Bundle,
			Inferred:   w.Inferred,
			Confidence: w.Confidence,
		},
	}
	if id, err := uuid.Parse(w.ID); err == nil {
		sample.Source.SampleID = id
	}
	return sample, nil
}
