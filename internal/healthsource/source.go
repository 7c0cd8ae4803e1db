package healthsource

import (
	"context"
	"time"

	"github.com/nightfold/nightfold/internal/domain"
)

// QueryResult is one incremental query response: the samples added or
// changed since the cursor position, and the new cursor to resume from.
type QueryResult struct {
	Samples   []domain.RawSample
	NewCursor string
}

// Source is the external health-data collaborator. Implementations map
// transport failures to domain.ErrSourceUnavailable and authorization
// failures to domain.ErrPermissionDenied so the sync coordinator can
// dispatch on them.
type Source interface {
	// Authorized reports whether health data access has been granted.
	Authorized(ctx context.Context) (bool, error)
	// Query returns samples in [start, end] added or changed since the
	// cursor. An empty cursor requests everything in the window.
	Query(ctx context.Context, start, end time.Time, cursor string) (*QueryResult, error)
	// WriteSample pushes a synthesized interval back to the source,
	// used when an inferred-sleep candidate is accepted.
	WriteSample(ctx context.Context, sample domain.RawSample) error
}
