package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
)

// ErrSourceUnavailable marks a failed fetch from one platform (transport, auth,
// rate limiting or an open circuit). An empty result is never an error.
var ErrSourceUnavailable = errors.New("review source unavailable")

// FetchRequest describes what an adapter should retrieve.
type FetchRequest struct {
	// Hours is the look-back window. Adapters may over-fetch; callers filter.
	Hours int

	// Limit caps reviews per upstream call.
	Limit int

	// MaxPages bounds pagination for platforms that page (Trustpilot).
	MaxPages int
}

// Batch is one adapter's answer.
type Batch struct {
	Reviews   []v1.RawReview
	FetchedAt time.Time
}

// Source fetches raw reviews from one platform.
type Source interface {
	// Name identifies the platform this adapter covers.
	Name() v1.Source

	// Fetch returns the reviews published within req.Hours. Failures wrap ErrSourceUnavailable.
	Fetch(ctx context.Context, req FetchRequest) (Batch, error)
}

// Unavailable wraps cause so that errors.Is(err, ErrSourceUnavailable) holds.
func Unavailable(platform v1.Source, cause error) error {
	return fmt.Errorf("%s: %w: %w", platform, ErrSourceUnavailable, cause)
}
