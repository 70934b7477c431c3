package reviews

import (
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/storage"
	"github.com/reviewlens/reviewlens/internal/source"
)

// Request is one review query.
type Request struct {
	Hours  int
	Source v1.Source // empty means every platform

	// UseCache=false bypasses the cache entirely: no read, no write-back.
	UseCache bool

	// ForceRefresh skips the cache read but still writes the fresh result.
	ForceRefresh bool

	// MaxPages is the Trustpilot pagination depth; 0 uses the configured default.
	MaxPages int
}

// Result is the outcome of GetReviews.
type Result struct {
	Reviews    []v1.Review
	Stats      v1.AggregateStats
	Provenance v1.Provenance
	CacheKey   string
	FetchID    string
	FetchedAt  time.Time

	// Stale is set when an expired entry was served because every source failed.
	Stale bool

	// FailedSources lists adapters that failed during a fresh fetch.
	FailedSources map[v1.Source]string
}

// fetchOutcome is one adapter's settled result: a batch or an error, never both.
type fetchOutcome struct {
	source v1.Source
	batch  source.Batch
	err    error
}

// ReviewsResponse is the JSON body of the review endpoints.
type ReviewsResponse struct {
	Reviews        []v1.Review       `json:"reviews"`
	Stats          v1.AggregateStats `json:"stats"`
	FetchedAt      time.Time         `json:"fetched_at"`
	TimeRangeHours int               `json:"time_range_hours"`
	Cached         bool              `json:"cached"`
	CacheKey       string            `json:"cache_key"`
	Stale          bool              `json:"stale,omitempty"`
	FailedSources  map[string]string `json:"failed_sources,omitempty"`
}

// CacheStatsResponse is the JSON body of GET /api/reviews/cache/stats.
type CacheStatsResponse struct {
	CacheStats storage.Stats `json:"cache_stats"`
	TTLSeconds int64         `json:"ttl_seconds"`
	Message    string        `json:"message"`
}

// CacheProbeResponse is the JSON body of GET /api/reviews/cache/test.
type CacheProbeResponse struct {
	Status       string     `json:"status"`
	CacheKey     string     `json:"cache_key"`
	ReviewsCount int        `json:"reviews_count"`
	CachedAt     *time.Time `json:"cached_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Message      string     `json:"message"`
}

// MessageResponse is returned by cache mutations.
type MessageResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

func newReviewsResponse(res *Result, hours int) ReviewsResponse {
	resp := ReviewsResponse{
		Reviews:        res.Reviews,
		Stats:          res.Stats,
		FetchedAt:      res.FetchedAt,
		TimeRangeHours: hours,
		Cached:         res.Provenance == v1.ProvenanceCached,
		CacheKey:       res.CacheKey,
		Stale:          res.Stale,
	}
	if resp.Reviews == nil {
		resp.Reviews = []v1.Review{}
	}
	if len(res.FailedSources) > 0 {
		resp.FailedSources = make(map[string]string, len(res.FailedSources))
		for src, reason := range res.FailedSources {
			resp.FailedSources[string(src)] = reason
		}
	}
	return resp
}
