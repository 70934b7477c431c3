package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
)

// ErrStoreUnavailable wraps every persistence failure. The cache layer absorbs it;
// it must never decide the outcome of a review request.
var ErrStoreUnavailable = errors.New("review store unavailable")

// CacheEntry is one cached answer for a cache key: the merged review set plus
// the statistics computed from it.
type CacheEntry struct {
	Key    string
	Hours  int
	Source v1.Source // empty when the entry covers every source

	Reviews []v1.Review
	Stats   v1.AggregateStats

	// FetchID identifies the upstream fetch run that produced the payload.
	FetchID string

	FetchedAt time.Time // when upstream data was retrieved
	CachedAt  time.Time // when the entry was written
	ExpiresAt time.Time // CachedAt + TTL
}

// ValidAt reports whether the entry is still fresh. Validity is exclusive:
// an entry whose ExpiresAt equals now is already expired.
func (e *CacheEntry) ValidAt(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// Stats is a snapshot of the store contents.
type Stats struct {
	EntryCount      int        `json:"entry_count" yaml:"entry_count"`
	ValidEntryCount int        `json:"valid_entry_count" yaml:"valid_entry_count"`
	TotalReviews    int        `json:"total_reviews" yaml:"total_reviews"`
	OldestCachedAt  *time.Time `json:"oldest_cached_at,omitempty" yaml:"oldest_cached_at,omitempty"`
	NewestCachedAt  *time.Time `json:"newest_cached_at,omitempty" yaml:"newest_cached_at,omitempty"`
}

// ReviewStore owns the on-disk rows behind the review cache.
// Every method runs in a single transaction and either fully applies or not at all.
// All returned errors wrap ErrStoreUnavailable.
type ReviewStore interface {
	// UpsertReviews inserts or replaces review rows by id.
	UpsertReviews(ctx context.Context, batch []v1.Review) error

	// UpsertCacheMetadata inserts or replaces the metadata row for entry.Key.
	// entry.Reviews is ignored.
	UpsertCacheMetadata(ctx context.Context, entry CacheEntry) error

	// SaveEntry replaces the whole entry for entry.Key: metadata, reviews and
	// the association between them. Readers never observe a partial payload.
	SaveEntry(ctx context.Context, entry CacheEntry) error

	// GetCacheMetadata returns the metadata row, or nil when the key is absent.
	GetCacheMetadata(ctx context.Context, key string) (*CacheEntry, error)

	// GetReviewsForKey returns the reviews associated with a cache entry,
	// newest first. Selection uses the stored association, never the review dates.
	GetReviewsForKey(ctx context.Context, key string, hours int, source v1.Source) ([]v1.Review, error)

	// GetEntry reads metadata and reviews from one snapshot. Returns nil when absent.
	GetEntry(ctx context.Context, key string) (*CacheEntry, error)

	// DeleteCacheEntry removes one entry and reports whether it existed.
	DeleteCacheEntry(ctx context.Context, key string) (bool, error)

	// DeleteAll removes every entry and review, returning the number of entries removed.
	DeleteAll(ctx context.Context) (int, error)

	// DeleteExpired removes entries with expires_at <= now and sweeps orphaned reviews.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	// Stats summarizes the store; ValidEntryCount counts entries with now < expires_at.
	Stats(ctx context.Context, now time.Time) (Stats, error)
}
