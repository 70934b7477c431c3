package cache

import (
	"context"
	"log/slog"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	"github.com/reviewlens/reviewlens/internal/core/storage"
)

// Payload is the merged result of one fresh fetch, ready to be cached.
type Payload struct {
	Hours     int
	Source    v1.Source
	Reviews   []v1.Review
	Stats     v1.AggregateStats
	FetchID   string
	FetchedAt time.Time
}

// Service interprets TTL and validity on top of a ReviewStore.
//
// Store failures on the request path (Get, GetStale, Put) are logged and absorbed:
// those methods have no error result, so a broken store can only ever look like a miss.
// Administrative operations return errors to the operator.
type Service struct {
	store  storage.ReviewStore
	policy cachekey.Policy
	nowFn  func() time.Time
}

// NewService creates a cache service over store.
func NewService(store storage.ReviewStore, policy cachekey.Policy) *Service {
	return &Service{
		store:  store,
		policy: policy,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Get returns the entry for key when it exists and now < ExpiresAt.
// Expired rows are reported as a miss and left for Cleanup.
func (s *Service) Get(ctx context.Context, key string) (*storage.CacheEntry, bool) {
	entry, ok := s.read(ctx, key)
	if !ok {
		return nil, false
	}

	if !entry.ValidAt(s.nowFn()) {
		Lookups.WithLabelValues(resultExpired).Inc()
		slog.Debug("[Cache] Entry expired",
			"cache_key", key,
			"expires_at", entry.ExpiresAt)
		return nil, false
	}

	Lookups.WithLabelValues(resultHit).Inc()
	slog.Debug("[Cache] Hit", "cache_key", key, "reviews", len(entry.Reviews))
	return entry, true
}

// GetStale returns the entry for key regardless of expiry, provided it was cached
// no longer than maxAge ago. A zero maxAge accepts any age.
func (s *Service) GetStale(ctx context.Context, key string, maxAge time.Duration) (*storage.CacheEntry, bool) {
	entry, ok := s.read(ctx, key)
	if !ok {
		return nil, false
	}

	if maxAge > 0 && s.nowFn().Sub(entry.CachedAt) > maxAge {
		slog.Info("[Cache] Stale entry too old to serve",
			"cache_key", key,
			"cached_at", entry.CachedAt,
			"max_stale_age", maxAge)
		return nil, false
	}

	Lookups.WithLabelValues(resultStale).Inc()
	return entry, true
}

func (s *Service) read(ctx context.Context, key string) (*storage.CacheEntry, bool) {
	entry, err := s.store.GetEntry(ctx, key)
	if err != nil {
		Lookups.WithLabelValues(resultError).Inc()
		slog.Warn("[Cache] Read failed, treating as miss",
			"cache_key", key,
			"error", err)
		return nil, false
	}
	if entry == nil {
		Lookups.WithLabelValues(resultMiss).Inc()
		slog.Debug("[Cache] Miss", "cache_key", key)
		return nil, false
	}
	return entry, true
}

// Put writes p under key with CachedAt = now and ExpiresAt = now + TTL,
// replacing any previous entry. It reports whether the write landed.
func (s *Service) Put(ctx context.Context, key string, p Payload) bool {
	now := s.nowFn()
	entry := storage.CacheEntry{
		Key:       key,
		Hours:     p.Hours,
		Source:    p.Source,
		Reviews:   p.Reviews,
		Stats:     p.Stats,
		FetchID:   p.FetchID,
		FetchedAt: p.FetchedAt,
		CachedAt:  now,
		ExpiresAt: now.Add(s.policy.TTL(p.Hours)),
	}

	if err := s.store.SaveEntry(ctx, entry); err != nil {
		Writes.WithLabelValues(resultError).Inc()
		slog.Error("[Cache] Write failed, continuing without cache",
			"cache_key", key,
			"reviews", len(p.Reviews),
			"error", err)
		return false
	}

	Writes.WithLabelValues(resultOK).Inc()
	slog.Info("[Cache] Stored entry",
		"cache_key", key,
		"reviews", len(p.Reviews),
		"expires_at", entry.ExpiresAt)
	return true
}

// Invalidate deletes the entry for key and reports whether it existed.
func (s *Service) Invalidate(ctx context.Context, key string) (bool, error) {
	removed, err := s.store.DeleteCacheEntry(ctx, key)
	if err != nil {
		return false, err
	}
	if removed {
		Evictions.WithLabelValues("invalidate").Inc()
	}
	slog.Info("[Cache] Invalidated entry", "cache_key", key, "existed", removed)
	return removed, nil
}

// InvalidateAll clears the cache and returns the number of entries removed.
func (s *Service) InvalidateAll(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	Evictions.WithLabelValues("invalidate").Add(float64(removed))
	slog.Info("[Cache] Cleared cache", "removed", removed)
	return removed, nil
}

// Cleanup removes entries with ExpiresAt <= now. Safe to run repeatedly or concurrently.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.nowFn())
	if err != nil {
		return 0, err
	}
	Evictions.WithLabelValues("expired").Add(float64(removed))
	return removed, nil
}

// Statistics returns a snapshot of the cache contents.
func (s *Service) Statistics(ctx context.Context) (storage.Stats, error) {
	return s.store.Stats(ctx, s.nowFn())
}

// TTL exposes the expiry applied to entries for the given window.
func (s *Service) TTL(hours int) time.Duration {
	return s.policy.TTL(hours)
}
