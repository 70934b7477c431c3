package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	"github.com/reviewlens/reviewlens/internal/core/storage"
	"github.com/reviewlens/reviewlens/internal/source"
	"golang.org/x/sync/errgroup"
)

const maxPagesDimension = "max_pages"

// ErrUpstreamUnavailable is returned when every source in scope failed and no
// cached payload could stand in.
var ErrUpstreamUnavailable = errors.New("review sources unavailable")

var requestsServed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviewlens_review_requests_total",
		Help: "Total number of review requests by outcome (cached, fresh, stale, failed)",
	},
	[]string{"outcome"},
)

// ReviewCache is the part of the cache service the aggregator depends on.
type ReviewCache interface {
	Get(ctx context.Context, key string) (*storage.CacheEntry, bool)
	GetStale(ctx context.Context, key string, maxAge time.Duration) (*storage.CacheEntry, bool)
	Put(ctx context.Context, key string, p cache.Payload) bool
}

// Config tunes the aggregator.
type Config struct {
	// Limit caps reviews per upstream call.
	Limit int

	// DefaultMaxPages applies when a request leaves MaxPages at 0.
	DefaultMaxPages int

	// StaleFallback serves an expired entry when every source fails.
	StaleFallback bool

	// MaxStaleAge bounds how old a fallback entry may be; 0 accepts any age.
	MaxStaleAge time.Duration
}

// Service answers review queries from the cache or by fanning out to the sources.
// It is the only writer of cache entries.
type Service struct {
	cache   ReviewCache
	sources []source.Source
	cfg     Config

	nowFn      func() time.Time
	newFetchID func() string
}

// NewService creates a review aggregation service.
func NewService(c ReviewCache, sources []source.Source, cfg Config) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = source.DefaultLimit
	}
	if cfg.DefaultMaxPages <= 0 {
		cfg.DefaultMaxPages = source.DefaultMaxPages
	}

	return &Service{
		cache:   c,
		sources: sources,
		cfg:     cfg,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
		newFetchID: uuid.NewString,
	}
}

// CacheKey returns the key req is cached under.
func (s *Service) CacheKey(req Request) (string, error) {
	req, err := s.normalize(req)
	if err != nil {
		return "", err
	}
	return cachekey.DeriveKey(s.keyQuery(req))
}

// GetReviews returns the reviews for req, from cache when a valid entry exists,
// otherwise from the sources in scope.
func (s *Service) GetReviews(ctx context.Context, req Request) (*Result, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	key, err := cachekey.DeriveKey(s.keyQuery(req))
	if err != nil {
		return nil, err
	}

	if req.UseCache && !req.ForceRefresh {
		if entry, ok := s.cache.Get(ctx, key); ok {
			requestsServed.WithLabelValues("cached").Inc()
			slog.Info("[Aggregator] Serving cached reviews",
				"cache_key", key,
				"reviews", len(entry.Reviews))
			return resultFromEntry(entry, false), nil
		}
	}

	adapters := s.inScope(req.Source)
	if len(adapters) == 0 {
		requestsServed.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: no source configured for %q", ErrUpstreamUnavailable, scopeName(req.Source))
	}

	outcomes := s.fanOut(ctx, adapters, source.FetchRequest{
		Hours:    req.Hours,
		Limit:    s.cfg.Limit,
		MaxPages: req.MaxPages,
	})

	// A cancelled caller gets nothing and nothing is written.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := failedSources(outcomes)
	if len(failed) == len(outcomes) {
		return s.fallback(ctx, key, req, failed)
	}
	for src, reason := range failed {
		slog.Warn("[Aggregator] Source failed, continuing with partial results",
			"cache_key", key,
			"source", src,
			"error", reason)
	}

	now := s.nowFn()
	merged := merge(outcomes, now.Add(-time.Duration(req.Hours)*time.Hour))
	stats := ComputeStats(merged)
	fetchID := s.newFetchID()

	if req.UseCache {
		s.cache.Put(ctx, key, cache.Payload{
			Hours:     req.Hours,
			Source:    req.Source,
			Reviews:   merged,
			Stats:     stats,
			FetchID:   fetchID,
			FetchedAt: now,
		})
	}

	requestsServed.WithLabelValues("fresh").Inc()
	slog.Info("[Aggregator] Fetched fresh reviews",
		"cache_key", key,
		"hours", req.Hours,
		"reviews", len(merged),
		"failed_sources", len(failed),
		"fetch_id", fetchID)

	res := &Result{
		Reviews:    merged,
		Stats:      stats,
		Provenance: v1.ProvenanceFresh,
		CacheKey:   key,
		FetchID:    fetchID,
		FetchedAt:  now,
	}
	if len(failed) > 0 {
		res.FailedSources = failed
	}
	return res, nil
}

// fallback handles the all-sources-failed case: serve a stale entry if allowed,
// otherwise report ErrUpstreamUnavailable.
func (s *Service) fallback(ctx context.Context, key string, req Request, failed map[v1.Source]string) (*Result, error) {
	if req.UseCache && s.cfg.StaleFallback {
		if entry, ok := s.cache.GetStale(ctx, key, s.cfg.MaxStaleAge); ok {
			requestsServed.WithLabelValues("stale").Inc()
			slog.Warn("[Aggregator] All sources failed, serving stale cache",
				"cache_key", key,
				"cached_at", entry.CachedAt,
				"expires_at", entry.ExpiresAt)
			res := resultFromEntry(entry, !entry.ValidAt(s.nowFn()))
			res.FailedSources = failed
			return res, nil
		}
	}

	requestsServed.WithLabelValues("failed").Inc()
	slog.Error("[Aggregator] All sources failed",
		"cache_key", key,
		"sources", len(failed))
	return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, describeFailures(failed))
}

// fanOut calls every adapter concurrently and waits for all of them to settle.
// One adapter failing never cancels the others.
func (s *Service) fanOut(ctx context.Context, adapters []source.Source, req source.FetchRequest) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(adapters))

	var g errgroup.Group
	for i, adapter := range adapters {
		g.Go(func() error {
			batch, err := adapter.Fetch(ctx, req)
			outcomes[i] = fetchOutcome{source: adapter.Name(), batch: batch, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *Service) inScope(src v1.Source) []source.Source {
	if src == "" {
		return s.sources
	}
	var out []source.Source
	for _, adapter := range s.sources {
		if adapter.Name() == src {
			out = append(out, adapter)
		}
	}
	return out
}

func (s *Service) normalize(req Request) (Request, error) {
	if req.MaxPages == 0 {
		req.MaxPages = s.cfg.DefaultMaxPages
	}
	if req.MaxPages < 1 || req.MaxPages > source.MaxPagesLimit {
		return req, invalidQueryf("max_pages must be between 1 and %d, got %d", source.MaxPagesLimit, req.MaxPages)
	}
	return req, nil
}

// keyQuery includes pagination depth only when it can change the answer:
// Trustpilot is in scope and the depth differs from the default.
func (s *Service) keyQuery(req Request) cachekey.Query {
	q := cachekey.Query{Hours: req.Hours, Source: req.Source}
	pagedScope := req.Source == "" || req.Source == v1.SourceTrustpilot
	if pagedScope && req.MaxPages != s.cfg.DefaultMaxPages {
		q.Extra = map[string]string{maxPagesDimension: strconv.Itoa(req.MaxPages)}
	}
	return q
}

func resultFromEntry(entry *storage.CacheEntry, stale bool) *Result {
	return &Result{
		Reviews:    entry.Reviews,
		Stats:      entry.Stats,
		Provenance: v1.ProvenanceCached,
		CacheKey:   entry.Key,
		FetchID:    entry.FetchID,
		FetchedAt:  entry.FetchedAt,
		Stale:      stale,
	}
}

func failedSources(outcomes []fetchOutcome) map[v1.Source]string {
	failed := make(map[v1.Source]string)
	for _, o := range outcomes {
		if o.err != nil {
			failed[o.source] = o.err.Error()
		}
	}
	return failed
}

func describeFailures(failed map[v1.Source]string) string {
	names := make([]string, 0, len(failed))
	for src := range failed {
		names = append(names, string(src))
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, failed[v1.Source(name)])
	}
	return strings.Join(parts, "; ")
}

func scopeName(src v1.Source) string {
	if src == "" {
		return "all"
	}
	return string(src)
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", cachekey.ErrInvalidQuery, fmt.Sprintf(format, args...))
}
