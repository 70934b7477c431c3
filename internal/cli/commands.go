package cli

import (
	"fmt"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	"github.com/reviewlens/reviewlens/internal/core/storage"
	"github.com/reviewlens/reviewlens/internal/reviews"
	"github.com/spf13/cobra"
)

type statsView struct {
	Database   string        `json:"database" yaml:"database"`
	CacheStats storage.Stats `json:"cache_stats" yaml:"cache_stats"`
	TTLSeconds int64         `json:"ttl_seconds" yaml:"ttl_seconds"`
}

type clearView struct {
	Removed int    `json:"removed" yaml:"removed"`
	Message string `json:"message" yaml:"message"`
}

type fetchView struct {
	CacheKey      string            `json:"cache_key" yaml:"cache_key"`
	Cached        bool              `json:"cached" yaml:"cached"`
	Stale         bool              `json:"stale,omitempty" yaml:"stale,omitempty"`
	FetchID       string            `json:"fetch_id" yaml:"fetch_id"`
	FetchedAt     time.Time         `json:"fetched_at" yaml:"fetched_at"`
	Stats         v1.AggregateStats `json:"stats" yaml:"stats"`
	FailedSources map[string]string `json:"failed_sources,omitempty" yaml:"failed_sources,omitempty"`
	Reviews       []v1.Review       `json:"reviews,omitempty" yaml:"reviews,omitempty"`
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show review cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.Close()

			stats, err := e.cache.Statistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading cache stats: %w", err)
			}
			return render(cmd.OutOrStdout(), opts.output, statsView{
				Database:   e.cfg.Database.Path,
				CacheStats: stats,
				TTLSeconds: int64(e.cache.TTL(cachekey.DefaultHours).Seconds()),
			})
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove one cache entry, or every entry when --key is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.Close()

			if key != "" {
				removed, err := e.cache.Invalidate(cmd.Context(), key)
				if err != nil {
					return fmt.Errorf("clearing cache entry: %w", err)
				}
				view := clearView{Message: fmt.Sprintf("No cache entry for %s", key)}
				if removed {
					view = clearView{Removed: 1, Message: fmt.Sprintf("Cleared cache entry %s", key)}
				}
				return render(cmd.OutOrStdout(), opts.output, view)
			}

			removed, err := e.cache.InvalidateAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			return render(cmd.OutOrStdout(), opts.output, clearView{
				Removed: removed,
				Message: "Cleared all cache entries",
			})
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Cache key to remove (e.g. reviews_24h_google)")
	return cmd
}

func newCleanupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired cache entries and unreferenced reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.Close()

			removed, err := e.cache.Cleanup(cmd.Context())
			if err != nil {
				return fmt.Errorf("cleaning up cache: %w", err)
			}
			return render(cmd.OutOrStdout(), opts.output, clearView{
				Removed: removed,
				Message: fmt.Sprintf("Removed %d expired cache entries", removed),
			})
		},
	}
}

func newFetchCmd(opts *options) *cobra.Command {
	var (
		hours       int
		sourceName  string
		force       bool
		noCache     bool
		maxPages    int
		showReviews bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch reviews through the cache, the same way the API does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := v1.ParseSource(sourceName)
			if err != nil {
				return usageErrorf("%v", err)
			}
			if cmd.Flags().Changed("max-pages") && maxPages <= 0 {
				return usageErrorf("invalid --max-pages %d (must be 1-50)", maxPages)
			}

			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.Close()

			sources, err := e.cfg.Sources.BuildSources()
			if err != nil {
				return err
			}

			svc := reviews.NewService(e.cache, sources, reviews.Config{
				Limit:           e.cfg.Sources.Limit,
				DefaultMaxPages: e.cfg.Sources.DefaultMaxPages,
				StaleFallback:   e.cfg.Cache.StaleFallback,
				MaxStaleAge:     e.cfg.Cache.MaxStaleAgeDuration(),
			})

			res, err := svc.GetReviews(cmd.Context(), reviews.Request{
				Hours:        hours,
				Source:       src,
				UseCache:     !noCache,
				ForceRefresh: force,
				MaxPages:     maxPages,
			})
			if err != nil {
				return err
			}

			view := fetchView{
				CacheKey:  res.CacheKey,
				Cached:    res.Provenance == v1.ProvenanceCached,
				Stale:     res.Stale,
				FetchID:   res.FetchID,
				FetchedAt: res.FetchedAt,
				Stats:     res.Stats,
			}
			if len(res.FailedSources) > 0 {
				view.FailedSources = make(map[string]string, len(res.FailedSources))
				for s, reason := range res.FailedSources {
					view.FailedSources[string(s)] = reason
				}
			}
			if showReviews {
				view.Reviews = res.Reviews
			}
			return render(cmd.OutOrStdout(), opts.output, view)
		},
	}

	cmd.Flags().IntVar(&hours, "hours", cachekey.DefaultHours, "Time window in hours (1-168)")
	cmd.Flags().StringVar(&sourceName, "source", "", "Single platform: google, apple or trustpilot (default all)")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the cache read and refresh the entry")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the cache entirely (no read, no write-back)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Trustpilot pagination depth (1-50, default from config)")
	cmd.Flags().BoolVar(&showReviews, "reviews", false, "Include the review list in the output")
	return cmd
}
