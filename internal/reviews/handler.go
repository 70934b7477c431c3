package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	httperr "github.com/reviewlens/reviewlens/internal/core/errors"
	"github.com/reviewlens/reviewlens/internal/core/storage"
)

// CacheAdmin is the operator surface of the cache service.
type CacheAdmin interface {
	Get(ctx context.Context, key string) (*storage.CacheEntry, bool)
	Invalidate(ctx context.Context, key string) (bool, error)
	InvalidateAll(ctx context.Context) (int, error)
	Cleanup(ctx context.Context) (int, error)
	Statistics(ctx context.Context) (storage.Stats, error)
	TTL(hours int) time.Duration
}

// Handler exposes the review and cache administration endpoints.
type Handler struct {
	service *Service
	admin   CacheAdmin
}

// NewHandler creates a new review HTTP handler.
func NewHandler(service *Service, admin CacheAdmin) *Handler {
	return &Handler{service: service, admin: admin}
}

// RegisterRoutes registers all review API routes on the given router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/reviews")

	g.GET("", h.HandleGetReviews)
	g.GET("/google", h.handleSource(v1.SourceGoogle))
	g.GET("/apple", h.handleSource(v1.SourceApple))
	g.GET("/trustpilot", h.handleSource(v1.SourceTrustpilot))

	g.GET("/cache/stats", h.HandleCacheStats)
	g.DELETE("/cache", h.HandleClearCache)
	g.POST("/cache/cleanup", h.HandleCleanup)
	g.GET("/cache/test", h.HandleCacheProbe)
}

type reviewsQuery struct {
	Hours        int    `form:"hours,default=24"`
	Cached       bool   `form:"cached,default=true"`
	ForceRefresh bool   `form:"force_refresh,default=false"`
	MaxPages     *int   `form:"max_pages"`
	Source       string `form:"source"`
}

func (q reviewsQuery) request(src v1.Source) Request {
	req := Request{
		Hours:        q.Hours,
		Source:       src,
		UseCache:     q.Cached,
		ForceRefresh: q.ForceRefresh,
	}
	if q.MaxPages != nil {
		req.MaxPages = *q.MaxPages
		if req.MaxPages == 0 {
			// 0 would select the default; an explicit 0 is out of range.
			req.MaxPages = -1
		}
	}
	return req
}

// HandleGetReviews handles GET /api/reviews
// Query parameters: hours, cached, force_refresh, max_pages, source
func (h *Handler) HandleGetReviews(c *gin.Context) {
	var query reviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeInvalidQuery(c, err)
		return
	}

	src, err := v1.ParseSource(query.Source)
	if err != nil {
		writeInvalidQuery(c, err)
		return
	}

	h.serveReviews(c, query.request(src))
}

func (h *Handler) handleSource(src v1.Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query reviewsQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			writeInvalidQuery(c, err)
			return
		}
		h.serveReviews(c, query.request(src))
	}
}

func (h *Handler) serveReviews(c *gin.Context, req Request) {
	res, err := h.service.GetReviews(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, cachekey.ErrInvalidQuery):
			writeInvalidQuery(c, err)
		case errors.Is(err, ErrUpstreamUnavailable):
			c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
				ErrorType: httperr.HttpUpstreamUnavailableError,
				Message:   "Review sources are unavailable and no cached data exists",
				Details:   err.Error(),
			})
		default:
			slog.Error("[Reviews] Request failed", "hours", req.Hours, "source", req.Source, "error", err)
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   "Failed to fetch reviews",
				Details:   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, newReviewsResponse(res, req.Hours))
}

// HandleCacheStats handles GET /api/reviews/cache/stats
func (h *Handler) HandleCacheStats(c *gin.Context) {
	stats, err := h.admin.Statistics(c.Request.Context())
	if err != nil {
		writeStoreError(c, "Failed to read cache statistics", err)
		return
	}

	c.JSON(http.StatusOK, CacheStatsResponse{
		CacheStats: stats,
		TTLSeconds: int64(h.admin.TTL(cachekey.DefaultHours).Seconds()),
		Message:    "Cache statistics retrieved successfully",
	})
}

// HandleClearCache handles DELETE /api/reviews/cache
// Query parameters: cache_key (optional; clears everything when absent)
func (h *Handler) HandleClearCache(c *gin.Context) {
	key := c.Query("cache_key")

	if key != "" {
		existed, err := h.admin.Invalidate(c.Request.Context(), key)
		if err != nil {
			writeStoreError(c, "Failed to clear cache entry", err)
			return
		}
		removed := 0
		if existed {
			removed = 1
		}
		c.JSON(http.StatusOK, MessageResponse{
			Message: fmt.Sprintf("Cache cleared for key: %s", key),
			Removed: removed,
		})
		return
	}

	removed, err := h.admin.InvalidateAll(c.Request.Context())
	if err != nil {
		writeStoreError(c, "Failed to clear cache", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{
		Message: "All cache cleared successfully",
		Removed: removed,
	})
}

// HandleCleanup handles POST /api/reviews/cache/cleanup
func (h *Handler) HandleCleanup(c *gin.Context) {
	removed, err := h.admin.Cleanup(c.Request.Context())
	if err != nil {
		writeStoreError(c, "Failed to clean up cache", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{
		Message: "Expired cache entries cleaned up successfully",
		Removed: removed,
	})
}

// HandleCacheProbe handles GET /api/reviews/cache/test
// Reports whether a valid entry exists for the query without calling any source.
func (h *Handler) HandleCacheProbe(c *gin.Context) {
	var query reviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeInvalidQuery(c, err)
		return
	}
	src, err := v1.ParseSource(query.Source)
	if err != nil {
		writeInvalidQuery(c, err)
		return
	}

	key, err := h.service.CacheKey(query.request(src))
	if err != nil {
		writeInvalidQuery(c, err)
		return
	}

	entry, ok := h.admin.Get(c.Request.Context(), key)
	if !ok {
		c.JSON(http.StatusOK, CacheProbeResponse{
			Status:   "cache_miss",
			CacheKey: key,
			Message:  "No valid cache entry; the next request will fetch from sources",
		})
		return
	}

	c.JSON(http.StatusOK, CacheProbeResponse{
		Status:       "cache_hit",
		CacheKey:     key,
		ReviewsCount: len(entry.Reviews),
		CachedAt:     &entry.CachedAt,
		ExpiresAt:    &entry.ExpiresAt,
		Message:      "Valid cache entry found",
	})
}

func writeInvalidQuery(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
		ErrorType: httperr.HttpInvalidQueryError,
		Message:   "Invalid query parameters",
		Details:   err.Error(),
	})
}

func writeStoreError(c *gin.Context, message string, err error) {
	slog.Error("[Reviews] Cache administration failed", "error", err)
	c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
		ErrorType: httperr.HttpStoreUnavailableError,
		Message:   message,
		Details:   err.Error(),
	})
}
