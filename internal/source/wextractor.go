package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/sony/gobreaker/v2"
)

const (
	// DefaultLimit is the per-call review cap sent upstream.
	DefaultLimit = 100

	// DefaultMaxPages bounds Trustpilot pagination when the caller does not.
	DefaultMaxPages = 20

	// MaxPagesLimit is the largest pagination depth a caller may request.
	MaxPagesLimit = 50
)

// WextractorConfig configures the Wextractor extraction API adapters.
type WextractorConfig struct {
	APIURL string
	APIKey string

	GoogleAppID      string
	AppleAppID       string
	TrustpilotDomain string

	Client  ClientConfig
	Breaker BreakerConfig
}

// Wextractor talks to the Wextractor review extraction API and hands out one
// Source per platform. Adapters share the HTTP client but trip independently.
type Wextractor struct {
	baseURL string
	apiKey  string
	client  *retryingClient
	sources []Source
	nowFn   func() time.Time
}

// NewWextractor validates cfg and builds the per-platform adapters.
func NewWextractor(cfg WextractorConfig) (*Wextractor, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("wextractor api url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid wextractor api url %q: %w", cfg.APIURL, err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("wextractor api key is required")
	}

	w := &Wextractor{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  newRetryingClient(cfg.Client),
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	w.sources = []Source{
		w.newPlatform(v1.SourceGoogle, "app_id", cfg.GoogleAppID, false, cfg.Breaker),
		w.newPlatform(v1.SourceApple, "app_id", cfg.AppleAppID, false, cfg.Breaker),
		w.newPlatform(v1.SourceTrustpilot, "domain", cfg.TrustpilotDomain, true, cfg.Breaker),
	}

	slog.Info("[Wextractor] Client configured",
		"api_url", baseURL,
		"google_configured", cfg.GoogleAppID != "",
		"apple_configured", cfg.AppleAppID != "",
		"trustpilot_configured", cfg.TrustpilotDomain != "")

	return w, nil
}

// Sources returns the google, apple and trustpilot adapters.
func (w *Wextractor) Sources() []Source {
	out := make([]Source, len(w.sources))
	copy(out, w.sources)
	return out
}

func (w *Wextractor) newPlatform(platform v1.Source, param, target string, paged bool, cfg BreakerConfig) *wextractorSource {
	if cfg.MinRequests == 0 && cfg.FailureRatio == 0 {
		cfg = DefaultBreakerConfig()
	}
	return &wextractorSource{
		api:      w,
		platform: platform,
		param:    param,
		target:   strings.TrimSpace(target),
		paged:    paged,
		breaker:  newBreaker(string(platform), cfg),
	}
}

type wextractorSource struct {
	api      *Wextractor
	platform v1.Source
	param    string // query parameter identifying the target (app_id or domain)
	target   string
	paged    bool
	breaker  *gobreaker.CircuitBreaker[Batch]
}

func (s *wextractorSource) Name() v1.Source {
	return s.platform
}

func (s *wextractorSource) Fetch(ctx context.Context, req FetchRequest) (Batch, error) {
	if s.target == "" {
		FetchResults.WithLabelValues(string(s.platform), "error").Inc()
		return Batch{}, Unavailable(s.platform, fmt.Errorf("no %s configured", s.param))
	}

	batch, err := s.breaker.Execute(func() (Batch, error) {
		return s.fetch(ctx, req)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "open"
		}
		FetchResults.WithLabelValues(string(s.platform), result).Inc()
		slog.Warn("[Wextractor] Fetch failed",
			"source", s.platform,
			"hours", req.Hours,
			"error", err)
		return Batch{}, Unavailable(s.platform, err)
	}

	FetchResults.WithLabelValues(string(s.platform), "ok").Inc()
	return batch, nil
}

func (s *wextractorSource) fetch(ctx context.Context, req FetchRequest) (Batch, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	pages := 1
	if s.paged {
		pages = req.MaxPages
		if pages <= 0 {
			pages = DefaultMaxPages
		}
		if pages > MaxPagesLimit {
			pages = MaxPagesLimit
		}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.api.apiKey)
	header.Set("Accept", "application/json")

	endpoint := s.api.baseURL + "/reviews/" + string(s.platform)
	reviews := make([]v1.RawReview, 0)
	fetched := 0

	for page := 1; page <= pages; page++ {
		params := url.Values{}
		params.Set(s.param, s.target)
		params.Set("hours", strconv.Itoa(req.Hours))
		params.Set("limit", strconv.Itoa(limit))
		if s.paged {
			params.Set("page", strconv.Itoa(page))
		}

		body, err := s.api.client.get(ctx, endpoint+"?"+params.Encode(), header)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
				return Batch{}, fmt.Errorf("authentication rejected: %w", err)
			}
			return Batch{}, err
		}

		var resp wireResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Batch{}, fmt.Errorf("decode %s page %d: %w", s.platform, page, err)
		}

		fetched = page
		reviews = append(reviews, resp.toRaw(s.platform)...)

		if !s.paged || len(resp.Reviews) < limit {
			break
		}
	}

	slog.Info("[Wextractor] Fetched reviews",
		"source", s.platform,
		"hours", req.Hours,
		"reviews", len(reviews),
		"pages", fetched)

	return Batch{Reviews: reviews, FetchedAt: s.api.nowFn()}, nil
}

type wireResponse struct {
	Reviews []wireReview `json:"reviews"`
}

type wireReview struct {
	ID           string  `json:"id"`
	Author       string  `json:"author"`
	Rating       float64 `json:"rating"`
	Title        *string `json:"title"`
	Content      string  `json:"content"`
	Date         string  `json:"date"`
	HelpfulCount *int    `json:"helpful_count"`
	AppVersion   *string `json:"app_version"`
}

var wireDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (r wireResponse) toRaw(platform v1.Source) []v1.RawReview {
	out := make([]v1.RawReview, 0, len(r.Reviews))
	for _, w := range r.Reviews {
		date, ok := parseWireDate(w.Date)
		if !ok {
			slog.Warn("[Wextractor] Skipping review with unparsable date",
				"source", platform,
				"id", w.ID,
				"date", w.Date)
			continue
		}

		rating := 0
		if w.Rating == math.Trunc(w.Rating) {
			rating = int(w.Rating)
		}

		out = append(out, v1.RawReview{
			ID:           w.ID,
			Author:       w.Author,
			Rating:       rating,
			Title:        w.Title,
			Content:      w.Content,
			Date:         date,
			HelpfulCount: w.HelpfulCount,
			AppVersion:   w.AppVersion,
		})
	}
	return out
}

func parseWireDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range wireDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
