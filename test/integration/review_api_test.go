//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	"github.com/reviewlens/reviewlens/internal/core/storage/sqlite"
	"github.com/reviewlens/reviewlens/internal/maintenance"
	"github.com/reviewlens/reviewlens/internal/migrations"
	"github.com/reviewlens/reviewlens/internal/reviews"
	"github.com/reviewlens/reviewlens/internal/server"
	"github.com/reviewlens/reviewlens/internal/source"
	"github.com/stretchr/testify/require"
)

// upstream is a fake extraction API serving two reviews per platform.
type upstream struct {
	server *httptest.Server
	calls  atomic.Int32
	down   atomic.Bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{}
	recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	older := time.Now().UTC().Add(-3 * time.Hour).Format(time.RFC3339)

	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		if u.down.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"reviews":[
			{"id":"r1","author":"Ann","rating":5,"content":"great","date":"%s"},
			{"id":"r2","author":"Bo","rating":2,"content":"meh","date":"%s"}
		]}`, recent, older)
	}))
	t.Cleanup(u.server.Close)
	return u
}

type integrationHarness struct {
	baseURL       string
	client        *http.Client
	upstream      *upstream
	cancel        context.CancelFunc
	serverDone    chan error
	schedulerDone chan error
	store         *sqlite.Adapter
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}

	if h.schedulerDone != nil {
		select {
		case <-h.schedulerDone:
		case <-time.After(5 * time.Second):
			t.Log("scheduler shutdown timed out")
		}
	}

	require.NoError(t, h.store.Close())
}

func startHarness(t *testing.T, ttl, cleanupInterval time.Duration) *integrationHarness {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "reviews.db"), 4)
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(store.DB(), true))
	require.NoError(t, store.ValidateSchema(context.Background()))

	up := newUpstream(t)
	wx, err := source.NewWextractor(source.WextractorConfig{
		APIURL:           up.server.URL,
		APIKey:           "integration-key",
		GoogleAppID:      "com.example.app",
		AppleAppID:       "123456",
		TrustpilotDomain: "example.com",
		Client:           source.ClientConfig{Timeout: 2 * time.Second, MaxRetries: 0},
		Breaker:          source.BreakerConfig{Timeout: time.Second, FailureRatio: 1, MinRequests: 100},
	})
	require.NoError(t, err)

	cacheSvc := cache.NewService(store, cachekey.NewPolicy(ttl))
	reviewSvc := reviews.NewService(cacheSvc, wx.Sources(), reviews.Config{StaleFallback: true})

	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))
	httpServer := server.New(addr, store, "release")
	reviews.NewHandler(reviewSvc, cacheSvc).RegisterRoutes(httpServer.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	var schedulerDone chan error
	if cleanupInterval > 0 {
		schedulerDone = make(chan error, 1)
		scheduler := maintenance.NewScheduler(cleanupInterval, cacheSvc)
		go func() { schedulerDone <- scheduler.Start(ctx) }()
	}

	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:       baseURL,
		client:        &http.Client{Timeout: 5 * time.Second},
		upstream:      up,
		cancel:        cancel,
		serverDone:    serverDone,
		schedulerDone: schedulerDone,
		store:         store,
	}
}

type reviewsPayload struct {
	Reviews []struct {
		ID     string `json:"id"`
		Source string `json:"source"`
	} `json:"reviews"`
	Stats struct {
		TotalReviews  int     `json:"total_reviews"`
		AverageRating float64 `json:"average_rating"`
	} `json:"stats"`
	Cached   bool   `json:"cached"`
	CacheKey string `json:"cache_key"`
	Stale    bool   `json:"stale"`
}

func TestReviewAPI_FetchThenServeFromCache(t *testing.T) {
	h := startHarness(t, time.Hour, 0)
	defer h.close(t)

	status, body := get(t, h.client, h.baseURL+"/api/reviews?hours=24")
	require.Equal(t, http.StatusOK, status, string(body))

	var first reviewsPayload
	require.NoError(t, json.Unmarshal(body, &first))
	require.False(t, first.Cached)
	require.Equal(t, "reviews_24h", first.CacheKey)
	require.Equal(t, 6, first.Stats.TotalReviews)
	require.Equal(t, 3.5, first.Stats.AverageRating)
	require.Equal(t, "apple_r1", first.Reviews[0].ID, "ties on date are ordered by id")

	calls := h.upstream.calls.Load()

	status, body = get(t, h.client, h.baseURL+"/api/reviews?hours=24")
	require.Equal(t, http.StatusOK, status, string(body))

	var second reviewsPayload
	require.NoError(t, json.Unmarshal(body, &second))
	require.True(t, second.Cached)
	require.Equal(t, first.Reviews, second.Reviews)
	require.Equal(t, calls, h.upstream.calls.Load(), "cache hit must not reach upstream")
}

func TestReviewAPI_OutageFallsBackToCachedEntry(t *testing.T) {
	h := startHarness(t, time.Hour, 0)
	defer h.close(t)

	status, body := get(t, h.client, h.baseURL+"/api/reviews/apple?hours=12")
	require.Equal(t, http.StatusOK, status, string(body))

	h.upstream.down.Store(true)

	status, body = get(t, h.client, h.baseURL+"/api/reviews/apple?hours=12&force_refresh=true")
	require.Equal(t, http.StatusOK, status, string(body))
	var fallback reviewsPayload
	require.NoError(t, json.Unmarshal(body, &fallback))
	require.True(t, fallback.Cached)
	require.Equal(t, 2, fallback.Stats.TotalReviews)

	status, body = request(t, h.client, http.MethodDelete, h.baseURL+"/api/reviews/cache?cache_key=reviews_12h_apple")
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = get(t, h.client, h.baseURL+"/api/reviews/apple?hours=12")
	require.Equal(t, http.StatusServiceUnavailable, status, string(body))
}

func TestReviewAPI_SchedulerRemovesExpiredEntries(t *testing.T) {
	h := startHarness(t, 300*time.Millisecond, 100*time.Millisecond)
	defer h.close(t)

	status, body := get(t, h.client, h.baseURL+"/api/reviews/google")
	require.Equal(t, http.StatusOK, status, string(body))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, body = get(t, h.client, h.baseURL+"/api/reviews/cache/stats")
		require.Equal(t, http.StatusOK, status, string(body))

		var stats struct {
			CacheStats struct {
				EntryCount   int `json:"entry_count"`
				TotalReviews int `json:"total_reviews"`
			} `json:"cache_stats"`
		}
		require.NoError(t, json.Unmarshal(body, &stats))
		if stats.CacheStats.EntryCount == 0 && stats.CacheStats.TotalReviews == 0 {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("expired entry was not removed by the cleanup scheduler")
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy at %s", baseURL)
}

func get(t *testing.T, client *http.Client, endpoint string) (int, []byte) {
	t.Helper()
	return request(t, client, http.MethodGet, endpoint)
}

func request(t *testing.T, client *http.Client, method, endpoint string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, endpoint, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
