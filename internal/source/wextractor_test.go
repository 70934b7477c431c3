package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	v1 "github.com/reviewlens/reviewlens/internal/api/v1"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) WextractorConfig {
	return WextractorConfig{
		APIURL:           url,
		APIKey:           "secret-key",
		GoogleAppID:      "com.example.app",
		AppleAppID:       "123456789",
		TrustpilotDomain: "example.com",
		Client: ClientConfig{
			Timeout:      2 * time.Second,
			MaxRetries:   2,
			RetryWaitMin: time.Millisecond,
			RetryWaitMax: 5 * time.Millisecond,
		},
		Breaker: BreakerConfig{
			Timeout:      time.Minute,
			FailureRatio: 0.5,
			MinRequests:  2,
		},
	}
}

func sourceByName(t *testing.T, w *Wextractor, name v1.Source) Source {
	t.Helper()
	for _, s := range w.Sources() {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("no adapter for %s", name)
	return nil
}

func TestWextractor_FetchGoogle(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/reviews/google", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "com.example.app", r.URL.Query().Get("app_id"))
		assert.Equal(t, "24", r.URL.Query().Get("hours"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"reviews":[
			{"id":"g1","author":"Ann","rating":4.0,"title":"Nice","content":"ok","date":"2025-05-01T10:00:00Z","helpful_count":3,"app_version":"1.2"},
			{"id":"g2","rating":5,"content":"great","date":"2025-05-01T08:30:00"},
			{"id":"g3","rating":5,"content":"no date"}
		]}`)
	}))
	defer server.Close()

	w, err := NewWextractor(testConfig(server.URL + "/"))
	require.NoError(t, err)
	w.nowFn = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

	batch, err := sourceByName(t, w, v1.SourceGoogle).Fetch(context.Background(), FetchRequest{Hours: 24})
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Len(t, batch.Reviews, 2, "review without a date is skipped")

	first := batch.Reviews[0]
	require.Equal(t, "g1", first.ID)
	require.Equal(t, 4, first.Rating)
	require.Equal(t, "Nice", *first.Title)
	require.Equal(t, 3, *first.HelpfulCount)
	require.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), first.Date)

	second := batch.Reviews[1]
	require.Empty(t, second.Author)
	require.Nil(t, second.Title)
	require.Equal(t, time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC), second.Date)
	require.Equal(t, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), batch.FetchedAt)
}

func TestWextractor_TrustpilotPaging(t *testing.T) {
	pageSizes := map[string]int{"1": 2, "2": 2, "3": 1}

	tests := []struct {
		name      string
		maxPages  int
		wantCalls int32
		wantCount int
	}{
		{"stops on short page", 10, 3, 5},
		{"stops at max pages", 2, 2, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, "/reviews/trustpilot", r.URL.Path)
				assert.Equal(t, "example.com", r.URL.Query().Get("domain"))

				page := r.URL.Query().Get("page")
				fmt.Fprint(w, `{"reviews":[`)
				for i := 0; i < pageSizes[page]; i++ {
					if i > 0 {
						fmt.Fprint(w, ",")
					}
					fmt.Fprintf(w, `{"id":"p%s-%d","rating":3,"content":"x","date":"2025-05-01"}`, page, i)
				}
				fmt.Fprint(w, `]}`)
			}))
			defer server.Close()

			w, err := NewWextractor(testConfig(server.URL))
			require.NoError(t, err)

			batch, err := sourceByName(t, w, v1.SourceTrustpilot).Fetch(context.Background(), FetchRequest{
				Hours:    48,
				Limit:    2,
				MaxPages: tc.maxPages,
			})
			require.NoError(t, err)
			require.Equal(t, tc.wantCalls, atomic.LoadInt32(&calls))
			require.Len(t, batch.Reviews, tc.wantCount)
		})
	}
}

func TestWextractor_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		switch n {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, `{"reviews":[]}`)
		}
	}))
	defer server.Close()

	w, err := NewWextractor(testConfig(server.URL))
	require.NoError(t, err)

	batch, err := sourceByName(t, w, v1.SourceApple).Fetch(context.Background(), FetchRequest{Hours: 6})
	require.NoError(t, err)
	require.Empty(t, batch.Reviews)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWextractor_AuthFailureIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad token"}`)
	}))
	defer server.Close()

	w, err := NewWextractor(testConfig(server.URL))
	require.NoError(t, err)

	_, err = sourceByName(t, w, v1.SourceGoogle).Fetch(context.Background(), FetchRequest{Hours: 24})
	require.ErrorIs(t, err, ErrSourceUnavailable)
	require.ErrorContains(t, err, "authentication rejected")
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWextractor_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Client.MaxRetries = 0
	w, err := NewWextractor(cfg)
	require.NoError(t, err)
	src := sourceByName(t, w, v1.SourceApple)

	for i := 0; i < 2; i++ {
		_, err := src.Fetch(context.Background(), FetchRequest{Hours: 24})
		require.ErrorIs(t, err, ErrSourceUnavailable)
	}

	_, err = src.Fetch(context.Background(), FetchRequest{Hours: 24})
	require.ErrorIs(t, err, ErrSourceUnavailable)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker must not reach upstream")
}

func TestWextractor_UnconfiguredPlatform(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.TrustpilotDomain = ""
	w, err := NewWextractor(cfg)
	require.NoError(t, err)

	_, err = sourceByName(t, w, v1.SourceTrustpilot).Fetch(context.Background(), FetchRequest{Hours: 24})
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestNewWextractor_Validation(t *testing.T) {
	_, err := NewWextractor(WextractorConfig{APIKey: "k"})
	require.ErrorContains(t, err, "api url is required")

	_, err = NewWextractor(WextractorConfig{APIURL: "https://api.example.com"})
	require.ErrorContains(t, err, "api key is required")

	w, err := NewWextractor(WextractorConfig{APIURL: "https://api.example.com", APIKey: "k"})
	require.NoError(t, err)
	require.Len(t, w.Sources(), len(v1.AllSources))
}

func TestFixture_FetchIsRelativeToNow(t *testing.T) {
	now := time.Date(2025, 2, 2, 2, 0, 0, 0, time.UTC)

	for _, platform := range v1.AllSources {
		f := NewFixture(platform)
		f.nowFn = func() time.Time { return now }

		batch, err := f.Fetch(context.Background(), FetchRequest{Hours: 24})
		require.NoError(t, err)
		require.NotEmpty(t, batch.Reviews, platform)
		require.Equal(t, now, batch.FetchedAt)
		for _, r := range batch.Reviews {
			require.True(t, r.Date.Before(now), "fixture review %s dated in the future", r.ID)
		}
	}

	limited, err := NewFixture(v1.SourceGoogle).Fetch(context.Background(), FetchRequest{Hours: 24, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited.Reviews, 1)
}

func TestParseRetryAfter(t *testing.T) {
	require.Equal(t, 3*time.Second, parseRetryAfter("3"))
	require.Zero(t, parseRetryAfter(""))
	require.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
	require.Zero(t, parseRetryAfter(strconv.Itoa(-1)))
}
