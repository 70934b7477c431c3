package source

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds per-platform circuit breaker settings.
type BreakerConfig struct {
	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// Interval is the cyclic period of the closed state for clearing counts.
	// 0 means counts are never cleared while closed.
	Interval time.Duration

	// FailureRatio trips the breaker once reached (0.5 = half the calls failed).
	FailureRatio float64

	// MinRequests is the minimum number of calls before FailureRatio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Timeout:      60 * time.Second,
		Interval:     5 * time.Minute,
		FailureRatio: 0.6,
		MinRequests:  3,
	}
}

var (
	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reviewlens_source_breaker_state",
			Help: "Current state of the per-source circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	// FetchResults counts adapter fetches by source and result (ok, error, open).
	FetchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_source_fetch_total",
			Help: "Total number of review source fetches by result",
		},
		[]string{"source", "result"},
	)
)

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker[Batch] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		// A caller giving up is not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("[Wextractor] Circuit breaker state change",
				"source", name,
				"from", from.String(),
				"to", to.String())
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[Batch](settings)
}
