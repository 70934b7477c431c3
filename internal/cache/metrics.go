package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultExpired = "expired"
	resultStale   = "stale"
	resultError   = "error"
	resultOK      = "ok"
)

var (
	// Lookups counts cache reads by outcome (hit, miss, expired, stale, error).
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_lookups_total",
			Help: "Total number of review cache lookups by result",
		},
		[]string{"result"},
	)

	// Writes counts cache write-throughs by outcome (ok, error).
	Writes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_writes_total",
			Help: "Total number of review cache writes by result",
		},
		[]string{"result"},
	)

	// Evictions counts entries removed by cleanup or invalidation.
	Evictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_evictions_total",
			Help: "Total number of review cache entries removed",
		},
		[]string{"reason"},
	)
)
