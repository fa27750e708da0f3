package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_hits_total",
			Help: "Total number of resource cache hits by backend",
		},
		[]string{"backend"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_misses_total",
			Help: "Total number of resource cache misses by backend",
		},
		[]string{"backend"},
	)

	cacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_evictions_total",
			Help: "Total number of cache evictions by backend and reason",
		},
		[]string{"backend", "reason"}, // reason: "expired", "size"
	)

	cacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_invalidations_total",
			Help: "Total number of explicitly invalidated entries by backend and scope",
		},
		[]string{"backend", "scope"}, // scope: "resource", "resource_id"
	)

	cacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcp_cache_entries",
			Help: "Current number of live cache entries by backend",
		},
		[]string{"backend"},
	)

	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_cache_errors_total",
			Help: "Total number of cache backend errors by operation",
		},
		[]string{"operation"}, // "get", "set", "invalidate", "reset"
	)
)
