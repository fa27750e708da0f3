// Package cache provides the process-wide resource response cache.
//
// The store keeps one entry per (resource, URI, validated parameters) key
// with TTL expiry, per-resource TTL overrides and bounded-size eviction.
// Entries are written only after a fetched value has passed schema
// validation, so a hit always serves a complete validated payload.
//
// # Basic Usage
//
//	store := cache.NewMemoryStore(cache.Config{
//		Enabled:       true,
//		Strategy:      cache.StrategyTimeBased,
//		MaxSize:       1000,
//		MaxAgeSeconds: 300,
//		PerResourceTTL: map[string]int{
//			"Tag": 900,
//		},
//	})
//
//	key := cache.GenerateKey("Machine", uri, params, false)
//	if entry, ok := store.Get(ctx, key); ok {
//		// serve entry.Value
//	}
//
// # Key Determinism
//
// GenerateKey is a pure function of (resource, path, parameters,
// includeQueryParams). Parameter keys are sorted before joining, so
// insertion order never changes the key.
//
// # Backends
//
// NewMemoryStore is the default: a mutex-guarded map plus an eviction list,
// private to the process. NewRedisStore is an opt-in persistent backend with
// the same interface; resource-scoped invalidation walks the key prefix with
// SCAN.
//
// # Metrics
//
//   - mcp_cache_hits_total{backend} / mcp_cache_misses_total{backend}
//   - mcp_cache_evictions_total{backend,reason}
//   - mcp_cache_invalidations_total{backend,scope}
//   - mcp_cache_entries{backend}
//   - mcp_cache_errors_total{operation}
package cache
