package cache

import "context"

// Store is the process-wide cache consumed by resource pipelines.
//
// Implementations must be safe for concurrent use; the store is shared
// mutable state across all in-flight requests.
type Store interface {
	// Get returns the entry stored under key, or ok=false on a miss. An
	// entry past its TTL is evicted and reported as a miss.
	Get(ctx context.Context, key string) (*Entry, bool)

	// Set stores a value under key with the TTL resolved from the store
	// config and the per-resource options. Backend failures are logged and
	// counted, never surfaced: a broken cache must not fail a read.
	Set(ctx context.Context, key string, value any, resourceName string, opts Options)

	// InvalidateResource removes every entry belonging to the resource and
	// returns the number removed.
	InvalidateResource(ctx context.Context, resourceName string) int

	// InvalidateResourceByID removes entries whose key embeds the given
	// resource id and returns the number removed.
	InvalidateResourceByID(ctx context.Context, resourceName, id string) int

	// Enabled reports whether caching is on.
	Enabled() bool

	// ResourceTTL returns the override-or-default TTL for a resource in
	// seconds.
	ResourceTTL(resourceName string) int

	// EffectiveTTL resolves the TTL a new entry would get: per-resource
	// override, then the options TTL, then the global default.
	EffectiveTTL(resourceName string, opts Options) int

	// Reset removes every entry. Intended for test isolation.
	Reset(ctx context.Context)
}
