package cache

// Strategy selects the eviction policy of a bounded store.
type Strategy string

const (
	// StrategyTimeBased evicts oldest-inserted entries when the store is
	// over capacity.
	StrategyTimeBased Strategy = "time-based"

	// StrategyLRU evicts least-recently-accessed entries when the store is
	// over capacity.
	StrategyLRU Strategy = "lru"
)

// Config is the store-wide configuration, resolved once at construction.
type Config struct {
	// Enabled turns caching on. A disabled store answers every Get with a
	// miss and drops every Set.
	Enabled bool

	// Strategy selects the eviction policy.
	Strategy Strategy

	// MaxSize bounds the number of entries. Zero means unbounded.
	MaxSize int

	// MaxAgeSeconds is the global default TTL.
	MaxAgeSeconds int

	// PerResourceTTL overrides the TTL for specific resources by name.
	PerResourceTTL map[string]int
}

// Directives are the Cache-Control response directives of a resource.
type Directives struct {
	Private        bool `json:"private" mapstructure:"private"`
	MustRevalidate bool `json:"must_revalidate" mapstructure:"must_revalidate"`
	Immutable      bool `json:"immutable" mapstructure:"immutable"`
}

// Options are the per-resource cache options, resolved at pipeline
// construction and mutable via an explicit update operation.
type Options struct {
	// Enabled turns caching on for the resource.
	Enabled bool

	// TTLSeconds is the resource TTL. Zero falls back to the store's
	// per-resource override or global default.
	TTLSeconds int

	// IncludeQueryParams adds the URI query string to cache keys.
	IncludeQueryParams bool

	// CacheControl are the directives emitted on rendered responses.
	CacheControl Directives
}

// resolveTTL picks the effective TTL for a new entry: resource-specific
// override, then the per-resource options TTL, then the global default.
func (c Config) resolveTTL(resourceName string, opts Options) int {
	if ttl, ok := c.PerResourceTTL[resourceName]; ok {
		return ttl
	}
	if opts.TTLSeconds > 0 {
		return opts.TTLSeconds
	}
	return c.MaxAgeSeconds
}

// ResourceTTL returns the TTL the store would apply to a resource:
// per-resource override or the global default.
func (c Config) ResourceTTL(resourceName string) int {
	if ttl, ok := c.PerResourceTTL[resourceName]; ok {
		return ttl
	}
	return c.MaxAgeSeconds
}
