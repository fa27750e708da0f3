package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore is an optional Redis-backed Store for deployments that want the
// cache to survive process restarts. Semantics match MemoryStore; there is
// still no coherence guarantee between replicas beyond what Redis provides.
//
// Bounded-size eviction is delegated to the Redis maxmemory policy, so
// Config.MaxSize and Config.Strategy are ignored here.
type RedisStore struct {
	config Config
	client *redis.Client
	logger zerolog.Logger
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(cfg Config, client *redis.Client, logger zerolog.Logger) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		config: cfg,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool) {
	if !s.config.Enabled {
		return nil, false
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			cacheErrors.WithLabelValues("get").Inc()
			s.logger.Warn().Err(err).Str("key", key).Msg("Redis get failed")
		}
		cacheMisses.WithLabelValues(backendRedis).Inc()
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, dropping")
		_ = s.client.Del(ctx, key).Err()
		cacheMisses.WithLabelValues(backendRedis).Inc()
		return nil, false
	}

	// The Redis TTL normally expires entries for us; the explicit check
	// covers clock skew and entries written with a longer residual TTL.
	if entry.Expired(s.now()) {
		_ = s.client.Del(ctx, key).Err()
		cacheEvictions.WithLabelValues(backendRedis, "expired").Inc()
		cacheMisses.WithLabelValues(backendRedis).Inc()
		return nil, false
	}

	cacheHits.WithLabelValues(backendRedis).Inc()
	return &entry, true
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key string, value any, resourceName string, opts Options) {
	if !s.config.Enabled || !opts.Enabled {
		return
	}

	ttl := s.config.resolveTTL(resourceName, opts)
	if ttl <= 0 {
		return
	}

	entry := Entry{
		Key:          key,
		Value:        value,
		ResourceName: resourceName,
		CreatedAt:    s.now(),
		TTLSeconds:   ttl,
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		s.logger.Error().Err(err).Str("key", key).Msg("Marshal cache entry failed")
		return
	}

	expiry := time.Duration(ttl) * time.Second
	if err := s.client.Set(ctx, key, data, expiry).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Redis set failed")
	}
}

// InvalidateResource implements Store.
func (s *RedisStore) InvalidateResource(ctx context.Context, resourceName string) int {
	count := s.deleteMatching(ctx, keyPrefix(resourceName)+"*", func(string) bool { return true })
	if count > 0 {
		cacheInvalidations.WithLabelValues(backendRedis, "resource").Add(float64(count))
	}
	return count
}

// InvalidateResourceByID implements Store.
func (s *RedisStore) InvalidateResourceByID(ctx context.Context, resourceName, id string) int {
	count := s.deleteMatching(ctx, keyPrefix(resourceName)+"*", func(key string) bool {
		return keyMatchesID(key, resourceName, id)
	})
	if count > 0 {
		cacheInvalidations.WithLabelValues(backendRedis, "resource_id").Add(float64(count))
	}
	return count
}

// Enabled implements Store.
func (s *RedisStore) Enabled() bool {
	return s.config.Enabled
}

// ResourceTTL implements Store.
func (s *RedisStore) ResourceTTL(resourceName string) int {
	return s.config.ResourceTTL(resourceName)
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context) {
	s.deleteMatching(ctx, "mcp:*", func(string) bool { return true })
}

// deleteMatching scans for keys matching pattern, deletes those accepted by
// the filter and returns the number deleted.
func (s *RedisStore) deleteMatching(ctx context.Context, pattern string, accept func(key string) bool) int {
	count := 0
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if !accept(key) {
			continue
		}
		deleted, err := s.client.Del(ctx, key).Result()
		if err != nil {
			cacheErrors.WithLabelValues("invalidate").Inc()
			s.logger.Warn().Err(err).Str("key", key).Msg("Redis del failed")
			continue
		}
		count += int(deleted)
	}
	if err := iter.Err(); err != nil {
		cacheErrors.WithLabelValues("invalidate").Inc()
		s.logger.Warn().Err(err).Str("pattern", pattern).Msg("Redis scan failed")
	}
	return count
}

// EffectiveTTL implements Store.
func (s *RedisStore) EffectiveTTL(resourceName string, opts Options) int {
	return s.config.resolveTTL(resourceName, opts)
}
