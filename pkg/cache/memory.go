package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is the default in-process Store. A mutex guards the key map
// and the eviction list; the store is shared across all concurrent
// requests.
type MemoryStore struct {
	config Config

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used/inserted

	// now is the clock, injectable for TTL tests.
	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a memory-backed store. Strategy lru maintains true
// access order; time-based keeps insertion order. Both evict from the back
// of the order list when over MaxSize.
func NewMemoryStore(cfg Config) *MemoryStore {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyTimeBased
	}
	return &MemoryStore{
		config:  cfg,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// SetClock replaces the store clock (for tests).
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool) {
	if !s.config.Enabled {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		cacheMisses.WithLabelValues(backendMemory).Inc()
		return nil, false
	}

	entry := elem.Value.(*Entry)
	if entry.Expired(s.now()) {
		s.removeLocked(elem)
		cacheEvictions.WithLabelValues(backendMemory, "expired").Inc()
		cacheMisses.WithLabelValues(backendMemory).Inc()
		return nil, false
	}

	if s.config.Strategy == StrategyLRU {
		s.order.MoveToFront(elem)
	}

	cacheHits.WithLabelValues(backendMemory).Inc()
	return entry, true
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, value any, resourceName string, opts Options) {
	if !s.config.Enabled || !opts.Enabled {
		return
	}

	ttl := s.config.resolveTTL(resourceName, opts)
	if ttl <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		s.removeLocked(elem)
	}

	entry := &Entry{
		Key:          key,
		Value:        value,
		ResourceName: resourceName,
		CreatedAt:    s.now(),
		TTLSeconds:   ttl,
	}
	s.entries[key] = s.order.PushFront(entry)
	cacheEntries.WithLabelValues(backendMemory).Set(float64(len(s.entries)))

	// Bounded size: drop from the back until under threshold.
	for s.config.MaxSize > 0 && len(s.entries) > s.config.MaxSize {
		back := s.order.Back()
		if back == nil {
			break
		}
		s.removeLocked(back)
		cacheEvictions.WithLabelValues(backendMemory, "size").Inc()
	}
}

// InvalidateResource implements Store.
func (s *MemoryStore) InvalidateResource(_ context.Context, resourceName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, elem := range s.entries {
		if elem.Value.(*Entry).ResourceName == resourceName {
			s.removeLocked(elem)
			count++
		}
	}
	if count > 0 {
		cacheInvalidations.WithLabelValues(backendMemory, "resource").Add(float64(count))
	}
	return count
}

// InvalidateResourceByID implements Store.
func (s *MemoryStore) InvalidateResourceByID(_ context.Context, resourceName, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key, elem := range s.entries {
		if keyMatchesID(key, resourceName, id) {
			s.removeLocked(elem)
			count++
		}
	}
	if count > 0 {
		cacheInvalidations.WithLabelValues(backendMemory, "resource_id").Add(float64(count))
	}
	return count
}

// Enabled implements Store.
func (s *MemoryStore) Enabled() bool {
	return s.config.Enabled
}

// ResourceTTL implements Store.
func (s *MemoryStore) ResourceTTL(resourceName string) int {
	return s.config.ResourceTTL(resourceName)
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order.Init()
	cacheEntries.WithLabelValues(backendMemory).Set(0)
}

// Len returns the number of live entries (for tests and metrics).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// removeLocked removes an element from both the map and the order list.
// Callers must hold s.mu.
func (s *MemoryStore) removeLocked(elem *list.Element) {
	entry := elem.Value.(*Entry)
	delete(s.entries, entry.Key)
	s.order.Remove(elem)
	cacheEntries.WithLabelValues(backendMemory).Set(float64(len(s.entries)))
}

// EffectiveTTL implements Store.
func (s *MemoryStore) EffectiveTTL(resourceName string, opts Options) int {
	return s.config.resolveTTL(resourceName, opts)
}
