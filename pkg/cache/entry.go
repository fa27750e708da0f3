package cache

import "time"

// Entry is one cached resource response.
type Entry struct {
	// Key is the cache key the entry is stored under.
	Key string `json:"key"`

	// Value is the validated resource payload.
	Value any `json:"value"`

	// ResourceName is the resource the entry belongs to, used for scoped
	// invalidation.
	ResourceName string `json:"resource_name"`

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time `json:"created_at"`

	// TTLSeconds is the effective TTL resolved at store time. It never
	// changes for the lifetime of the entry.
	TTLSeconds int `json:"ttl_seconds"`
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > time.Duration(e.TTLSeconds)*time.Second
}

// Age returns the entry age in whole seconds at the given instant.
func (e *Entry) Age(now time.Time) int {
	age := int(now.Sub(e.CreatedAt) / time.Second)
	if age < 0 {
		return 0
	}
	return age
}
