package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTestStore(t *testing.T, cfg Config) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(cfg, client, zerolog.Nop()), mr
}

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisTestStore(t, Config{Enabled: true, MaxAgeSeconds: 60})

	key := GenerateKey("Machine", "maas://machine/abc123", map[string]string{"system_id": "abc123"}, false)
	store.Set(ctx, key, map[string]any{"hostname": "node-1"}, "Machine", Options{Enabled: true})

	entry, ok := store.Get(ctx, key)
	require.True(t, ok, "expected hit after set")
	assert.Equal(t, "Machine", entry.ResourceName)
	assert.Equal(t, 60, entry.TTLSeconds)

	value, ok := entry.Value.(map[string]any)
	require.True(t, ok, "value should round-trip as a JSON object")
	assert.Equal(t, "node-1", value["hostname"])

	_, ok = store.Get(ctx, "mcp:Machine:machine/unknown")
	assert.False(t, ok, "unknown key should miss")
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisTestStore(t, Config{Enabled: true, MaxAgeSeconds: 1})

	store.Set(ctx, "mcp:Machine:machine/a", "payload", "Machine", Options{Enabled: true})

	_, ok := store.Get(ctx, "mcp:Machine:machine/a")
	require.True(t, ok)

	// miniredis honors key TTLs through FastForward.
	mr.FastForward(1100 * time.Millisecond)

	_, ok = store.Get(ctx, "mcp:Machine:machine/a")
	assert.False(t, ok, "entry should be expired after 1.1s")
}

func TestRedisStore_InvalidateResource(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisTestStore(t, Config{Enabled: true, MaxAgeSeconds: 300})

	store.Set(ctx, "mcp:Tag:tag/web", "t1", "Tag", Options{Enabled: true})
	store.Set(ctx, "mcp:Tag:tag/db", "t2", "Tag", Options{Enabled: true})
	store.Set(ctx, "mcp:Machine:machine/a", "m1", "Machine", Options{Enabled: true})

	count := store.InvalidateResource(ctx, "Tag")
	assert.Equal(t, 2, count)

	_, ok := store.Get(ctx, "mcp:Tag:tag/web")
	assert.False(t, ok, "Tag entries should be gone")
	_, ok = store.Get(ctx, "mcp:Machine:machine/a")
	assert.True(t, ok, "Machine entry should be untouched")
}

func TestRedisStore_InvalidateResourceByID(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisTestStore(t, Config{Enabled: true, MaxAgeSeconds: 300})

	keyA := GenerateKey("Machine", "maas://machine/abc123", map[string]string{"system_id": "abc123"}, false)
	keyB := GenerateKey("Machine", "maas://machine/xyz789", map[string]string{"system_id": "xyz789"}, false)
	store.Set(ctx, keyA, "a", "Machine", Options{Enabled: true})
	store.Set(ctx, keyB, "b", "Machine", Options{Enabled: true})

	count := store.InvalidateResourceByID(ctx, "Machine", "abc123")
	assert.Equal(t, 1, count)

	_, ok := store.Get(ctx, keyA)
	assert.False(t, ok)
	_, ok = store.Get(ctx, keyB)
	assert.True(t, ok)
}

func TestRedisStore_Reset(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisTestStore(t, Config{Enabled: true, MaxAgeSeconds: 300})

	store.Set(ctx, "mcp:Tag:tag/web", "t", "Tag", Options{Enabled: true})
	store.Set(ctx, "mcp:Machine:machine/a", "m", "Machine", Options{Enabled: true})

	store.Reset(ctx)

	_, ok := store.Get(ctx, "mcp:Tag:tag/web")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "mcp:Machine:machine/a")
	assert.False(t, ok)
}

func TestRedisStore_Disabled(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisTestStore(t, Config{Enabled: false, MaxAgeSeconds: 300})

	assert.False(t, store.Enabled())

	store.Set(ctx, "mcp:Machine:machine/a", "v", "Machine", Options{Enabled: true})
	_, ok := store.Get(ctx, "mcp:Machine:machine/a")
	assert.False(t, ok, "disabled store should never hit")
}

func TestRedisStore_CorruptEntryDropped(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisTestStore(t, Config{Enabled: true, MaxAgeSeconds: 300})

	require.NoError(t, mr.Set("mcp:Machine:machine/a", "not-json"))

	_, ok := store.Get(ctx, "mcp:Machine:machine/a")
	assert.False(t, ok, "corrupt entry should read as a miss")
	assert.False(t, mr.Exists("mcp:Machine:machine/a"), "corrupt entry should be deleted")
}
