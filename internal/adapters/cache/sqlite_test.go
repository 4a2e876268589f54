package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/trapmap/internal/ports"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "team:418", []byte(`{"name":"Real Madrid"}`), time.Minute))

	got, err := c.Get(ctx, "team:418")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"name":"Real Madrid"}`), got)
}

func TestGetMissingKey(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestSetOverwrites(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Minute))
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))

	// Dentro del TTL sigue viva.
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	// Avanzar el reloj más allá del TTL la convierte en miss.
	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestZeroTTLUsesDefault(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	c.now = func() time.Time { return base.Add(DefaultTTL - time.Minute) }
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)

	c.now = func() time.Time { return base.Add(DefaultTTL + time.Minute) }
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}
