package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huatuo-dr/geek-ppt/internal/cache"
)

func runContract(t *testing.T, c cache.Cache) {
	ctx := context.Background()

	_, err := c.Get(ctx, "absent")
	assert.ErrorIs(t, err, cache.ErrMiss)

	want := cache.Entry{HTML: "<div>x</div>", CSS: ".plain-slide{}"}
	require.NoError(t, c.Set(ctx, "k", want))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want.HTML = "<div>y</div>"
	require.NoError(t, c.Set(ctx, "k", want))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryContract(t *testing.T) {
	runContract(t, cache.NewMemory(4))
}

func TestMemoryEvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory(2)
	require.NoError(t, m.Set(ctx, "a", cache.Entry{HTML: "a"}))
	require.NoError(t, m.Set(ctx, "b", cache.Entry{HTML: "b"}))
	require.NoError(t, m.Set(ctx, "a", cache.Entry{HTML: "a2"}))
	require.NoError(t, m.Set(ctx, "c", cache.Entry{HTML: "c"}))

	assert.Equal(t, 2, m.Len())
	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrMiss)
	e, err := m.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c", e.HTML)
}

func TestRedisContract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	c := cache.NewFromClient(client)
	defer c.Close()

	runContract(t, c)
	assert.True(t, mr.Exists(cache.DefaultPrefix+"k"))
}

func TestRedisTTLAndPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := cache.New(mr.Addr(), "", 0, cache.WithTTL(time.Minute), cache.WithPrefix("test:"))
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", cache.Entry{HTML: "h"}))
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestRedisCorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, mr.Set(cache.DefaultPrefix+"bad", "{"))
	c := cache.New(mr.Addr(), "", 0)
	defer c.Close()

	_, err = c.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss)
}

func TestKey(t *testing.T) {
	k := cache.Key("plain", "# a", "")
	assert.Equal(t, k, cache.Key("plain", "# a", ""))
	assert.NotEqual(t, k, cache.Key("cool", "# a", ""))
	assert.NotEqual(t, k, cache.Key("plain", "# a", "h1{}"))
	assert.NotEqual(t, cache.Key("ab", "c", ""), cache.Key("a", "bc", ""))
}
