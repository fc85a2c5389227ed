package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/graph"
)

func path3(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(3)
	require.NoError(t, b.AddEdge(0, 1))
	require.NoError(t, b.AddEdge(1, 2))
	return b.Build()
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(8)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), 0))
	require.NoError(t, c.Set(ctx, "k", []byte("v2"), 0))
	data, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), data)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(8)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(30 * time.Second)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok, "entry should live until its ttl")

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry should expire")
	assert.Equal(t, 0, c.Len(), "expired entry should be removed on read")
}

func TestMemoryCacheEvictsLeastRecent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	require.NoError(t, c.Set(ctx, "a", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("b"), 0))
	_, _, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("c"), 0))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used")
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	var c NullCache
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	_, ok, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	g := path3(t)
	opts := cover.DefaultOptions()

	assert.Equal(t, Key(g, opts), Key(path3(t), opts), "key must be deterministic")

	workers := opts
	workers.Workers = 8
	workers.Timeout = time.Second
	assert.Equal(t, Key(g, opts), Key(g, workers), "workers and timeout do not change the result")

	bound := opts
	bound.Bound = cover.BoundMatching
	assert.NotEqual(t, Key(g, opts), Key(g, bound))

	b := graph.NewBuilder(3)
	require.NoError(t, b.AddEdge(0, 1))
	require.NoError(t, b.AddEdge(0, 2))
	assert.NotEqual(t, Key(g, opts), Key(b.Build(), opts))

	pre := opts
	pre.Seed = cover.SeedPreprocess
	other := pre
	other.Threshold = 5
	assert.NotEqual(t, Key(g, pre), Key(g, other))
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
	assert.NotEqual(t, Hash([]byte("hello")), Hash([]byte("world")))
	assert.Len(t, Hash([]byte("hello")), 64)
}

func TestLookupStore(t *testing.T) {
	ctx := context.Background()
	g := path3(t)
	c := NewMemoryCache(4)
	key := Key(g, cover.DefaultOptions())

	res, err := cover.Solve(ctx, g, cover.DefaultOptions())
	require.NoError(t, err)

	stored, err := Store(ctx, c, key, res, 0)
	require.NoError(t, err)
	assert.True(t, stored)

	got, ok, err := Lookup(ctx, c, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.Size, got.Size)
	assert.Equal(t, res.Cover, got.Cover)
	assert.True(t, got.Exact)

	inexact := res
	inexact.Exact = false
	stored, err = Store(ctx, c, "other", inexact, 0)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, _ = Lookup(ctx, c, "other")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "junk", []byte("nope"), 0))
	_, ok, err = Lookup(ctx, c, "junk")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "undecodable entry should be dropped")
}
