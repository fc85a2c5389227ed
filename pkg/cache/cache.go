// Package cache stores solved covers so that solving the same graph with the
// same strategy again skips the search.
//
// Entries are opaque bytes behind the [Cache] interface. [MemoryCache] keeps
// a bounded set for the lifetime of the process and [NullCache] disables
// caching. Nothing is written to disk.
//
// Only exact results are stored: a cover found before a timeout is not known
// to be minimum and must not short-circuit a later, longer search.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/graph"
)

// Cache is a key-value store with optional expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Key identifies the result of solving g with opts. It covers the edge set
// and every option that can change the returned cover; workers, timeouts and
// callbacks are left out.
func Key(g *graph.Graph, opts cover.Options) string {
	var buf bytes.Buffer
	var word [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(word[:], uint64(v))
		buf.Write(word[:])
	}

	put(g.N())
	put(g.M())
	for _, e := range g.Edges() {
		put(e.A)
		put(e.B)
	}
	buf.WriteString(opts.String())
	buf.WriteByte('/')
	buf.WriteString(string(opts.Seed))
	if opts.Seed == cover.SeedPreprocess {
		put(opts.Threshold)
	}
	return "cover:" + Hash(buf.Bytes())
}

// Hash computes a SHA-256 hash of data as 64 hex characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached result under key. Entries that fail to decode
// are dropped and reported as misses.
func Lookup(ctx context.Context, c Cache, key string) (cover.Result, bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return cover.Result{}, false, err
	}
	var res cover.Result
	if err := json.Unmarshal(data, &res); err != nil || !res.Exact {
		_ = c.Delete(ctx, key)
		return cover.Result{}, false, nil
	}
	return res, true, nil
}

// Store saves res under key if it is exact. It reports whether it stored.
func Store(ctx context.Context, c Cache, key string, res cover.Result, ttl time.Duration) (bool, error) {
	if !res.Exact {
		return false, nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return false, err
	}
	return true, c.Set(ctx, key, data, ttl)
}
