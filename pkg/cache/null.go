package cache

import (
	"context"
	"time"
)

// NullCache never stores anything.
type NullCache struct{}

func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (NullCache) Delete(ctx context.Context, key string) error { return nil }
func (NullCache) Close() error                                  { return nil }

var _ Cache = NullCache{}
