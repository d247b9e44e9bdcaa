package cache

import (
	"context"
	"time"
)

// Cache is a JSON-value cache with per-key TTLs. Used to shield the
// analytics aggregations from repeated dashboard polling.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
