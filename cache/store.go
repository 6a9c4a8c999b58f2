package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheUnavailable wraps every Redis transport failure reported by the
// delete paths. Read paths recover it internally as a miss.
var ErrCacheUnavailable = errors.New("cache unavailable")

// ErrTTLRequired is returned by Set when the caller passes a non-positive
// TTL. Entries must not live forever.
var ErrTTLRequired = errors.New("cache set requires a positive ttl")

const scanBatchSize = 1000

// Store is a Redis-backed TTL cache with best-effort read semantics and
// error-reporting delete semantics.
//
//	Performance: Get/Set/Delete are 1 Redis command; DeletePattern is
//	O(keys) via SCAN batches.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a cache [Store] backed by the given Redis client.
// prefix namespaces every key so an engine instance can share a Redis
// database with other tenants of the process.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get returns the cached value for key, or ok=false on a miss. Transport
// failures are converted to misses: a flaky cache must never fail a read
// request.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.redis.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores value under key with the given TTL. A non-positive TTL is an
// error; the engine applies the configured default before calling Set.
// Transport failures are reported but callers treat them as a skipped
// cache fill, not a request failure.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrTTLRequired
	}
	if err := s.redis.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a single key. The removed flag reports whether the key
// existed; the error reports transport failures so the invalidation
// coordinator can apply its strict/lenient policy.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.redis.Del(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return n > 0, nil
}

// DeletePattern removes every key matching the glob pattern and returns the
// number of keys deleted. Used for coarse invalidation of list/collection
// views that cannot be targeted by a single key.
func (s *Store) DeletePattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor uint64
		total  int
	)

	for {
		keys, next, err := s.redis.Scan(ctx, cursor, s.key(pattern), scanBatchSize).Result()
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}

		if len(keys) > 0 {
			n, err := s.redis.Del(ctx, keys...).Result()
			if err != nil {
				return total, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
			}
			total += int(n)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return total, nil
}

// Flush removes every key under the store's prefix. Admin-only O(n)
// operation; must not be used in request hot paths.
func (s *Store) Flush(ctx context.Context) (int, error) {
	return s.DeletePattern(ctx, "*")
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return time.Since(start), nil
}
