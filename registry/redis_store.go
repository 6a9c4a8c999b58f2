package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const consumeSessionScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return false
end
redis.call("DEL", KEYS[1])
local count = tonumber(redis.call("GET", KEYS[2]) or "0")
if count > 1 then
  redis.call("DECR", KEYS[2])
elseif count == 1 then
  redis.call("DEL", KEYS[2])
end
return data
`

var consumeSessionLua = redis.NewScript(consumeSessionScript)

// RedisRegistry is the shared, atomic-remove-capable registry for
// multi-instance deployments. Session blobs expire natively via Redis TTL,
// so Sweep has nothing to collect; a count key tracks the active total.
type RedisRegistry struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisRegistry creates a registry backed by the given Redis client.
// prefix sets the key namespace for session blobs and the count key.
func NewRedisRegistry(client redis.UniversalClient, prefix string) *RedisRegistry {
	return &RedisRegistry{
		redis:  client,
		prefix: prefix,
	}
}

func (r *RedisRegistry) key(id string) string {
	return r.prefix + ":sess:" + id
}

func (r *RedisRegistry) countKey() string {
	return r.prefix + ":count"
}

// Register persists the session blob with the given TTL. SETNX detects
// duplicate IDs without a read round-trip.
//
//	Performance: 2 Redis commands (SET NX + INCR).
func (r *RedisRegistry) Register(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := Encode(sess)
	if err != nil {
		return err
	}

	ok, err := r.redis.SetNX(ctx, r.key(sess.ID), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if !ok {
		return ErrDuplicateToken
	}

	if err := r.redis.Incr(ctx, r.countKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	return nil
}

// Lookup fetches the session without consuming it.
//
//	Performance: 1 Redis GET.
func (r *RedisRegistry) Lookup(ctx context.Context, id string) (*Session, error) {
	data, err := r.redis.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.ID = id

	if sess.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	return sess, nil
}

// Consume atomically removes and returns the session via a Lua script, so
// racing callers across service instances still resolve to exactly one
// winner.
//
//	Performance: 1 Lua EVALSHA (atomic check-and-remove).
func (r *RedisRegistry) Consume(ctx context.Context, id string) (*Session, error) {
	result, err := consumeSessionLua.Run(ctx, r.redis, []string{r.key(id), r.countKey()}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	var blob []byte
	switch v := result.(type) {
	case string:
		blob = []byte(v)
	case []byte:
		blob = v
	default:
		return nil, fmt.Errorf("%w: invalid consume script response", ErrRegistryUnavailable)
	}

	sess, err := Decode(blob)
	if err != nil {
		return nil, err
	}
	sess.ID = id

	return sess, nil
}

// ActiveCount returns the tracked session counter. The counter can exceed
// the number of live blobs between a TTL expiry and the next Register, so
// treat it as an estimate.
func (r *RedisRegistry) ActiveCount(ctx context.Context) (int, error) {
	count, err := r.redis.Get(ctx, r.countKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// Sweep is a no-op for the Redis backend: blobs expire natively via TTL.
// Expired sessions therefore leave no journal record in this mode.
func (r *RedisRegistry) Sweep(context.Context, time.Time) ([]*Session, error) {
	return nil, nil
}
