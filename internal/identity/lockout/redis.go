package lockout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker shares failure counters across instances. Counters live
// under a TTL equal to the lockout window, so expiry doubles as the
// unlock mechanism.
type RedisTracker struct {
	client    *redis.Client
	threshold int
	window    time.Duration
	prefix    string
}

func NewRedisTracker(client *redis.Client, threshold int, window time.Duration) *RedisTracker {
	return &RedisTracker{
		client:    client,
		threshold: threshold,
		window:    window,
		prefix:    "lockout:",
	}
}

func (t *RedisTracker) key(identityID string) string {
	return t.prefix + identityID
}

func (t *RedisTracker) RecordFailure(ctx context.Context, identityID string) (int, error) {
	key := t.key(identityID)

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	// Only the first failure sets the TTL; later ones must not extend
	// the window.
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return 0, err
		}
	}

	return int(count), nil
}

func (t *RedisTracker) Reset(ctx context.Context, identityID string) error {
	return t.client.Del(ctx, t.key(identityID)).Err()
}

func (t *RedisTracker) Locked(ctx context.Context, identityID string) (bool, error) {
	count, err := t.client.Get(ctx, t.key(identityID)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= t.threshold, nil
}
