package lockout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
)

const (
	failuresPrefix = "loginFailures:"
	lockedPrefix   = "loginLocked:"
)

// RedisStore shares lockout state between instances. The failure counter
// expires after one cooldown without new failures.
type RedisStore struct {
	client   redis.UniversalClient
	max      int64
	cooldown time.Duration
}

var _ ports.LoginLockoutStore = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, maxAttempts int, cooldown time.Duration) *RedisStore {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &RedisStore{client: client, max: int64(maxAttempts), cooldown: cooldown}
}

func (s *RedisStore) IsLocked(ctx context.Context, email string) (bool, time.Duration, error) {
	if s.max <= 0 {
		return false, 0, nil
	}
	ttl, err := s.client.PTTL(ctx, lockedPrefix+email).Result()
	if err != nil {
		return false, 0, err
	}
	// PTTL is negative for a missing key.
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

func (s *RedisStore) RecordFailure(ctx context.Context, email string) error {
	if s.max <= 0 {
		return nil
	}
	key := failuresPrefix + email
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if incr.Val() < s.max {
		return nil
	}
	pipe = s.client.TxPipeline()
	pipe.Set(ctx, lockedPrefix+email, 1, s.cooldown)
	pipe.Del(ctx, key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) RecordSuccess(ctx context.Context, email string) error {
	return s.client.Del(ctx, failuresPrefix+email).Err()
}
