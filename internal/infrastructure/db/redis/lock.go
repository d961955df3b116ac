package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	lockKeyPrefix    = "lock:"
	defaultLockTTL   = 5 * time.Second
	lockRetryBackoff = 25 * time.Millisecond
	// Release runs on a fresh context so a cancelled request still frees its lock.
	lockReleaseTimeout = 2 * time.Second
)

// releaseScript deletes the lock only if it still holds our token, so a holder
// whose TTL lapsed cannot release someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// Locker is a distributed mutex: SET NX PX with a random token, polled until
// the caller's context expires.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLocker returns a Locker. ttl bounds how long a crashed holder can block a key.
func NewLocker(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, ttl: ttl, log: log}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := lockKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryBackoff):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			relCtx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
			defer cancel()
			if err := releaseScript.Run(relCtx, l.client, []string{fullKey}, token).Err(); err != nil {
				l.log.Warn().Err(err).Str("lock_key", key).Msg("failed to release lock; it will expire")
			}
		})
	}, nil
}
