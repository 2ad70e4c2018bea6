package scheduler

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

// Locker keeps a job to one instance at a time across the fleet.
type Locker interface {
	// TryLock does not wait; ok is false when another instance holds name.
	TryLock(ctx context.Context, name string, ttl time.Duration) (unlock func(), ok bool)
}

type RedisLocker struct {
	rs *redsync.Redsync
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rs: redsync.New(goredis.NewPool(rdb))}
}

func (l *RedisLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (func(), bool) {
	m := l.rs.NewMutex("lock:job:"+name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, false
	}

	return func() {
		if _, err := m.UnlockContext(context.Background()); err != nil {
			logger.WithError(err).Warn("job lock release failed", "job", name)
		}
	}, true
}

// LocalLocker is for single-instance deployments and tests.
type LocalLocker struct{}

func (LocalLocker) TryLock(context.Context, string, time.Duration) (func(), bool) {
	return func() {}, true
}
