package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/examtrail/examtrail-backend/internal/logger"
)

// PlanLocker serializes schedule generation per plan across instances.
type PlanLocker interface {
	Acquire(ctx context.Context, planID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, planID string) error
	Close() error
}

type planLocker struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewPlanLocker(log *logger.Logger) (PlanLocker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_LOCK_PREFIX"))
	if prefix == "" {
		prefix = "planlock"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &planLocker{
		log:    log.With("service", "RedisPlanLocker"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (l *planLocker) key(planID string) string {
	return l.prefix + ":" + planID
}

func (l *planLocker) Acquire(ctx context.Context, planID string, ttl time.Duration) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, fmt.Errorf("plan locker not initialized")
	}
	ok, err := l.rdb.SetNX(ctx, l.key(planID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire plan lock: %w", err)
	}
	if !ok {
		l.log.Debug("plan lock held elsewhere", "plan_id", planID)
	}
	return ok, nil
}

func (l *planLocker) Release(ctx context.Context, planID string) error {
	if l == nil || l.rdb == nil {
		return fmt.Errorf("plan locker not initialized")
	}
	return l.rdb.Del(ctx, l.key(planID)).Err()
}

func (l *planLocker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

// NoopPlanLocker always grants the lock. Used when Redis is not configured.
type NoopPlanLocker struct{}

func (NoopPlanLocker) Acquire(ctx context.Context, planID string, ttl time.Duration) (bool, error) {
	return true, nil
}
func (NoopPlanLocker) Release(ctx context.Context, planID string) error { return nil }
func (NoopPlanLocker) Close() error                                     { return nil }
