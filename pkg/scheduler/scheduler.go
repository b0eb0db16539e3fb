package scheduler

import (
	"context"
	"strconv"
	"time"

	"lingua_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const queueKey = "attempt:finalize:queue"

// FinalizeFunc is invoked for each due attempt id. Delivery is at-least-once,
// so the function must be idempotent: finalizing an already submitted attempt
// is a no-op, not an error.
type FinalizeFunc func(attemptID uint) error

// Scheduler is the deferred-finalization contract the attempt lifecycle
// depends on: fire-and-forget, at-or-after the given time, at least once.
// There is no cancellation; a manually finalized attempt simply no-ops when
// its scheduled entry eventually fires.
type Scheduler interface {
	Schedule(fireAt time.Time, attemptID uint) error
}

// RedisScheduler keeps pending finalizations in a sorted set scored by their
// fire-at unix time. Entries survive restarts; a member is removed only after
// its finalize call returns without error.
type RedisScheduler struct {
	rdb      *redis.Client
	interval time.Duration
	finalize FinalizeFunc
	stop     chan struct{}
}

func NewRedisScheduler(rdb *redis.Client, pollInterval time.Duration, finalize FinalizeFunc) *RedisScheduler {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	return &RedisScheduler{
		rdb:      rdb,
		interval: pollInterval,
		finalize: finalize,
		stop:     make(chan struct{}),
	}
}

func (s *RedisScheduler) Schedule(fireAt time.Time, attemptID uint) error {
	ctx := context.Background()
	return s.rdb.ZAdd(ctx, queueKey, &redis.Z{
		Score:  float64(fireAt.Unix()),
		Member: strconv.FormatUint(uint64(attemptID), 10),
	}).Err()
}

// Run polls for due entries until Stop is called. Intended to be started as a
// background goroutine next to the HTTP server.
func (s *RedisScheduler) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.drainDue(time.Now())
		}
	}
}

func (s *RedisScheduler) Stop() {
	close(s.stop)
}

func (s *RedisScheduler) drainDue(now time.Time) {
	ctx := context.Background()
	members, err := s.rdb.ZRangeByScore(ctx, queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		logger.Log.Error("scheduler: failed to read due finalizations", zap.Error(err))
		return
	}

	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 32)
		if err != nil {
			// Unparseable entries would otherwise poll forever.
			s.rdb.ZRem(ctx, queueKey, member)
			logger.Log.Warn("scheduler: dropping malformed queue entry", zap.String("member", member))
			continue
		}
		if err := s.finalize(uint(id)); err != nil {
			logger.Log.Error("scheduler: finalize failed, will retry",
				zap.Uint64("attemptId", id), zap.Error(err))
			continue
		}
		s.rdb.ZRem(ctx, queueKey, member)
	}
}
