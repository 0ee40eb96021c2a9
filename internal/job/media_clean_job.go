package job

import (
	"Gazette/internal/pkg/consts"
	"Gazette/internal/pkg/media"
	"Gazette/internal/pkg/metrics"
	"Gazette/internal/pkg/redis"
	"Gazette/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	ReconcileDeleted  = "deleted"
	ReconcileReleased = "released"
	ReconcileFailed   = "failed"
)

// Locker 多实例部署时保证同一时刻只有一个清理任务
type Locker interface {
	TryLock(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	UnLock(ctx context.Context, key string, value string)
}

type redisLocker struct{}

func (redisLocker) TryLock(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	return redis.TryLock(ctx, key, value, expiration, 0)
}

func (redisLocker) UnLock(ctx context.Context, key string, value string) {
	redis.UnLock(ctx, key, value)
}

// NewRedisLocker 基于 Redis SETNX 的分布式锁
func NewRedisLocker() Locker {
	return redisLocker{}
}

// MediaCleanupJob 清理登记表中超过宽限期且未被任何帖子引用的远端对象
type MediaCleanupJob struct {
	registry media.PendingRegistry
	postRepo repository.PostRepo
	gateway  media.Gateway
	locker   Locker
	metrics  *metrics.MediaMetrics
	grace    time.Duration
	lockTTL  time.Duration
	now      func() time.Time
}

func NewMediaCleanupJob(registry media.PendingRegistry, postRepo repository.PostRepo, gateway media.Gateway,
	locker Locker, mediaMetrics *metrics.MediaMetrics, grace time.Duration) *MediaCleanupJob {
	return &MediaCleanupJob{
		registry: registry,
		postRepo: postRepo,
		gateway:  gateway,
		locker:   locker,
		metrics:  mediaMetrics,
		grace:    grace,
		lockTTL:  5 * time.Minute,
		now:      time.Now,
	}
}

// Run 供 cron 调用
func (s *MediaCleanupJob) Run() {
	ctx := context.Background()
	log.Info("start media cleanup job")

	count, err := s.Sweep(ctx)
	if err != nil {
		log.Error("media cleanup job failed", "err", err)
		return
	}
	if count > 0 {
		log.Info("media cleanup job finished", "cleaned_count", count)
	}
}

// Sweep 执行一次对账，返回删除的对象数
func (s *MediaCleanupJob) Sweep(ctx context.Context) (int, error) {
	if s.locker != nil {
		lockValue := uuid.NewString()
		ok, err := s.locker.TryLock(ctx, consts.MediaCleanupLock, lockValue, s.lockTTL)
		if err != nil {
			return 0, err
		}
		if !ok {
			log.Info("media cleanup job skipped, lock held by another instance")
			return 0, nil
		}
		defer s.locker.UnLock(ctx, consts.MediaCleanupLock, lockValue)
	}

	pending, err := s.registry.List(ctx)
	if err != nil {
		return 0, err
	}

	deadline := s.now().Add(-s.grace).Unix()
	count := 0
	for _, item := range pending {
		if item.CreatedAt > deadline {
			continue
		}

		referenced, err := s.postRepo.ExistsByMediaURL(ctx, item.Ref)
		if err != nil {
			log.Error("failed to check media reference", "ref", item.Ref, "err", err)
			continue
		}
		if referenced {
			// 记录仍然引用该对象，不是孤儿
			s.release(ctx, item.Ref)
			s.metrics.ObserveReconcile(ReconcileReleased)
			continue
		}

		if err = s.delete(ctx, item); err != nil {
			log.Error("failed to delete orphaned media", "ref", item.Ref, "reason", item.Reason, "err", err)
			s.metrics.ObserveReconcile(ReconcileFailed)
			continue
		}
		s.release(ctx, item.Ref)
		s.metrics.ObserveReconcile(ReconcileDeleted)
		count++
		log.Info("cleanup orphaned media", "ref", item.Ref, "kind", item.Kind, "reason", item.Reason)
	}
	return count, nil
}

// delete 类别未知的条目在每个类别下都删除一次
func (s *MediaCleanupJob) delete(ctx context.Context, item media.PendingMedia) error {
	for _, kind := range item.DeleteKinds() {
		if err := s.gateway.Delete(ctx, item.Ref, kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *MediaCleanupJob) release(ctx context.Context, ref string) {
	if err := s.registry.Release(ctx, ref); err != nil {
		log.Error("failed to release pending media", "ref", ref, "err", err)
	}
}
