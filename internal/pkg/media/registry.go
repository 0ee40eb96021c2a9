package media

import (
	"Gazette/internal/pkg/consts"
	"Gazette/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

const (
	ReasonUncommitted        = "uncommitted"
	ReasonCompensationFailed = "compensation_failed"
	ReasonStaleDeleteFailed  = "stale_delete_failed"
	ReasonDeleteFailed       = "delete_failed"
)

// PendingMedia 尚未被记录持有、或删除失败的远端引用
type PendingMedia struct {
	Ref       string `json:"ref"`
	Kind      Kind   `json:"kind"`
	Reason    string `json:"reason"`
	CreatedAt int64  `json:"created_at"`
}

// KindUnknown 登记条目损坏时类别未知，对账任务按所有类别删除
const KindUnknown Kind = ""

// DeleteKinds 对账删除时需要尝试的类别
func (p PendingMedia) DeleteKinds() []Kind {
	if p.Kind == KindUnknown {
		return []Kind{KindImage, KindVideo}
	}
	return []Kind{p.Kind}
}

// DecodePending 解析登记表条目，格式异常时以 now 作为登记时间重建，repaired 为 true
func DecodePending(ref, val string, now time.Time) (meta PendingMedia, repaired bool) {
	if err := json.Unmarshal([]byte(val), &meta); err == nil && meta.Ref != "" {
		return meta, false
	}
	return PendingMedia{Ref: ref, Kind: KindUnknown, Reason: ReasonUncommitted, CreatedAt: now.Unix()}, true
}

// PendingRegistry 疑似孤儿引用登记表，供对账任务清理
type PendingRegistry interface {
	Track(ctx context.Context, ref string, kind Kind, reason string) error
	Release(ctx context.Context, ref string) error
	List(ctx context.Context) ([]PendingMedia, error)
}

type redisRegistry struct {
	key string
}

// NewRedisRegistry 基于 Redis Hash 的登记表
func NewRedisRegistry() PendingRegistry {
	return &redisRegistry{key: consts.MediaPendingKey}
}

func (s *redisRegistry) Track(ctx context.Context, ref string, kind Kind, reason string) error {
	meta := PendingMedia{
		Ref:       ref,
		Kind:      kind,
		Reason:    reason,
		CreatedAt: time.Now().Unix(),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return redis.HSet(ctx, s.key, ref, string(data))
}

func (s *redisRegistry) Release(ctx context.Context, ref string) error {
	return redis.HDel(ctx, s.key, ref)
}

func (s *redisRegistry) List(ctx context.Context) ([]PendingMedia, error) {
	all, err := redis.HGetAll(ctx, s.key)
	if err != nil {
		return nil, err
	}
	out := make([]PendingMedia, 0, len(all))
	for ref, val := range all {
		meta, repaired := DecodePending(ref, val, time.Now())
		if repaired {
			// 回写修复后的条目，宽限期从首次发现时开始计算
			log.WarnContext(ctx, "malformed pending media entry", "ref", ref, "value", val)
			if data, err := json.Marshal(meta); err == nil {
				if err = redis.HSet(ctx, s.key, ref, string(data)); err != nil {
					log.WarnContext(ctx, "failed to repair pending media entry", "ref", ref, "err", err)
				}
			}
		}
		out = append(out, meta)
	}
	return out, nil
}
