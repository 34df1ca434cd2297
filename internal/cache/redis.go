package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"galaxy-lookup/internal/logger"

	"github.com/redis/go-redis/v9"
)

// 文档注释：Redis 共享缓存层
// 背景：多个进程共用同一份查询结果；值以 JSON 存储在 prefix+key 下。
// 约束：Redis 键过期时间仅用于清理，条目是否有效仍由 IsValid 按 FetchedAt 判定。
// 约束：Redis 故障不向上传播，按未命中处理并记录 warn 日志。
type Redis[T any] struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
	clock  Clock
}

func NewRedis[T any](rc *redis.Client, prefix string, ttl time.Duration, clock Clock) *Redis[T] {
	if clock == nil {
		clock = SystemClock
	}
	return &Redis[T]{rc: rc, prefix: prefix, ttl: ttl, clock: clock}
}

func (c *Redis[T]) Get(ctx context.Context, k string) (Entry[T], bool) {
	var e Entry[T]
	b, err := c.rc.Get(ctx, c.prefix+k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("cache_redis_get_error", "key", c.prefix+k, "err", err)
		}
		return e, false
	}
	if err := json.Unmarshal(b, &e); err != nil {
		logger.L().Warn("cache_redis_decode_error", "key", c.prefix+k, "err", err)
		return e, false
	}
	return e, true
}

func (c *Redis[T]) Put(ctx context.Context, k string, e Entry[T]) {
	b, err := json.Marshal(e)
	if err != nil {
		logger.L().Warn("cache_redis_encode_error", "key", c.prefix+k, "err", err)
		return
	}
	if err := c.rc.Set(ctx, c.prefix+k, b, c.ttl).Err(); err != nil {
		logger.L().Warn("cache_redis_set_error", "key", c.prefix+k, "err", err)
	}
}

func (c *Redis[T]) IsValid(e Entry[T]) bool {
	return valid(c.clock(), e.FetchedAt, c.ttl)
}
