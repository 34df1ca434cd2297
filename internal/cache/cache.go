// 包 cache：查询结果的 TTL 缓存抽象；有效性由调用方通过 IsValid 判定，不做主动淘汰
package cache

import (
	"context"
	"time"
)

// Entry 缓存条目：值与获取时间
type Entry[T any] struct {
	Value     T         `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Clock 可注入时钟；测试中替换为固定/可推进的时间源
type Clock func() time.Time

// SystemClock 使用墙上时间
func SystemClock() time.Time { return time.Now() }

// 文档注释：缓存存储接口
// 约束：Get 返回槽位中的条目（可能已过期），是否可用由 IsValid 决定；
// 约束：条目仅在 now < FetchedAt + TTL 时有效；Put 直接覆盖槽位，不合并。
type Store[T any] interface {
	Get(ctx context.Context, key string) (Entry[T], bool)
	Put(ctx context.Context, key string, e Entry[T])
	IsValid(e Entry[T]) bool
}

func valid(now time.Time, fetchedAt time.Time, ttl time.Duration) bool {
	return now.Before(fetchedAt.Add(ttl))
}
