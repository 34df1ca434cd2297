package cache

import (
	"context"
	"sync"
	"time"
)

// 文档注释：进程内缓存
// 背景：同一名称在短周期内被多次引用（案件板、多个指令），本地保存上次结果避免重复请求上游。
// 约束：无容量上限与淘汰；过期条目保留在槽位，下次成功获取时被覆盖。
type Memory[T any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	clock Clock
	dict  map[string]Entry[T]
}

func NewMemory[T any](ttl time.Duration, clock Clock) *Memory[T] {
	if clock == nil {
		clock = SystemClock
	}
	return &Memory[T]{ttl: ttl, clock: clock, dict: make(map[string]Entry[T])}
}

func (c *Memory[T]) Get(_ context.Context, k string) (Entry[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.dict[k]
	return e, ok
}

func (c *Memory[T]) Put(_ context.Context, k string, e Entry[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dict[k] = e
}

func (c *Memory[T]) IsValid(e Entry[T]) bool {
	return valid(c.clock(), e.FetchedAt, c.ttl)
}

// Len 当前槽位数（含过期条目）
func (c *Memory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dict)
}
