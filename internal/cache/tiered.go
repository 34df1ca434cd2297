package cache

import "context"

// 文档注释：两级缓存组合
// 背景：先查进程内缓存，未命中或已过期再查共享层；共享层命中且更新时提升到第一层。
// 约束：Put 同时写入两层；有效性按第一层的时钟与 TTL 判定。
type Tiered[T any] struct {
	a Store[T]
	b Store[T]
}

func NewTiered[T any](a, b Store[T]) *Tiered[T] {
	return &Tiered[T]{a: a, b: b}
}

func (t *Tiered[T]) Get(ctx context.Context, k string) (Entry[T], bool) {
	e1, ok1 := t.a.Get(ctx, k)
	if ok1 && t.a.IsValid(e1) {
		return e1, true
	}
	if t.b == nil {
		return e1, ok1
	}
	e2, ok2 := t.b.Get(ctx, k)
	if ok2 && (!ok1 || e2.FetchedAt.After(e1.FetchedAt)) {
		t.a.Put(ctx, k, e2)
		return e2, true
	}
	return e1, ok1
}

func (t *Tiered[T]) Put(ctx context.Context, k string, e Entry[T]) {
	t.a.Put(ctx, k, e)
	if t.b != nil {
		t.b.Put(ctx, k, e)
	}
}

func (t *Tiered[T]) IsValid(e Entry[T]) bool { return t.a.IsValid(e) }
