// 包 refdata：地标、DSSA 母舰与转向空间站三个只读数据集
package refdata

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/metrics"
)

// 文档注释：数据集缓存
// 背景：数据集在首次使用时从 Source 加载，之后整个进程生命周期内共享同一份切片。
// 约束：每个数据集至多成功加载一次，加载失败会被记住（调用方取消导致的失败除外）；返回的切片只读，调用方不得修改。
type Store struct {
	src        Source
	landmarks  dataset[Landmark]
	carriers   dataset[Carrier]
	diversions dataset[DiversionStation]
}

type dataset[T any] struct {
	mu    sync.Mutex
	done  bool
	items []T
	err   error
}

func NewStore(src Source) *Store {
	return &Store{src: src}
}

func (s *Store) Landmarks(ctx context.Context) ([]Landmark, error) {
	return load(ctx, &s.landmarks, "landmarks", s.src.Landmarks, Landmark.validate)
}

func (s *Store) Carriers(ctx context.Context) ([]Carrier, error) {
	return load(ctx, &s.carriers, "carriers", s.src.Carriers, Carrier.validate)
}

func (s *Store) Diversions(ctx context.Context) ([]DiversionStation, error) {
	return load(ctx, &s.diversions, "diversions", s.src.Diversions, DiversionStation.validate)
}

func load[T any](ctx context.Context, d *dataset[T], name string, fetch func(context.Context) ([]T, error), check func(T) error) ([]T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return d.items, d.err
	}
	items, err := fetch(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, err
	}
	if err == nil {
		for i, it := range items {
			if e := check(it); e != nil {
				err = fmt.Errorf("entry %d: %w", i, e)
				break
			}
		}
	}
	d.done = true
	if err != nil {
		d.err = fmt.Errorf("refdata %s: %w", name, err)
		logger.L().Error("refdata_load_error", "dataset", name, "err", err)
		return nil, d.err
	}
	d.items = items
	metrics.RefdataLoadsTotal.WithLabelValues(name).Inc()
	logger.L().Info("refdata_loaded", "dataset", name, "count", len(items))
	return d.items, nil
}
