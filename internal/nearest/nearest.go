// 包 nearest：在参考数据集中查找离给定坐标最近的地标、DSSA 母舰与转向空间站
package nearest

import (
	"context"
	"sort"

	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/refdata"
)

const (
	DefaultMaxLandmarkLy = 10000
	DefaultDiversions    = 5
)

// Result 最近条目；Direction 为条目指向查询点的方位
type Result struct {
	Name      string
	Distance  float64
	Direction string
	Coords    geom.Coordinate
}

type DiversionResult struct {
	Name             string
	SystemName       string
	Distance         float64
	Direction        string
	DistanceFromStar float64
	Coords           geom.Coordinate
}

// 文档注释：最近邻查找
// 背景：数据集规模为几十条，线性扫描即可；每次查询对全部条目计算距离取最小值。
// 约束：地标查找有距离上限，超过上限返回 NoNearby（软失败：点存在但附近无地标）；DSSA 查找无上限。
type Finder struct {
	src         refdata.Source
	maxLandmark float64
}

// NewFinder maxLandmarkLy<=0 时使用 10000 ly
func NewFinder(src refdata.Source, maxLandmarkLy float64) *Finder {
	if maxLandmarkLy <= 0 {
		maxLandmarkLy = DefaultMaxLandmarkLy
	}
	return &Finder{src: src, maxLandmark: maxLandmarkLy}
}

// closest 返回距离最小的下标；距离相同取先出现者；空集返回 -1
func closest[T any](items []T, p geom.Coordinate, coords func(T) geom.Coordinate) (int, float64) {
	best, bestD := -1, 0.0
	for i, it := range items {
		d := geom.Distance(p, coords(it))
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}

func (f *Finder) NearestLandmark(ctx context.Context, p geom.Coordinate) (Result, error) {
	const op = "nearest.landmark"
	items, err := f.src.Landmarks(ctx)
	if err != nil {
		return Result{}, err
	}
	i, d := closest(items, p, func(l refdata.Landmark) geom.Coordinate { return l.Coords })
	if i < 0 {
		return Result{}, locerr.NotFoundf(op, "no landmarks loaded")
	}
	lm := items[i]
	if d > f.maxLandmark {
		logger.L().Debug("landmark_beyond_ceiling", "landmark", lm.Name, "distance", d, "ceiling", f.maxLandmark)
		return Result{}, locerr.NoNearbyf(op, "closest landmark %s is %s ly away, ceiling %s ly",
			lm.Name, geom.FormatDistance(d), geom.FormatDistance(f.maxLandmark))
	}
	return Result{Name: lm.Name, Distance: d, Direction: geom.Direction(lm.Coords, p), Coords: lm.Coords}, nil
}

func (f *Finder) NearestDSSA(ctx context.Context, p geom.Coordinate) (Result, error) {
	items, err := f.src.Carriers(ctx)
	if err != nil {
		return Result{}, err
	}
	i, d := closest(items, p, func(c refdata.Carrier) geom.Coordinate { return c.Coords })
	if i < 0 {
		return Result{}, locerr.NotFoundf("nearest.dssa", "no carriers loaded")
	}
	c := items[i]
	return Result{Name: c.Name, Distance: d, Direction: geom.Direction(c.Coords, p), Coords: c.Coords}, nil
}

// NearestDiversions 按距离升序返回前 k 个空间站（k<=0 取 5）；距离相同时保持数据集顺序
func (f *Finder) NearestDiversions(ctx context.Context, p geom.Coordinate, k int) ([]DiversionResult, error) {
	if k <= 0 {
		k = DefaultDiversions
	}
	items, err := f.src.Diversions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DiversionResult, 0, len(items))
	for _, st := range items {
		out = append(out, DiversionResult{
			Name:             st.Name,
			SystemName:       st.SystemName,
			Distance:         geom.Distance(p, st.Coords),
			Direction:        geom.Direction(st.Coords, p),
			DistanceFromStar: st.DistanceFromStar,
			Coords:           st.Coords,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}
