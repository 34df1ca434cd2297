package edsm

import (
	"context"
	"net/url"
	"strconv"

	"galaxy-lookup/internal/cache"
	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/metrics"
	"galaxy-lookup/internal/normalize"
)

// 球形搜索默认半径（ly）
const (
	DefaultSphereRadius    = 100
	DefaultSphereMinRadius = 1
)

// 文档注释：星系查询
// 背景：按规范化星系名查询坐标；结果按键缓存，TTL 内重复查询不访问上游。
// 约束：空结果不入缓存；前缀搜索与球形搜索不走缓存。
type Systems struct {
	c     *Client
	cache cache.Store[GalaxySystem]
	clock cache.Clock
}

func NewSystems(c *Client, store cache.Store[GalaxySystem], clock cache.Clock) *Systems {
	if clock == nil {
		clock = cache.SystemClock
	}
	return &Systems{c: c, cache: store, clock: clock}
}

// GetInfo 按名称查询星系；override=true 时忽略缓存并覆盖槽位；未知星系返回 nil
func (s *Systems) GetInfo(ctx context.Context, name string, override bool) (*GalaxySystem, error) {
	key := normalize.SystemName(name)
	if !override {
		if e, ok := s.cache.Get(ctx, key); ok && s.cache.IsValid(e) {
			metrics.CacheHitsTotal.WithLabelValues(endpointSystem).Inc()
			return e.Value.clone(), nil
		}
	}
	metrics.CacheMissesTotal.WithLabelValues(endpointSystem).Inc()
	logger.L().Debug("cache_miss", "cache", endpointSystem, "key", key, "override", override)
	q := url.Values{}
	q.Set("systemName", key)
	q.Set("showCoordinates", "1")
	q.Set("showInformation", "1")
	b, err := s.c.get(ctx, endpointSystem, "/api-v1/system", q)
	if err != nil {
		return nil, err
	}
	sys, err := decodeSystem(b)
	if err != nil {
		return nil, s.c.fail(endpointSystem, err)
	}
	if sys == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, s.c.fail(endpointSystem, locerr.Connection("edsm.system", err))
	}
	s.cache.Put(ctx, key, cache.Entry[GalaxySystem]{Value: *sys.clone(), FetchedAt: s.clock()})
	return sys, nil
}

func (s *Systems) Exists(ctx context.Context, name string, override bool) (bool, error) {
	sys, err := s.GetInfo(ctx, name, override)
	return sys != nil, err
}

// SearchByPrefix 名称前缀搜索，结果保持上游顺序
func (s *Systems) SearchByPrefix(ctx context.Context, prefix string) ([]GalaxySystem, error) {
	q := url.Values{}
	q.Set("systemName", prefix)
	q.Set("showCoordinates", "1")
	b, err := s.c.get(ctx, endpointSystems, "/api-v1/systems", q)
	if err != nil {
		return nil, err
	}
	out, err := decodeSystems(b)
	if err != nil {
		return nil, s.c.fail(endpointSystems, err)
	}
	return out, nil
}

// NearbyByCoordinates 单次球形搜索，返回最近的一个星系；无结果返回 nil
// radius<=0 使用 100，minRadius<0 使用 1
func (s *Systems) NearbyByCoordinates(ctx context.Context, c geom.Coordinate, radius, minRadius float64) (*NearbySystem, error) {
	if radius <= 0 {
		radius = DefaultSphereRadius
	}
	if minRadius < 0 {
		minRadius = DefaultSphereMinRadius
	}
	q := url.Values{}
	q.Set("x", formatFloat(c.X))
	q.Set("y", formatFloat(c.Y))
	q.Set("z", formatFloat(c.Z))
	q.Set("radius", formatFloat(radius))
	q.Set("minRadius", formatFloat(minRadius))
	q.Set("showCoordinates", "1")
	b, err := s.c.get(ctx, endpointSphere, "/api-v1/sphere-systems", q)
	if err != nil {
		return nil, err
	}
	list, err := decodeSphere(b)
	if err != nil {
		return nil, s.c.fail(endpointSphere, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	best := list[0]
	for _, n := range list[1:] {
		if n.Distance < best.Distance {
			best = n
		}
	}
	return &best, nil
}

// Nearby 使用默认半径的球形搜索
func (s *Systems) Nearby(ctx context.Context, c geom.Coordinate) (*NearbySystem, error) {
	return s.NearbyByCoordinates(ctx, c, DefaultSphereRadius, DefaultSphereMinRadius)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
