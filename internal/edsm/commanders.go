package edsm

import (
	"context"
	"net/url"
	"strings"

	"galaxy-lookup/internal/cache"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/metrics"
	"galaxy-lookup/internal/normalize"
)

// 文档注释：指挥官位置查询
// 背景：救援案件常只给出指挥官名；上游日志接口返回其最后上报的星系与坐标。
// 约束：缓存键为 normalize.Key（不做程序化星系名修复）；未找到（203）与私密档案返回 nil；201 返回 Ambiguous。
type Commanders struct {
	c     *Client
	cache cache.Store[Commander]
	clock cache.Clock
}

func NewCommanders(c *Client, store cache.Store[Commander], clock cache.Clock) *Commanders {
	if clock == nil {
		clock = cache.SystemClock
	}
	return &Commanders{c: c, cache: store, clock: clock}
}

func (m *Commanders) GetInfo(ctx context.Context, name string, override bool) (*Commander, error) {
	key := normalize.Key(name)
	if !override {
		if e, ok := m.cache.Get(ctx, key); ok && m.cache.IsValid(e) {
			metrics.CacheHitsTotal.WithLabelValues(endpointCommander).Inc()
			v := e.Value
			return &v, nil
		}
	}
	metrics.CacheMissesTotal.WithLabelValues(endpointCommander).Inc()
	logger.L().Debug("cache_miss", "cache", endpointCommander, "key", key, "override", override)
	display := strings.Join(strings.Fields(name), " ")
	q := url.Values{}
	q.Set("commanderName", display)
	q.Set("showCoordinates", "1")
	b, err := m.c.get(ctx, endpointCommander, "/api-logs-v1/get-position", q)
	if err != nil {
		return nil, err
	}
	cmdr, err := decodeCommander(b, display)
	if err != nil {
		return nil, m.c.fail(endpointCommander, err)
	}
	if cmdr == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, m.c.fail(endpointCommander, locerr.Connection("edsm.commander", err))
	}
	m.cache.Put(ctx, key, cache.Entry[Commander]{Value: *cmdr, FetchedAt: m.clock()})
	return cmdr, nil
}

func (m *Commanders) Exists(ctx context.Context, name string, override bool) (bool, error) {
	c, err := m.GetInfo(ctx, name, override)
	return c != nil, err
}

// Location 指挥官当前位置；缺少时间戳时 Time 为 UnknownTime
func (m *Commanders) Location(ctx context.Context, name string, override bool) (*Location, error) {
	c, err := m.GetInfo(ctx, name, override)
	if err != nil || c == nil {
		return nil, err
	}
	loc := &Location{System: c.System, Coordinates: c.Coords, Time: UnknownTime}
	if c.Date != nil {
		loc.Time = c.Date.Format(DateLayout)
	}
	return loc, nil
}
