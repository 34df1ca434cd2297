package main

import (
	"context"
	"time"

	"galaxy-lookup/internal/cache"
	"galaxy-lookup/internal/config"
	"galaxy-lookup/internal/edsm"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/nearest"
	"galaxy-lookup/internal/refdata"
	"galaxy-lookup/internal/resolve"
	"galaxy-lookup/internal/utils"

	"github.com/redis/go-redis/v9"
)

// app 一次命令执行所需的全部依赖
type app struct {
	cfg        *config.Config
	systems    *edsm.Systems
	commanders *edsm.Commanders
	resolver   *resolve.Resolver
	closers    []func() error
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}
	l := logger.Component("cli")

	// Redis 不可用时退回纯进程内缓存，不阻断查询
	rc, err := utils.OpenRedis(ctx, cfg)
	if err != nil {
		l.Warn("redis_unavailable", "err", err)
	}
	if rc != nil {
		a.closers = append(a.closers, rc.Close)
	}

	client := edsm.NewClientFromConfig(cfg.EDSM)
	a.systems = edsm.NewSystems(client, newStore[edsm.GalaxySystem](rc, "galaxy:system:", cfg.Cache.TTL), nil)
	a.commanders = edsm.NewCommanders(client, newStore[edsm.Commander](rc, "galaxy:cmdr:", cfg.Cache.TTL), nil)

	var src refdata.Source
	switch cfg.Refdata.Source {
	case "dir":
		src = refdata.Dir(cfg.Refdata.Dir)
	case "postgres":
		db, err := utils.OpenPostgres(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		src = refdata.Postgres(db)
	default:
		src = refdata.Embedded()
	}
	l.Debug("refdata_source", "source", cfg.Refdata.Source)
	finder := nearest.NewFinder(refdata.NewStore(src), cfg.Nearest.MaxLandmarkLy)
	a.resolver = resolve.NewResolver(a.systems, a.commanders, finder)
	return a, nil
}

// newStore 进程内缓存；配置了 Redis 时叠加共享层
func newStore[T any](rc *redis.Client, prefix string, ttl time.Duration) cache.Store[T] {
	mem := cache.NewMemory[T](ttl, nil)
	if rc == nil {
		return mem
	}
	return cache.NewTiered[T](mem, cache.NewRedis[T](rc, prefix, ttl, nil))
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
