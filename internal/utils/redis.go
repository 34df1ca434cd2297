// 包 utils：外部连接工具（Redis 共享缓存层、PostgreSQL 参考数据源）
package utils

import (
	"context"
	"time"

	"galaxy-lookup/internal/config"
	"galaxy-lookup/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：按配置打开 Redis 客户端并探活
// 约束：未启用时返回 nil, nil，调用方退回纯进程内缓存
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		logger.L().Info("redis_disabled")
		return nil, nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Pass,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	logger.L().Debug("redis_env", "addr", cfg.RedisAddr(), "db", cfg.Redis.DB)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pctx).Err(); err != nil {
		_ = rc.Close()
		logger.L().Error("redis_ping_error", "err", err)
		return nil, err
	}
	logger.L().Info("redis_ping_ok")
	return rc, nil
}
