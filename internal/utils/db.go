package utils

import (
	"context"
	"database/sql"
	"time"

	"galaxy-lookup/internal/config"
	"galaxy-lookup/internal/logger"

	_ "github.com/lib/pq"
)

// OpenPostgres：打开参考数据库连接池并探活
// 约束：参考数据只读且仅在启动时加载一次，连接池保持很小
func OpenPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(1)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		logger.L().Error("db_ping_error", "err", err)
		return nil, err
	}
	logger.L().Info("db_ping_ok", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB)
	return db, nil
}
