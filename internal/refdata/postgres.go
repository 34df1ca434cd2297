package refdata

import (
	"context"
	"database/sql"

	"galaxy-lookup/internal/logger"
)

// 文档注释：PostgreSQL 数据源
// 背景：集中维护数据集的部署直接从数据库读取，表结构见 schema；按 id 顺序返回，保持录入顺序。
// 约束：只读；连接由 utils.OpenPostgres 建立并由调用方关闭。
type pgSource struct {
	db *sql.DB
}

func Postgres(db *sql.DB) Source { return pgSource{db: db} }

// 背景：首次部署时创建数据表；使用 IF NOT EXISTS，重复执行无副作用
var schema = []string{
	`CREATE TABLE IF NOT EXISTS refdata_landmarks (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refdata_carriers (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refdata_diversions (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		system_name TEXT NOT NULL,
		distance_from_star DOUBLE PRECISION NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL
	)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}

// Counts 各数据集写入条数
type Counts struct {
	Landmarks  int
	Carriers   int
	Diversions int
}

// 文档注释：用给定来源整体替换数据库中的三个数据集
// 背景：集中维护的数据以文件形式评审后导入；在单个事务内先清空再写入，读取方不会看到半套数据。
// 约束：写入前按加载规则校验全部条目，任一条目非法则不做任何修改。
func Seed(ctx context.Context, db *sql.DB, src Source) (Counts, error) {
	var n Counts
	st := NewStore(src)
	lm, err := st.Landmarks(ctx)
	if err != nil {
		return n, err
	}
	cs, err := st.Carriers(ctx)
	if err != nil {
		return n, err
	}
	ds, err := st.Diversions(ctx)
	if err != nil {
		return n, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return n, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return n, err
	}
	defer func() { _ = tx.Rollback() }()
	for _, t := range []string{"refdata_landmarks", "refdata_carriers", "refdata_diversions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return n, err
		}
	}
	for _, l := range lm {
		if _, err := tx.ExecContext(ctx, "INSERT INTO refdata_landmarks(name, x, y, z) VALUES($1, $2, $3, $4)",
			l.Name, l.Coords.X, l.Coords.Y, l.Coords.Z); err != nil {
			return n, err
		}
	}
	for _, c := range cs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO refdata_carriers(name, x, y, z) VALUES($1, $2, $3, $4)",
			c.Name, c.Coords.X, c.Coords.Y, c.Coords.Z); err != nil {
			return n, err
		}
	}
	for _, d := range ds {
		if _, err := tx.ExecContext(ctx, "INSERT INTO refdata_diversions(name, system_name, distance_from_star, x, y, z) VALUES($1, $2, $3, $4, $5, $6)",
			d.Name, d.SystemName, d.DistanceFromStar, d.Coords.X, d.Coords.Y, d.Coords.Z); err != nil {
			return n, err
		}
	}
	if err := tx.Commit(); err != nil {
		return n, err
	}
	n = Counts{Landmarks: len(lm), Carriers: len(cs), Diversions: len(ds)}
	logger.L().Info("refdata_seeded", "landmarks", n.Landmarks, "carriers", n.Carriers, "diversions", n.Diversions)
	return n, nil
}

func (p pgSource) Landmarks(ctx context.Context) ([]Landmark, error) {
	logger.L().Debug("refdata_pg_query", "table", "refdata_landmarks")
	rows, err := p.db.QueryContext(ctx, "SELECT name, x, y, z FROM refdata_landmarks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Landmark
	for rows.Next() {
		var l Landmark
		if err := rows.Scan(&l.Name, &l.Coords.X, &l.Coords.Y, &l.Coords.Z); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (p pgSource) Carriers(ctx context.Context) ([]Carrier, error) {
	logger.L().Debug("refdata_pg_query", "table", "refdata_carriers")
	rows, err := p.db.QueryContext(ctx, "SELECT name, x, y, z FROM refdata_carriers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Carrier
	for rows.Next() {
		var c Carrier
		if err := rows.Scan(&c.Name, &c.Coords.X, &c.Coords.Y, &c.Coords.Z); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p pgSource) Diversions(ctx context.Context) ([]DiversionStation, error) {
	logger.L().Debug("refdata_pg_query", "table", "refdata_diversions")
	rows, err := p.db.QueryContext(ctx, "SELECT name, system_name, distance_from_star, x, y, z FROM refdata_diversions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DiversionStation
	for rows.Next() {
		var d DiversionStation
		if err := rows.Scan(&d.Name, &d.SystemName, &d.DistanceFromStar, &d.Coords.X, &d.Coords.Y, &d.Coords.Z); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
