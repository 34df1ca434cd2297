// 包 config：集中读取环境变量为类型化配置；.env 文件存在时先行加载
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	EDSM     EDSMConfig
	Cache    CacheConfig
	Nearest  NearestConfig
	Refdata  RefdataConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type EDSMConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	RateBurst  int
}

type CacheConfig struct {
	TTL time.Duration
}

type NearestConfig struct {
	MaxLandmarkLy float64
}

type RefdataConfig struct {
	Source string // embedded | dir | postgres
	Dir    string
}

type RedisConfig struct {
	Enabled bool
	Host    string
	Port    string
	Pass    string
	DB      int
}

type PostgresConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	DB      string
	SSLMode string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load：加载 .env（缺失时忽略）后读取环境变量
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	c := FromEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// FromEnv：仅读取当前进程环境，不触碰 .env
func FromEnv() *Config {
	return &Config{
		EDSM: EDSMConfig{
			BaseURL:    getEnv("EDSM_BASE_URL", "https://www.edsm.net"),
			Timeout:    time.Duration(getInt("EDSM_TIMEOUT_S", 10)) * time.Second,
			RatePerSec: getFloat("EDSM_RATE_PER_SEC", 5),
			RateBurst:  getInt("EDSM_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getInt("EDSM_CACHE_TTL_S", 120)) * time.Second,
		},
		Nearest: NearestConfig{
			MaxLandmarkLy: getFloat("LANDMARK_MAX_LY", 10000),
		},
		Refdata: RefdataConfig{
			Source: getEnv("REFDATA_SOURCE", "embedded"),
			Dir:    getEnv("REFDATA_DIR", "data/refdata"),
		},
		Redis: RedisConfig{
			Enabled: getEnv("REDIS_ENABLED", "false") == "true",
			Host:    getEnv("REDIS_HOST", "127.0.0.1"),
			Port:    getEnv("REDIS_PORT", "6379"),
			Pass:    os.Getenv("REDIS_PASS"),
			DB:      getInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:    getEnv("PG_HOST", "localhost"),
			Port:    getEnv("PG_PORT", "5432"),
			User:    getEnv("PG_USER", "postgres"),
			Pass:    os.Getenv("PG_PASSWORD"),
			DB:      getEnv("PG_DB", "galaxy"),
			SSLMode: getEnv("PG_SSLMODE", "disable"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func (c *Config) Validate() error {
	if c.EDSM.BaseURL == "" {
		return errors.New("EDSM_BASE_URL is required")
	}
	if c.EDSM.Timeout <= 0 {
		return errors.New("EDSM_TIMEOUT_S must be positive")
	}
	if c.EDSM.RatePerSec < 0 || c.EDSM.RateBurst < 0 {
		return errors.New("EDSM_RATE_PER_SEC and EDSM_RATE_BURST must not be negative")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("EDSM_CACHE_TTL_S must be positive")
	}
	if c.Nearest.MaxLandmarkLy < 0 {
		return errors.New("LANDMARK_MAX_LY must not be negative")
	}
	switch c.Refdata.Source {
	case "embedded", "dir", "postgres":
	default:
		return fmt.Errorf("REFDATA_SOURCE %q is not one of embedded, dir, postgres", c.Refdata.Source)
	}
	return nil
}

// PostgresDSN：按 URL 形式拼接连接串
func (c *Config) PostgresDSN() string {
	p := c.Postgres
	dsn := "postgres://" + p.User
	if p.Pass != "" {
		dsn += ":" + p.Pass
	}
	return dsn + "@" + p.Host + ":" + p.Port + "/" + p.DB + "?sslmode=" + p.SSLMode
}

func (c *Config) RedisAddr() string { return c.Redis.Host + ":" + c.Redis.Port }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// 解析失败时回退默认值
func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
