package utils

import (
	"context"
	"testing"

	"galaxy-lookup/internal/config"
)

func TestOpenRedisDisabled(t *testing.T) {
	cfg := &config.Config{}
	rc, err := OpenRedis(context.Background(), cfg)
	if rc != nil || err != nil {
		t.Errorf("OpenRedis = %v, %v; want nil, nil when disabled", rc, err)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: "1"}}
	rc, err := OpenRedis(context.Background(), cfg)
	if rc != nil || err == nil {
		t.Errorf("OpenRedis = %v, %v; want ping error", rc, err)
	}
}
