// 包 edsm：星系/指挥官位置查询的上游客户端（EDSM 兼容接口），带严格响应校验与 TTL 缓存
package edsm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"galaxy-lookup/internal/config"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/metrics"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.edsm.net"
	DefaultTimeout = 10 * time.Second

	userAgent = "galaxy-lookup/1.0"
	maxBody   = 4 << 20
)

// 接口名，用作指标标签与错误 Op
const (
	endpointSystem    = "system"
	endpointSystems   = "systems"
	endpointSphere    = "sphere"
	endpointCommander = "commander"
)

// 文档注释：上游传输层
// 背景：所有查询共用一个 HTTP 客户端与限流器；上游对突发请求较敏感，按配置限速。
// 约束：不重试；传输失败、超时与非 2xx 统一映射为 Connection 错误，重试策略由调用方决定。
type Client struct {
	baseURL string
	hc      *http.Client
	limiter *rate.Limiter
}

// NewClient 构建客户端；limiter 为空时不限速，timeout<=0 时使用 10s
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: baseURL, hc: &http.Client{Timeout: timeout}, limiter: limiter}
}

// NewClientFromConfig 按 EDSM_* 配置构建客户端；RatePerSec<=0 关闭限速
func NewClientFromConfig(cfg config.EDSMConfig) *Client {
	var lim *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return NewClient(cfg.BaseURL, cfg.Timeout, lim)
}

// get 发出一次 GET 并返回原始响应体；解析与校验在 schema.go
func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	op := "edsm." + endpoint
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.fail(endpoint, locerr.Connection(op, err))
		}
	}
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, c.fail(endpoint, locerr.Connection(op, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	t0 := time.Now()
	metrics.EDSMRequestsTotal.WithLabelValues(endpoint).Inc()
	logger.L().Debug("edsm_req", "endpoint", endpoint, "query", q.Encode())
	resp, err := c.hc.Do(req)
	if err != nil {
		logger.L().Error("edsm_http_error", "endpoint", endpoint, "err", err)
		return nil, c.fail(endpoint, locerr.Connection(op, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.L().Error("edsm_http_status", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, c.fail(endpoint, locerr.Connection(op, fmt.Errorf("http status %d", resp.StatusCode)))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		logger.L().Error("edsm_read_error", "endpoint", endpoint, "err", err)
		return nil, c.fail(endpoint, locerr.Connection(op, err))
	}
	dur := time.Since(t0).Milliseconds()
	metrics.EDSMDurationMs.WithLabelValues(endpoint).Observe(float64(dur))
	logger.L().Debug("edsm_resp", "endpoint", endpoint, "bytes", len(b), "duration_ms", dur)
	return b, nil
}

// fail 按错误种类计数后原样返回
func (c *Client) fail(endpoint string, err error) error {
	metrics.EDSMFailTotal.WithLabelValues(endpoint, string(locerr.KindOf(err))).Inc()
	return err
}
