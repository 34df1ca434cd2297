package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EDSMRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_edsm_requests_total",
		Help: "Total upstream lookup requests by endpoint",
	}, []string{"endpoint"})
	EDSMFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_edsm_fail_total",
		Help: "Total failed upstream lookups by endpoint and failure kind",
	}, []string{"endpoint", "kind"})
	EDSMDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "galaxy_edsm_duration_ms",
		Help:    "Upstream lookup duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"endpoint"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_cache_hits_total",
		Help: "Total lookup cache hits",
	}, []string{"cache"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_cache_misses_total",
		Help: "Total lookup cache misses (absent, stale or overridden)",
	}, []string{"cache"})
	RefdataLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_refdata_loads_total",
		Help: "Total reference dataset loads",
	}, []string{"dataset"})
)

func init() {
	prometheus.MustRegister(EDSMRequestsTotal)
	prometheus.MustRegister(EDSMFailTotal)
	prometheus.MustRegister(EDSMDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(RefdataLoadsTotal)
}

// 文档注释：返回 Prometheus 指标处理器，由 CLI 的 --metrics-addr 挂载到 /metrics
func Handler() http.Handler { return promhttp.Handler() }
