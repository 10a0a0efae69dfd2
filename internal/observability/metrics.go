package observability

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

// Metrics is an in-process Prometheus text exposition. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	renders       *CounterVec
	renderLatency *HistogramVec
	captures      *CounterVec
	redisUp       *Gauge
	redisPing     *Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("roomstage_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"roomstage_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight: NewGauge("roomstage_api_inflight_requests", "In-flight API requests."),
		renders:     NewCounterVec("roomstage_renders_total", "Renders by generation mode, provider and fallback.", []string{"mode", "provider", "fallback"}),
		renderLatency: NewHistogramVec(
			"roomstage_render_duration_seconds",
			"Synthesis latency in seconds by provider.",
			[]string{"provider"},
			[]float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		),
		captures:  NewCounterVec("roomstage_captures_total", "Scene captures by mode and availability.", []string{"mode", "available"}),
		redisUp:   NewGauge("roomstage_redis_up", "Capture cache reachability (1 up, 0 down)."),
		redisPing: NewGauge("roomstage_redis_ping_seconds", "Last capture cache ping latency."),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) InflightAdd(d float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(d)
}

func (m *Metrics) ObserveRender(mode, provider string, fallback bool, dur time.Duration) {
	if m == nil {
		return
	}
	m.renders.Inc(mode, provider, strconv.FormatBool(fallback))
	m.renderLatency.Observe(dur.Seconds(), provider)
}

func (m *Metrics) ObserveCapture(mode string, available bool) {
	if m == nil {
		return
	}
	m.captures.Inc(mode, strconv.FormatBool(available))
}

// Renders returns the render count for one label set.
func (m *Metrics) Renders(mode, provider string, fallback bool) float64 {
	if m == nil {
		return 0
	}
	return m.renders.Value(mode, provider, strconv.FormatBool(fallback))
}

func (m *Metrics) Captures(mode string, available bool) float64 {
	if m == nil {
		return 0
	}
	return m.captures.Value(mode, strconv.FormatBool(available))
}

// StartRedisCollector pings rdb every interval until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil && ctx.Err() == nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.renders, m.renderLatency, m.captures,
		m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// MetricsEnabled reads METRICS_ENABLED.
func MetricsEnabled() bool {
	return truthy(os.Getenv("METRICS_ENABLED"))
}
