package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoshape",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoshape",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Geodesy metrics
	GeodesicSolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "geodesy",
		Name:      "solves_total",
		Help:      "Total geodesic solves by problem kind",
	}, []string{"kind"})

	GeodesicIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoshape",
		Subsystem: "geodesy",
		Name:      "iterations",
		Help:      "Iterations used per geodesic solve",
		Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 20, 50, 100, 250},
	}, []string{"kind"})

	GeodesicNonConverged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "geodesy",
		Name:      "non_converged_total",
		Help:      "Solves that exhausted the iteration budget",
	}, []string{"kind"})

	// Shape metrics
	ShapesBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "shapes",
		Name:      "built_total",
		Help:      "Total shapes generated",
	}, []string{"kind"})

	ShapeBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geoshape",
		Subsystem: "shapes",
		Name:      "build_duration_seconds",
		Help:      "Time spent sampling a shape",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"kind"})

	ShapeVertices = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geoshape",
		Subsystem: "shapes",
		Name:      "vertices",
		Help:      "Boundary vertices per generated shape record",
		Buckets:   prometheus.ExponentialBuckets(4, 4, 7),
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Shape events published, by outcome",
	}, []string{"outcome"})

	ShapesArchived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "archive",
		Name:      "writes_total",
		Help:      "Shape archive writes, by outcome",
	}, []string{"outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geoshape",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoshape",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geoshape",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geoshape",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "geoshape",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// ObserveSolve records one geodesic solve.
func ObserveSolve(kind string, iterations int, converged bool) {
	GeodesicSolves.WithLabelValues(kind).Inc()
	GeodesicIterations.WithLabelValues(kind).Observe(float64(iterations))
	if !converged {
		GeodesicNonConverged.WithLabelValues(kind).Inc()
	}
}

// Outcome is the label value for an error result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat the pool gauges read.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics updates database pool gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
