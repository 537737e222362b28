package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus collectors of the log history service.
type Metrics struct {
	UpstreamFetchesTotal   *prometheus.CounterVec
	UpstreamFetchDuration  *prometheus.HistogramVec
	SnapshotRefreshesTotal *prometheus.CounterVec
	SnapshotEntries        prometheus.Gauge
	CategoryQueriesTotal   *prometheus.CounterVec
	ExportsTotal           *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loghistory_upstream_fetches_total",
				Help: "Upstream entity API fetches by source and outcome",
			},
			[]string{"source", "status"},
		),
		UpstreamFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loghistory_upstream_fetch_duration_seconds",
				Help:    "Duration of upstream entity API fetches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		SnapshotRefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loghistory_snapshot_refreshes_total",
				Help: "Aggregated log snapshot refreshes by outcome",
			},
			[]string{"status"},
		),
		SnapshotEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "loghistory_snapshot_entries",
				Help: "Number of log entries in the current snapshot",
			},
		),
		CategoryQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loghistory_category_queries_total",
				Help: "Category view queries",
			},
			[]string{"category"},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loghistory_exports_total",
				Help: "Spreadsheet exports by category",
			},
			[]string{"category"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loghistory_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loghistory_http_request_duration_seconds",
				Help:    "HTTP request duration by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) RecordFetch(source string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.UpstreamFetchesTotal.WithLabelValues(source, status).Inc()
	m.UpstreamFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) RecordRefresh(ok bool, entries int) {
	status := "success"
	if !ok {
		status = "error"
	}
	m.SnapshotRefreshesTotal.WithLabelValues(status).Inc()
	m.SnapshotEntries.Set(float64(entries))
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
