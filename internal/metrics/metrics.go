package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.DefaultRegisterer

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path/method/code.",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by path/method/code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "code"},
	)

	membershipEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_membership_events_total",
			Help: "Team membership mutations by operation and result.",
		},
		[]string{"op", "result"},
	)

	reconcileRepairs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_reconcile_repairs_total",
			Help: "Profile team-set entries repaired by the reconciliation job.",
		},
		[]string{"kind"},
	)
)

func GinMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	if path == "/metrics" {
		return
	}

	code := strconv.Itoa(c.Writer.Status())
	method := c.Request.Method

	httpRequests.WithLabelValues(path, method, code).Inc()
	httpDuration.WithLabelValues(path, method, code).Observe(time.Since(start).Seconds())
}

func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func ObserveMembershipOp(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	membershipEvents.WithLabelValues(op, result).Inc()
}

func AddReconcileRepairs(kind string, n int64) {
	reconcileRepairs.WithLabelValues(kind).Add(float64(n))
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		membershipEvents,
		reconcileRepairs,
	}

	for _, c := range collectors {
		_ = registry.Register(c)
	}
}
