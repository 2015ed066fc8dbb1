// Package monitoring exposes Prometheus metrics for HTTP traffic and the
// attempt lifecycle.
package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AttemptTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_attempt_transitions_total",
			Help: "Attempt lifecycle transitions by resulting status",
		},
		[]string{"status"},
	)

	OverallScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_overall_score",
			Help:    "Overall percentage score of submitted attempts",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ManualOverrides = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_manual_overrides_total",
			Help: "Manual score overrides applied by graders",
		},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Calling it more
// than once is harmless.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, AttemptTransitions, OverallScores, ManualOverrides)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
