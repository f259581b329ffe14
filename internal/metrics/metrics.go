package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
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

	entityOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_operations_total",
			Help: "Entity store operations by kind, operation and result.",
		},
		[]string{"kind", "op", "result"},
	)

	assignmentToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_assignment_toggles_total",
			Help: "Assignment toggles by resulting state.",
		},
		[]string{"assigned"},
	)
)

// GinMiddleware records request count and latency per route.
func GinMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	code := strconv.Itoa(c.Writer.Status())
	path := c.FullPath()

	// unmatched routes have no FullPath; group them so the label set stays bounded
	if path == "" {
		path = "unmatched"
	}

	if path == "/metrics" {
		return
	}

	method := c.Request.Method

	httpRequests.WithLabelValues(path, method, code).Inc()
	httpDuration.WithLabelValues(path, method, code).Observe(time.Since(start).Seconds())
}

// Handler serves the exposition format on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(HTTPHandler())
}

// HTTPHandler serves the exposition format for a standalone metrics server.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}

// ObserveEntityOp counts one store operation. Validation and not-found
// outcomes are reported as errors too; the label is the result, not the cause.
func ObserveEntityOp(kind, op string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	entityOps.WithLabelValues(kind, op, result).Inc()
}

// ObserveAssignmentToggle counts a successful toggle by its outcome.
func ObserveAssignmentToggle(assigned bool) {
	assignmentToggles.WithLabelValues(strconv.FormatBool(assigned)).Inc()
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		entityOps,
		assignmentToggles,
	}

	for _, c := range collectors {
		var already prometheus.AlreadyRegisteredError
		if err := registry.Register(c); err != nil && !errors.As(err, &already) {
			panic(err)
		}
	}
}
