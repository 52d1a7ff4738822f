package resources

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TracerMiddleware opens a server span per request.
func TracerMiddleware(name string) gin.HandlerFunc {
	return otelgin.Middleware(name)
}

// MeterMiddleware records request counts and latency per admin route.
func MeterMiddleware(name string) gin.HandlerFunc {
	return NewAdminMetrics(name).Middleware()
}

type AdminMetrics struct {
	requests metric.Int64Counter
	writes   metric.Int64Counter
	latency  metric.Float64Histogram
}

func NewAdminMetrics(name string) *AdminMetrics {
	meter := otel.Meter(name)

	requests, _ := meter.Int64Counter(
		"admin.http.requests",
		metric.WithDescription("Admin API requests"),
	)
	writes, _ := meter.Int64Counter(
		"admin.http.writes",
		metric.WithDescription("Admin API create, update and delete requests"),
	)
	latency, _ := meter.Float64Histogram(
		"admin.http.duration",
		metric.WithDescription("Admin API request duration"),
		metric.WithUnit("ms"),
	)

	return &AdminMetrics{requests: requests, writes: writes, latency: latency}
}

func (m *AdminMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()
		attrs := metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.status_class", strconv.Itoa(status/100)+"xx"),
			attribute.String("admin.collection", collectionOf(route)),
		)

		ctx := c.Request.Context()
		m.requests.Add(ctx, 1, attrs)
		m.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)

		if isWrite(c.Request.Method) {
			m.writes.Add(ctx, 1, attrs)
		}
	}
}

// collectionOf returns the path segment following /api/, or "none".
func collectionOf(route string) string {
	rest, found := strings.CutPrefix(route, "/api/")
	if !found {
		return "none"
	}

	segment, _, _ := strings.Cut(rest, "/")
	if segment == "" || strings.HasPrefix(segment, ":") {
		return "none"
	}

	return segment
}

func isWrite(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}
