package middleware

import (
	"strconv"
	"time"

	"github.com/agency/planner/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
// A nil Meter disables collection.
type HTTPMetricsConfig struct {
	Meter metric.Meter
}

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestErrors   *telemetry.Counter
	requestDuration *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := telemetry.NewCounter(meter,
		"planner_http_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}

	requestErrors, err := telemetry.NewCounter(meter,
		"planner_http_request_errors_total", "HTTP requests answered with an API error code", "{request}")
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "planner_http_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"planner_http_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestErrors:   requestErrors,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics records request count, latency, in-flight requests and API
// error codes. Routes are reported by their pattern so ids do not explode
// cardinality; unmatched routes are reported as "unmatched".
func HTTPMetrics(cfg HTTPMetricsConfig) (gin.HandlerFunc, error) {
	noop := func(c *gin.Context) { c.Next() }
	if cfg.Meter == nil {
		return noop, nil
	}

	m, err := newHTTPMetrics(cfg.Meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)

		m.activeRequests.Add(ctx, 1, metric.WithAttributes(method))
		defer m.activeRequests.Add(ctx, -1, metric.WithAttributes(method))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			method,
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.String(strconv.Itoa(c.Writer.Status())),
		}

		m.requestTotal.Inc(ctx, attrs...)
		m.requestDuration.RecordDuration(ctx, time.Since(start), attrs[:2]...)
		if code := c.GetString(ErrorCodeContextKey); code != "" {
			m.requestErrors.Inc(ctx, telemetry.AttrHTTPRoute.String(route), telemetry.AttrErrorCode.String(code))
		}
	}, nil
}
