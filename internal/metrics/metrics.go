package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/productscience/monorange/runconfig"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "monorange_http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "monorange_http_request_duration_seconds", Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	Validations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "monorange_validations_total", Help: "Run config validations by result"},
		[]string{"result"},
	)
	Violations = prometheus.NewCounter(prometheus.CounterOpts{Name: "monorange_violations_total", Help: "Schema violations reported"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, Validations, Violations)
}

// Result labels a validation outcome.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, runconfig.ErrPath):
		return "path"
	case errors.Is(err, runconfig.ErrParse):
		return "parse"
	case errors.Is(err, runconfig.ErrAliasMismatch):
		return "alias"
	case errors.Is(err, runconfig.ErrSchema):
		return "schema"
	}
	return "error"
}

// ObserveValidation counts one load/validate pass.
func ObserveValidation(err error) {
	Validations.WithLabelValues(Result(err)).Inc()
	var schemaErr *runconfig.SchemaError
	if errors.As(err, &schemaErr) {
		Violations.Add(float64(len(schemaErr.Violations)))
	}
}

// Middleware records request count and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			dur := time.Since(start).Seconds()
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			HTTPLatency.WithLabelValues(path, c.Request().Method).Observe(dur)
			HTTPRequests.WithLabelValues(path, c.Request().Method, strconv.Itoa(c.Response().Status)).Inc()
			return nil
		}
	}
}

// Exposer serves the default Prometheus registry.
func Exposer() echo.HandlerFunc { return echo.WrapHandler(promhttp.Handler()) }
