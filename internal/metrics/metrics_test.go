package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/productscience/monorange/internal/metrics"
	"github.com/productscience/monorange/runconfig"
	"github.com/productscience/monorange/runconfig/schema"
)

func TestResult(t *testing.T) {
	require.Equal(t, "ok", metrics.Result(nil))
	require.Equal(t, "path", metrics.Result(&runconfig.PathError{Path: "x", Err: errors.New("missing")}))
	require.Equal(t, "parse", metrics.Result(&runconfig.ParseError{Source: "x", Err: errors.New("bad")}))
	require.Equal(t, "alias", metrics.Result(&runconfig.AliasMismatchError{}))
	require.Equal(t, "schema", metrics.Result(&runconfig.SchemaError{}))
	require.Equal(t, "error", metrics.Result(errors.New("other")))
}

func TestObserveValidation(t *testing.T) {
	before := testutil.ToFloat64(metrics.Violations)
	metrics.ObserveValidation(&runconfig.SchemaError{Violations: []schema.Violation{{Path: "a"}, {Path: "b"}}})
	require.Equal(t, before+2, testutil.ToFloat64(metrics.Violations))
	require.GreaterOrEqual(t, testutil.ToFloat64(metrics.Validations.WithLabelValues("schema")), 1.0)
}

func TestMiddlewareCountsRoute(t *testing.T) {
	e := echo.New()
	e.Use(metrics.Middleware())
	e.GET("/items/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "no item")
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/items/:id", http.MethodGet, "404"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/items/:id", http.MethodGet, "404")))
}
