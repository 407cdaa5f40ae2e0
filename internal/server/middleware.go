package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/productscience/monorange/logging"
)

const requestIDHeader = "X-Request-Id"

func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rid := c.Request().Header.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Response().Header().Set(requestIDHeader, rid)
		return next(c)
	}
}

func LoggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		logging.Info("Received request", logging.Server, "method", r.Method, "path", r.URL.Path, "request_id", c.Get("request_id"))
		logging.Debug("Request headers", logging.Server, "headers", r.Header)
		return next(c)
	}
}
