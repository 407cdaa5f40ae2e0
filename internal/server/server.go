package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productscience/monorange/internal/metrics"
	"github.com/productscience/monorange/logging"
	"github.com/productscience/monorange/plan"
	"github.com/productscience/monorange/runconfig"
	"github.com/productscience/monorange/runconfig/schema"
)

// Server is a read-only view of one validated run config. The config is loaded before
// the server starts and never reloaded.
type Server struct {
	e             *echo.Echo
	configManager *runconfig.ConfigManager
	registry      *schema.Registry
	plan          *plan.Plan
}

func NewServer(configManager *runconfig.ConfigManager) (*Server, error) {
	p, err := plan.Build(*configManager.GetConfig())
	if err != nil {
		return nil, err
	}
	registry := configManager.Registry
	if registry == nil {
		registry = schema.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s := &Server{
		e:             e,
		configManager: configManager,
		registry:      registry,
		plan:          p,
	}

	e.Use(RequestIDMiddleware)
	e.Use(LoggingMiddleware)
	e.Use(metrics.Middleware())
	e.GET("/metrics", metrics.Exposer())

	g := e.Group("/v1/")

	g.GET("status", s.getStatus)

	g.GET("config", s.getConfig)
	g.GET("config/:section", s.getConfigSection)
	g.GET("warnings", s.getWarnings)

	g.GET("plan/loss-weights", s.getLossWeights)
	g.GET("plan/schedule", s.getSchedule)
	g.GET("plan/lr", s.getLR)
	g.GET("plan/checkpoints", s.getCheckpoints)

	g.POST("validate", s.postValidate)

	return s, nil
}

func (s *Server) Handler() http.Handler { return s.e }

// Start serves on addr in the background.
func (s *Server) Start(addr string) {
	go func() {
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server stopped", logging.Server, "addr", addr, "error", err)
		}
	}()
	logging.Info("Serving run config", logging.Server, "addr", addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) getStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, struct {
		Status string `json:"status"`
		Source string `json:"source"`
	}{Status: "ok", Source: s.configManager.Document().Source()})
}
