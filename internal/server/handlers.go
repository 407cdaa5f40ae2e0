package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/productscience/monorange/internal/metrics"
	"github.com/productscience/monorange/plan"
	"github.com/productscience/monorange/runconfig"
	"github.com/productscience/monorange/runconfig/schema"
)

const maxBodySize = 1 << 20

type ScheduleResponse struct {
	*plan.Schedule
	Epochs []float64 `json:"epochs"`
}

type LRResponse struct {
	Epoch int     `json:"epoch"`
	LR    float64 `json:"lr"`
}

type CheckpointsResponse struct {
	Saved     []plan.Checkpoint `json:"saved"`
	Evaluated []plan.Checkpoint `json:"evaluated"`
}

type ValidateResponse struct {
	Valid      bool                      `json:"valid"`
	Error      string                    `json:"error,omitempty"`
	Violations []schema.Violation        `json:"violations,omitempty"`
	Mismatches []runconfig.AliasMismatch `json:"mismatches,omitempty"`
	Warnings   []schema.Warning          `json:"warnings,omitempty"`
}

func (s *Server) getConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.configManager.GetConfig())
}

func (s *Server) getConfigSection(ctx echo.Context) error {
	section, ok := s.configManager.Document().Section(ctx.Param("section"))
	if !ok {
		return ErrSectionNotFound
	}
	return ctx.JSON(http.StatusOK, section)
}

func (s *Server) getWarnings(ctx echo.Context) error {
	warnings := s.configManager.Warnings()
	if warnings == nil {
		warnings = []schema.Warning{}
	}
	return ctx.JSON(http.StatusOK, warnings)
}

func (s *Server) getLossWeights(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.plan.LossWeights)
}

func (s *Server) getSchedule(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ScheduleResponse{Schedule: s.plan.Schedule, Epochs: s.plan.Schedule.Epochs()})
}

func (s *Server) getLR(ctx echo.Context) error {
	raw := ctx.QueryParam("epoch")
	if raw == "" {
		return ErrEpochRequired
	}
	epoch, err := strconv.Atoi(raw)
	if err != nil {
		return ErrEpochInvalid
	}
	lr, err := s.plan.Schedule.LR(epoch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ctx.JSON(http.StatusOK, LRResponse{Epoch: epoch, LR: lr})
}

func (s *Server) getCheckpoints(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, CheckpointsResponse{Saved: s.plan.Checkpoints, Evaluated: s.plan.Evaluated})
}

// postValidate checks a run config sent as the request body without touching the one
// being served.
func (s *Server) postValidate(ctx echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxBodySize))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(body) == 0 {
		return ErrBodyRequired
	}

	doc, err := runconfig.LoadBytes("request", body, runconfig.WithoutEnv())
	if err != nil {
		metrics.ObserveValidation(err)
		return ctx.JSON(http.StatusBadRequest, ValidateResponse{Error: err.Error()})
	}

	var resp ValidateResponse
	aliasErr := runconfig.ResolveAliases(doc, s.registry)
	var mismatch *runconfig.AliasMismatchError
	if errors.As(aliasErr, &mismatch) {
		resp.Mismatches = mismatch.Mismatches
	}
	validated, err := runconfig.Validate(doc, s.registry)
	var schemaErr *runconfig.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		resp.Violations = schemaErr.Violations
	case err != nil:
		return err
	default:
		resp.Warnings = validated.Warnings
	}
	if err == nil {
		err = aliasErr
	}
	metrics.ObserveValidation(err)

	resp.Valid = len(resp.Violations) == 0 && len(resp.Mismatches) == 0
	if !resp.Valid {
		return ctx.JSON(http.StatusUnprocessableEntity, resp)
	}
	return ctx.JSON(http.StatusOK, resp)
}
