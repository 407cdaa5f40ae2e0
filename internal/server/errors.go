package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrSectionNotFound = echo.NewHTTPError(http.StatusNotFound, "Config section not found")
	ErrEpochRequired   = echo.NewHTTPError(http.StatusBadRequest, "Query parameter epoch is required")
	ErrEpochInvalid    = echo.NewHTTPError(http.StatusBadRequest, "Epoch must be an integer")
	ErrBodyRequired    = echo.NewHTTPError(http.StatusBadRequest, "Request body is required")
)
