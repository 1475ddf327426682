package handler // handler defines the HTTP handlers for the API

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/artefacto/heritage-api/internal/middleware"
)

// envelope is the uniform response shape: {status, message, data?, errors?}.
// Every handler answers with it; no raw protocol-level failure reaches the
// client.
type envelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []fieldError `json:"errors,omitempty"`
}

// fieldError describes a single invalid input field.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respond(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, envelope{Status: "success", Message: message, Data: data})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: "error", Message: message})
}

func respondValidation(c echo.Context, errs []fieldError) error {
	return c.JSON(400, envelope{Status: "error", Message: "validation error", Errors: errs})
}

// respondInternal logs the underlying error server-side and answers with a
// generic message so internals never leak to clients.
func respondInternal(c echo.Context, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return respondError(c, 500, "server error")
}

// getUserID extracts the authenticated user's id placed in the context by the
// JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if uid, ok := c.Get(middleware.ContextUserID).(uint64); ok && uid != 0 {
		return uid, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// reqCtx bounds a request's database work with a timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
