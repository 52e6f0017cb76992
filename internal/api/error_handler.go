package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Semantic login/register failures keep their reason for inline
	// form messages.
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		switch ae.Reason {
		case domain.ReasonUsernameTaken:
			return http.StatusConflict, ae.Reason
		case domain.ReasonInvalidResponse:
			return http.StatusBadGateway, ae.Reason
		default:
			return http.StatusUnauthorized, ae.Reason
		}
	}

	// Workflow failures name the failing stage so the caller knows
	// whether to resubmit or merely retry notification.
	var we *domain.WorkflowError
	if errors.As(err, &we) {
		switch we.Stage {
		case domain.StageAuth:
			return http.StatusUnauthorized, "authentication required"
		default:
			return http.StatusBadGateway, we.Error()
		}
	}

	switch {
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict, "a submission is already in progress"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "authentication required"
	}

	var te *domain.TransportError
	if errors.As(err, &te) {
		return http.StatusBadGateway, "backend unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
