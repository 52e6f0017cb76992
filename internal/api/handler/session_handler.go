package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gcreations/storefront-agent/internal/api/metrics"
	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
)

// SessionHandler exposes the session lifecycle to the UI.
type SessionHandler struct {
	session ports.SessionService
}

func NewSessionHandler(session ports.SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Current returns the session snapshot so views can re-evaluate the
// access guard.
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session.Current())
}

// Login authenticates against the storefront backend and establishes
// the session.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.session.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

// Register creates an account; it never establishes a session and the
// response carries the login redirect instead.
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.session.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusCreated, outcome)
}

// Logout tears the session down; it always succeeds locally.
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func registerResult(err error) string {
	var ae *domain.AuthError
	if errors.As(err, &ae) && ae.Reason == domain.ReasonUsernameTaken {
		return "conflict"
	}
	return "failure"
}
