package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/api/handler"
	"github.com/gcreations/storefront-agent/internal/api/middleware"
	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(session ports.SessionService, workflow ports.SubmissionService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Session routes ---
	sessionHandler := handler.NewSessionHandler(session)
	e.GET("/session", sessionHandler.Current)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/register", sessionHandler.Register)
	e.DELETE("/session", sessionHandler.Logout)

	// --- Protected submission route ---
	submissionHandler := handler.NewSubmissionHandler(workflow)
	e.POST("/submissions", submissionHandler.Submit,
		middleware.RequireRole(session, domain.RoleCustomer))

	// --- Health and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
