package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gcreations/storefront-agent/internal/core/ports"
	"github.com/gcreations/storefront-agent/internal/core/service"
)

// RequireRole gates a route on the access guard's verdict for the
// current session. While the session is still hydrating the verdict is
// pending, so the caller is told to retry instead of being bounced to
// login prematurely.
func RequireRole(session ports.SessionReader, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access := service.CanAccess(session.Current(), role)
			switch access.Decision {
			case service.Allow:
				return next(c)
			case service.Pending:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session hydrating")
			default:
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":    "authentication required",
					"redirect": access.Redirect,
				})
			}
		}
	}
}
