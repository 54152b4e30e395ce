package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/core/ports"
)

// AdminOnly gates admin endpoints. The admin flag is re-read from the user
// directory on every request rather than trusted from token claims, so a
// demoted user's outstanding tokens lose their privilege immediately.
func AdminOnly(users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get("email").(string)
			if email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := users.FindByEmail(c.Request().Context(), email)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown principal")
			}
			if !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
			}

			c.Set("is_admin", true)
			return next(c)
		}
	}
}
