package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/api/metrics"
	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// Auth validates the access token and injects its claims into context under
// "email" and "user_id". Expired tokens fail fast here, before any ledger or
// engine work is attempted.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := ExtractBearer(c)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return err
			}

			claims, err := tokens.VerifyAccess(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set("email", claims.Email)
			c.Set("user_id", claims.UserID)

			return next(c)
		}
	}
}

// ExtractBearer pulls the raw token out of the Authorization header.
func ExtractBearer(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
