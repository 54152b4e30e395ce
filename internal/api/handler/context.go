package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/api/middleware"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call when the middleware did not run.
func ctxIdentity(c echo.Context) (email, userID string, err error) {
	email, _ = c.Get("email").(string)
	userID, _ = c.Get("user_id").(string)
	if email == "" || userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, userID, nil
}

// bearerToken returns the raw Authorization bearer credential. Used by the
// reissue endpoint, where the refresh token is presented directly.
func bearerToken(c echo.Context) (string, error) {
	return middleware.ExtractBearer(c)
}
