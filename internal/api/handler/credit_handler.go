package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

type CreditHandler struct {
	credits ports.CreditService
	users   ports.UserService
}

func NewCreditHandler(credits ports.CreditService, users ports.UserService) *CreditHandler {
	return &CreditHandler{credits: credits, users: users}
}

type updateCreditsRequest struct {
	Email string `json:"email" validate:"required,email"`
	Delta int64  `json:"delta" validate:"required"`
}

type refillRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type balanceResponse struct {
	Email   string `json:"email"`
	Balance int64  `json:"balance"`
}

// isAdmin re-checks the requester's admin flag against storage; token claims
// are never trusted for privilege.
func (h *CreditHandler) isAdmin(c echo.Context, email string) bool {
	user, err := h.users.GetByEmail(c.Request().Context(), email)
	return err == nil && user.IsAdmin
}

// Read handles GET /credits/read — own balance; admins may read any via
// ?email=.
func (h *CreditHandler) Read(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	target := email
	if q := c.QueryParam("email"); q != "" && q != email {
		if !h.isAdmin(c, email) {
			return domain.ErrForbidden
		}
		target = q
	}

	balance, err := h.credits.Balance(c.Request().Context(), target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{Email: target, Balance: balance})
}

// ReadAll handles GET /credits/read/all — admin only (enforced by route
// middleware).
func (h *CreditHandler) ReadAll(c echo.Context) error {
	credits, err := h.credits.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, credits)
}

// Update handles PUT /credits/update — applies a signed delta. A non-admin
// may only touch their own ledger.
func (h *CreditHandler) Update(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateCreditsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Email != email && !h.isAdmin(c, email) {
		return domain.ErrForbidden
	}

	balance, err := h.credits.Adjust(c.Request().Context(), req.Email, req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{Email: req.Email, Balance: balance})
}

// Refill handles POST /credits/refill — admin top-up by the row's own
// increment step.
func (h *CreditHandler) Refill(c echo.Context) error {
	var req refillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	balance, err := h.credits.Refill(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{Email: req.Email, Balance: balance})
}
