package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imezy/imezy-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
	auth  ports.AuthService
}

func NewUserHandler(users ports.UserService, auth ports.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type updateEmailRequest struct {
	Email        string `json:"email" validate:"required,email"`
	ConfirmEmail string `json:"confirm_email" validate:"required,email"`
}

type updateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Create handles POST /user/create — signup. User and credit row are created
// together; a partial failure is compensated and surfaced as a 500.
//
// @Summary      Register a new user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Signup details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /user/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		IsActive: req.IsActive,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: "user " + user.Username + " created successfully",
	})
}

// Login handles POST /user/login — credential check, issues an
// access+refresh pair and rotates the stored refresh token.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// Reissue handles POST /user/reissue — exchanges a refresh token for a fresh
// access token. The refresh token is presented as the bearer credential.
func (h *UserHandler) Reissue(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	access, err := h.auth.Reissue(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "bearer",
	})
}

// Logout handles POST /user/logout — deletes the stored refresh token.
func (h *UserHandler) Logout(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user " + email + " logged out"})
}

// Me handles GET /user/read_user_info — the caller's own profile with balance.
func (h *UserHandler) Me(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	profile, err := h.users.Profile(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// ReadByID handles GET /user/read/:user_id.
func (h *UserHandler) ReadByID(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ReadAll handles GET /user/read_all — admin only.
func (h *UserHandler) ReadAll(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdatePassword handles PUT /user/update_password.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	_, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.UpdatePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated successfully"})
}

// UpdateEmail handles PUT /user/update_email. A successful change re-issues
// both tokens bound to the new email, since email is embedded in claims, and
// rotates the stored refresh token to the new key.
func (h *UserHandler) UpdateEmail(c echo.Context) error {
	email, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.UpdateEmail(c.Request().Context(), userID, req.Email, req.ConfirmEmail)
	if err != nil {
		return err
	}

	pair, err := h.auth.RotateEmail(c.Request().Context(), email, user.Email, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":       "email updated to '" + user.Email + "' successfully",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
	})
}

// UpdateUsername handles PUT /user/update_username.
func (h *UserHandler) UpdateUsername(c echo.Context) error {
	_, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.users.UpdateUsername(c.Request().Context(), userID, req.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "username updated to '" + req.Username + "' successfully"})
}

// DeleteByID handles DELETE /user/delete/:user_id — admin only, cascades to
// the credit row.
func (h *UserHandler) DeleteByID(c echo.Context) error {
	id := c.Param("user_id")
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user " + id + " deleted"})
}

// MakeAdmin handles PUT /user/make_admin/:user_id — admin only, idempotent.
func (h *UserHandler) MakeAdmin(c echo.Context) error {
	id := c.Param("user_id")
	if err := h.users.PromoteAdmin(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user " + id + " is now admin"})
}
