package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashukla/ridepool/internal/logging"
	authmw "github.com/ashukla/ridepool/internal/middleware/auth"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid body"})
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "message": err.Error()})
		case errors.Is(err, repo.ErrUserExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "user_exists", "message": "username or email already taken"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "registration failed"})
		}
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid body"})
	}

	raw, _, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		// A missing user and a wrong password produce the same response.
		if errors.Is(err, repo.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_credentials", "message": "invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "login failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"token": raw})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	raw, ok := authmw.BearerToken(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "message": "bearer token required"})
	}

	if err := h.Svc.Logout(ctx, raw); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "message": "token is not valid"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	user, err := h.Svc.Repo.UserByID(ctx, id.UserID)
	if err != nil {
		logging.FromContext(ctx).Error("me lookup failed", "user_id", id.UserID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "lookup failed"})
	}

	return c.JSON(http.StatusOK, user)
}
