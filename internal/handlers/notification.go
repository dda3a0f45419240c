package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/ashukla/ridepool/internal/middleware/auth"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/service"
)

type NotificationHandler struct {
	Svc *service.NotificationService
}

func (h *NotificationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	items, err := h.Svc.List(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not list notifications"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	nid, err := strconv.Atoi(c.Param("id"))
	if err != nil || nid < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid notification id"})
	}

	if err := h.Svc.MarkRead(ctx, uint(nid), id.UserID); err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
