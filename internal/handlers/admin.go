package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/util"
)

type AdminHandler struct {
	Repo *repo.GormRepo
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	users, total, err := h.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not list users"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": users,
		"meta": echo.Map{"page": page, "size": limit, "total": total},
	})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid user id"})
	}

	if err := h.Repo.DeleteUser(ctx, uint(id)); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
