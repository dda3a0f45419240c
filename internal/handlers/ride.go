package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/ashukla/ridepool/internal/middleware/auth"
	"github.com/ashukla/ridepool/internal/service"
	"github.com/ashukla/ridepool/internal/util"
)

type RideHandler struct {
	Svc *service.RideService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *RideHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	var req service.PostRideInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid body"})
	}

	ride, err := h.Svc.PostRide(ctx, *id, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not post ride"})
	}

	return c.JSON(http.StatusCreated, ride)
}

func (h *RideHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	rides, total, err := h.Svc.ListRides(ctx, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not list rides"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": rides,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *RideHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	rides, err := h.Svc.SearchByRoute(ctx,
		c.QueryParam("source"),
		c.QueryParam("destination"),
		c.QueryParam("date"),
	)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_failed", "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "search failed"})
	}

	return c.JSON(http.StatusOK, rides)
}

func (h *RideHandler) Mine(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	rides, err := h.Svc.RidesByDriver(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not list rides"})
	}
	return c.JSON(http.StatusOK, rides)
}
