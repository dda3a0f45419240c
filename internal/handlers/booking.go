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

type BookingHandler struct {
	Svc *service.BookingService
}

func (h *BookingHandler) Book(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	rideID, err := strconv.Atoi(c.Param("rideID"))
	if err != nil || rideID < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid ride id"})
	}

	booking, err := h.Svc.Book(ctx, *id, uint(rideID))
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrRideNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ride_not_found", "message": "ride not found"})
		case errors.Is(err, repo.ErrNoSeatsAvailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no_seats", "message": "no seats available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "booking failed"})
		}
	}

	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	bookingID, err := strconv.Atoi(c.Param("id"))
	if err != nil || bookingID < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid booking id"})
	}

	booking, err := h.Svc.Cancel(ctx, *id, uint(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking_not_found", "message": "booking not found"})
		case errors.Is(err, repo.ErrAlreadyCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already_cancelled", "message": "booking already cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "cancel failed"})
		}
	}

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) My(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	bookings, err := h.Svc.BookingsForPassenger(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not list bookings"})
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Driver(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated", "message": "authentication required"})
	}

	bookings, err := h.Svc.BookingsForDriver(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "could not list bookings"})
	}
	return c.JSON(http.StatusOK, bookings)
}
