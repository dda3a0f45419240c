package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashukla/ridepool/internal/handlers"
	"github.com/ashukla/ridepool/internal/logging"
	authmw "github.com/ashukla/ridepool/internal/middleware/auth"
	"github.com/ashukla/ridepool/internal/models"
)

type Deps struct {
	Logger              *slog.Logger
	AuthMW              *authmw.Middleware
	AuthHandler         *handlers.AuthHandler
	RideHandler         *handlers.RideHandler
	BookingHandler      *handlers.BookingHandler
	NotificationHandler *handlers.NotificationHandler
	SearchHandler       *handlers.SearchHandler
	AdminHandler        *handlers.AdminHandler
}

// PolicyRules is the authorization table for the routes Register wires
// up. Kept next to the routes so the two stay in sync; NewPolicy
// validates the table at startup.
func PolicyRules() []authmw.Rule {
	passengers := []models.Role{models.RolePassenger, models.RoleBoth}
	drivers := []models.Role{models.RoleDriver, models.RoleBoth}
	admins := []models.Role{models.RoleAdmin}

	return []authmw.Rule{
		{Pattern: "/health/*", Public: true},
		{Method: http.MethodPost, Pattern: "/api/v1/register", Public: true},
		{Method: http.MethodPost, Pattern: "/api/v1/login", Public: true},
		// Logout validates the bearer token itself so that a missing
		// header gets the invalid-token response, not a policy denial.
		{Method: http.MethodPost, Pattern: "/api/v1/logout", Public: true},

		{Method: http.MethodGet, Pattern: "/api/v1/rides", Roles: passengers},
		{Method: http.MethodGet, Pattern: "/api/v1/rides/search", Roles: passengers},
		{Method: http.MethodGet, Pattern: "/api/v1/search", Roles: passengers},
		{Method: http.MethodPost, Pattern: "/api/v1/bookings/:rideID", Roles: passengers},
		{Method: http.MethodDelete, Pattern: "/api/v1/bookings/:id", Roles: passengers},
		{Method: http.MethodGet, Pattern: "/api/v1/bookings/my", Roles: passengers},

		{Method: http.MethodPost, Pattern: "/api/v1/rides", Roles: drivers},
		{Method: http.MethodGet, Pattern: "/api/v1/rides/mine", Roles: drivers},
		{Method: http.MethodGet, Pattern: "/api/v1/bookings/driver", Roles: drivers},

		{Pattern: "/api/v1/admin/*", Roles: admins},

		// /api/v1/me and /api/v1/notifications fall through to the
		// default: any authenticated identity.
	}
}

func Register(e *echo.Echo, d *Deps) {
	if d.Logger != nil {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				req := c.Request()
				c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), d.Logger)))
				return next(c)
			}
		})
	}

	e.Use(d.AuthMW.Filter, d.AuthMW.Authorize)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/me", d.AuthHandler.Me)

	v1.GET("/rides", d.RideHandler.List)
	v1.POST("/rides", d.RideHandler.Create)
	v1.GET("/rides/search", d.RideHandler.Search)
	v1.GET("/rides/mine", d.RideHandler.Mine)
	v1.GET("/search", d.SearchHandler.Search)

	v1.POST("/bookings/:rideID", d.BookingHandler.Book)
	v1.DELETE("/bookings/:id", d.BookingHandler.Cancel)
	v1.GET("/bookings/my", d.BookingHandler.My)
	v1.GET("/bookings/driver", d.BookingHandler.Driver)

	v1.GET("/notifications", d.NotificationHandler.List)
	v1.POST("/notifications/:id/read", d.NotificationHandler.MarkRead)

	admin := v1.Group("/admin")
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.DELETE("/users/:id", d.AdminHandler.DeleteUser)
}
