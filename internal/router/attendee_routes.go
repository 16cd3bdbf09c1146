package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/handler"
	"github.com/dmarku/eventdesk/internal/middleware"
	"github.com/dmarku/eventdesk/internal/model"
)

// RegisterAttendee registers the registration ledger endpoints.
// Attendees register themselves; admins may also register (on the
// admin branch of the registrant pair), so both roles are allowed.
func RegisterAttendee(e *echo.Echo, h *handler.RegistrationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAttendee, model.RoleAdmin),
	)
	g.POST("/events/:id/register", h.Register)
	g.GET("/my-registrations", h.ListMine)

	// Cancel and ticket download also serve organizers acting as
	// admins-on-behalf flows, so they only require authentication;
	// ownership is enforced in the handler.
	any := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	any.DELETE("/registrations/:id", h.Cancel)
	any.GET("/registrations/:id/ticket", h.TicketQR)
}
