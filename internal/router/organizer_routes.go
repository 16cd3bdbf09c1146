package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/handler"
	"github.com/dmarku/eventdesk/internal/middleware"
	"github.com/dmarku/eventdesk/internal/model"
)

// RegisterOrganizer registers event management and check-in
// endpoints for organizers and admins. Ownership (organizers may
// only touch their own events) is enforced in the handlers; admins
// pass the ownership check for any event.
func RegisterOrganizer(e *echo.Echo, h *handler.EventHandler, ci *handler.CheckInHandler, an *handler.AnnouncementHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin),
	)
	g.POST("/events", h.CreateEvent)
	g.GET("/my-events", h.ListMyEvents)
	g.PUT("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
	g.GET("/events/:id/registrations", h.ListEventRegistrations)

	g.POST("/checkin", ci.CheckIn)

	g.POST("/announcements", an.Create)
	g.DELETE("/announcements/:id", an.Delete)
}
