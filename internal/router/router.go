// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dmarku/eventdesk/internal/handler"
	"github.com/dmarku/eventdesk/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication:
// the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.
// cache may be nil (no caching) or the Redis response cache
// middleware built in main.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, a *handler.AnnouncementHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/events", b.ListEvents, mws...)
	e.GET("/v1/events/:id", b.GetEvent, mws...)
	e.GET("/v1/announcements", a.List, mws...)
}

// RegisterAuth registers authentication endpoints. Unauthenticated
// operations live under /v1/auth; the protected ones under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with a refresh token in the body and needs no JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/change-password", a.ChangePassword)
	// Authenticated logout without a body revokes all sessions.
	auth.POST("/logout", a.Logout)
}
