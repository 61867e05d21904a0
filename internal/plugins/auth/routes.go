package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/middleware"
)

// RegisterRoutes sets up authentication and user routes. Login and register
// are rate-limited per IP to slow down credential stuffing.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions SessionService) {
	g := e.Group("/api/v1/auth")

	g.POST("/register", h.Register, middleware.RateLimit(10, time.Minute))
	g.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me, RequireSession(sessions))

	e.GET("/api/v1/users", h.ListUsers, RequireSession(sessions))
}
