package notify

import (
	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// RegisterRoutes sets up the notification preference routes.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions auth.SessionService) {
	g := e.Group("/api/v1/notifications", auth.RequireSession(sessions))

	g.GET("/preferences", h.Get)
	g.PUT("/preferences", h.Update)
}
