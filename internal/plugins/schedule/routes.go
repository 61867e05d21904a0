package schedule

import (
	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// RegisterRoutes sets up the schedule routes.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions auth.SessionService) {
	g := e.Group("/api/v1/schedule", auth.RequireSession(sessions))

	g.GET("", h.Window)
	g.GET("/export.ics", h.ExportICS)
}
