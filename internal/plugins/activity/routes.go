package activity

import (
	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// RegisterRoutes sets up the activity feed routes.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions auth.SessionService) {
	e.GET("/api/v1/activity", h.List, auth.RequireSession(sessions))
}
