package orders

import (
	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// RegisterRoutes sets up all order routes. Every route requires a valid
// session.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions auth.SessionService) {
	g := e.Group("/api/v1/orders", auth.RequireSession(sessions))

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/status", h.ChangeStatus)
	g.DELETE("/:id", h.Delete)
}
