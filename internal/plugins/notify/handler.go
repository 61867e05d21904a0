package notify

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// Handler handles notification preference HTTP requests.
type Handler struct {
	service PreferenceService
}

// NewHandler creates a new notify handler.
func NewHandler(service PreferenceService) *Handler {
	return &Handler{service: service}
}

// Get handles GET /api/v1/notifications/preferences for the session user.
func (h *Handler) Get(c echo.Context) error {
	prefs, err := h.service.Get(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// Update handles PUT /api/v1/notifications/preferences.
func (h *Handler) Update(c echo.Context) error {
	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	prefs, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}
