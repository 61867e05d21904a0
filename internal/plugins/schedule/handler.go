package schedule

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/calendar"
	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// Handler handles schedule HTTP requests.
type Handler struct {
	service ScheduleService
	now     func() time.Time
}

// NewHandler creates a new schedule handler.
func NewHandler(service ScheduleService) *Handler {
	return &Handler{service: service, now: time.Now}
}

// parseQuery reads the window parameters from the request.
//
//	anchor=2026-09-09   day the window is built around (default today)
//	weeks=1|2|4         window size (default 2)
//	view=weeks|month    month forces the 6-week grid
//	cats=a,b            explicit category toggles (absent = defaults)
//	mine=true           only the viewer's events
func (h *Handler) parseQuery(c echo.Context) WindowQuery {
	q := WindowQuery{Anchor: h.now()}

	if raw := c.QueryParam("anchor"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			q.Anchor = t
		}
	}
	if weeks, err := strconv.Atoi(c.QueryParam("weeks")); err == nil {
		q.Weeks = weeks
	}
	if c.QueryParam("view") == "month" {
		q.Mode = calendar.ModeMonth
	}
	if raw := c.QueryParam("cats"); raw != "" {
		q.Categories = []calendar.Category{}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.Categories = append(q.Categories, calendar.ParseCategory(part))
			}
		}
	}
	if mine, err := strconv.ParseBool(c.QueryParam("mine")); err == nil {
		q.MineOnly = mine
	}

	return q
}

// Window handles GET /api/v1/schedule.
func (h *Handler) Window(c echo.Context) error {
	view := h.service.Window(c.Request().Context(), h.parseQuery(c), auth.GetViewer(c))
	return c.JSON(http.StatusOK, view)
}

// ExportICS handles GET /api/v1/schedule/export.ics.
func (h *Handler) ExportICS(c echo.Context) error {
	events, _, _ := h.service.WindowEvents(c.Request().Context(), h.parseQuery(c), auth.GetViewer(c))

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="schedule.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(RenderICS(events, h.now().UTC())))
}
