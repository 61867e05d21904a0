package activity

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler handles activity feed HTTP requests.
type Handler struct {
	service ActivityService
}

// NewHandler creates a new activity handler.
func NewHandler(service ActivityService) *Handler {
	return &Handler{service: service}
}

// listResponse is the paginated envelope for feed listings.
type listResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

// List handles GET /api/v1/activity. An order query parameter scopes the
// feed to one order's history.
func (h *Handler) List(c echo.Context) error {
	opts := ListOptions{Page: 1, PerPage: 50}
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = p
	}
	if pp, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		opts.PerPage = pp
	}
	if orderID := c.QueryParam("order"); orderID != "" {
		opts.ObjectType = "order"
		opts.ObjectID = orderID
	}

	entries, total, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}

	return c.JSON(http.StatusOK, listResponse{
		Entries: entries,
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	})
}
