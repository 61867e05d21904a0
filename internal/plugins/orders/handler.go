package orders

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/plugins/auth"
)

// Handler handles order HTTP requests.
type Handler struct {
	service OrderService
}

// NewHandler creates a new order handler.
func NewHandler(service OrderService) *Handler {
	return &Handler{service: service}
}

// listResponse is the paginated envelope for order listings.
type listResponse struct {
	Orders  []Order `json:"orders"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

// List handles GET /api/v1/orders.
func (h *Handler) List(c echo.Context) error {
	opts := ListOptions{
		Page:    1,
		PerPage: 25,
		Status:  Status(c.QueryParam("status")),
	}
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = p
	}
	if pp, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		opts.PerPage = pp
	}

	orders, total, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []Order{}
	}

	return c.JSON(http.StatusOK, listResponse{
		Orders:  orders,
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	})
}

// Get handles GET /api/v1/orders/:id.
func (h *Handler) Get(c echo.Context) error {
	order, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Create handles POST /api/v1/orders.
func (h *Handler) Create(c echo.Context) error {
	var input CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Update handles PUT /api/v1/orders/:id.
func (h *Handler) Update(c echo.Context) error {
	var input UpdateOrderInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// statusRequest is the body for a status transition.
type statusRequest struct {
	Status Status `json:"status"`
}

// ChangeStatus handles POST /api/v1/orders/:id/status.
func (h *Handler) ChangeStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.service.ChangeStatus(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/v1/orders/:id.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
