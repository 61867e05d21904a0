package clients

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler handles client directory HTTP requests.
type Handler struct {
	service ClientService
}

// NewHandler creates a new client handler.
func NewHandler(service ClientService) *Handler {
	return &Handler{service: service}
}

// listResponse is the paginated envelope for client listings.
type listResponse struct {
	Clients []Client `json:"clients"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

// List handles GET /api/v1/clients. Supports a q parameter for name and
// company search, used by order form autocompletes.
func (h *Handler) List(c echo.Context) error {
	opts := ListOptions{
		Page:    1,
		PerPage: 25,
		Query:   c.QueryParam("q"),
	}
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = p
	}
	if pp, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		opts.PerPage = pp
	}

	clients, total, err := h.service.List(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []Client{}
	}

	return c.JSON(http.StatusOK, listResponse{
		Clients: clients,
		Total:   total,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	})
}

// Get handles GET /api/v1/clients/:id.
func (h *Handler) Get(c echo.Context) error {
	client, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Create handles POST /api/v1/clients.
func (h *Handler) Create(c echo.Context) error {
	var input ClientInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	client, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Update handles PUT /api/v1/clients/:id.
func (h *Handler) Update(c echo.Context) error {
	var input ClientInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	client, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /api/v1/clients/:id.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
