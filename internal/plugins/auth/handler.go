package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler handles authentication HTTP requests.
type Handler struct {
	service       AuthService
	sessionTTL    time.Duration
	secureCookies bool
}

// NewHandler creates a new auth handler. secureCookies should be true in
// production so session cookies only travel over HTTPS.
func NewHandler(service AuthService, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		service:       service,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(c echo.Context) error {
	var input RegisterInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// loginResponse wraps the authenticated user. The token travels in the
// cookie; it is echoed in the body for non-browser clients.
type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		return err
	}

	SetSessionCookie(c, token, int(h.sessionTTL.Seconds()), h.secureCookies)
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(c echo.Context) error {
	if token := SessionToken(c); token != "" {
		if err := h.service.DestroySession(c.Request().Context(), token); err != nil {
			return err
		}
	}
	ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me, returning the authenticated user.
func (h *Handler) Me(c echo.Context) error {
	session := GetSession(c)
	if session == nil {
		return unauthorized(c)
	}

	user, err := h.service.GetUser(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users for assignee pickers.
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []User{}
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}
