package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plumbline-app/plumbline/internal/calendar"
)

// sessionCookieName is the cookie carrying the opaque session token.
const sessionCookieName = "plumbline_session"

// Context keys for session data. Other plugins read these through the
// exported getters below.
const (
	contextKeySession = "auth_session"
	contextKeyUserID  = "auth_user_id"
	contextKeyViewer  = "auth_viewer"
)

// RequireSession returns middleware that validates the session token and
// injects the session, user ID, and calendar viewer into the request
// context. Unauthenticated requests get a 401 JSON response.
func RequireSession(sessions SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := SessionToken(c)
			if token == "" {
				return unauthorized(c)
			}

			session, err := sessions.ValidateSession(c.Request().Context(), token)
			if err != nil {
				ClearSessionCookie(c)
				return unauthorized(c)
			}

			c.Set(contextKeySession, session)
			c.Set(contextKeyUserID, session.UserID)
			c.Set(contextKeyViewer, calendar.Viewer{ID: session.UserID, Name: session.Name})

			return next(c)
		}
	}
}

// RequireRole returns middleware that rejects sessions whose role is not in
// the allowed set. Must run after RequireSession.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := GetSession(c)
			if session == nil {
				return unauthorized(c)
			}
			for _, role := range roles {
				if session.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{
				"type":    "forbidden",
				"message": "insufficient role",
			})
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"type":    "unauthorized",
		"message": "authentication required",
	})
}

// --- Exported getters for other plugins ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated.
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUserID retrieves the authenticated user's ID, or "" when absent.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}

// GetViewer retrieves the calendar viewer identity for the session. The
// zero Viewer disables ownership matching downstream.
func GetViewer(c echo.Context) calendar.Viewer {
	viewer, ok := c.Get(contextKeyViewer).(calendar.Viewer)
	if !ok {
		return calendar.Viewer{}
	}
	return viewer
}

// --- Token plumbing ---

// SessionToken extracts the session token from the cookie or, for
// non-browser clients, from a bearer Authorization header.
func SessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// SetSessionCookie writes the session cookie with the given max age.
func SetSessionCookie(c echo.Context, token string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
