package middleware

// identity.go holds the accessor for the session id stored by Session.
// Rate limiting and handlers both key their work on it.

import "github.com/labstack/echo/v4"

// SessionID returns the id set by the Session middleware, or "anon" when
// the middleware did not run.
func SessionID(c echo.Context) string {
	if v, ok := c.Get(sessionKey).(string); ok && v != "" {
		return v
	}
	return "anon"
}
