package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // cookie primitives
	"time"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/venue-seating-map/internal/utils"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "seat_session"

// sessionKey is the echo context key holding the session id.
const sessionKey = "session_id"

// Session returns an Echo middleware that identifies the browser session.
// A valid signed cookie yields its session id; a missing, expired or
// tampered cookie yields a brand new session.  Either way the cookie is
// re-issued with a fresh expiry so that an active user keeps their
// selection.  Handlers read the id via SessionID(c).
func Session(secret string, ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var (
				tok utils.SessionToken
				err error
			)
			// Reuse the id from a valid cookie, otherwise mint one.
			if ck, cerr := c.Cookie(SessionCookie); cerr == nil {
				if id, perr := utils.ParseSession(secret, ck.Value); perr == nil {
					tok, err = utils.SignSession(secret, id, ttl)
				} else {
					tok, err = utils.NewSessionToken(secret, ttl)
				}
			} else {
				tok, err = utils.NewSessionToken(secret, ttl)
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(sessionKey, tok.ID)
			return next(c)
		}
	}
}
