package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/venue-seating-map/internal/handler" // handlers implementing each endpoint
)

// RegisterRoutes registers routes that do not need a session.  Currently
// it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Middlewares bundles what RegisterSeating wraps around the seating
// endpoints.  Any of them may be a pass-through.
type Middlewares struct {
	Session   echo.MiddlewareFunc // identifies the browser session; required
	RateLimit echo.MiddlewareFunc // applied to every event endpoint
	Cache     echo.MiddlewareFunc // applied to GET /v1/venue
}

// RegisterSeating registers the page and every event endpoint the page
// script calls.  All of them run under the session middleware; events are
// additionally rate limited per session.
func RegisterSeating(e *echo.Echo, h *handler.SeatingHandler, mw Middlewares) {
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if mw.RateLimit == nil {
		mw.RateLimit = pass
	}
	if mw.Cache == nil {
		mw.Cache = pass
	}

	// The venue document is the same for everyone, so it is cached and
	// needs no session.
	e.GET("/v1/venue", h.Venue, mw.Cache)

	s := e.Group("", mw.Session)
	s.GET("/", h.Page)
	s.GET("/map.svg", h.MapSVG)
	s.GET("/v1/state", h.State)
	s.POST("/v1/retry", h.Retry)

	ev := s.Group("/v1", mw.RateLimit)

	// Seat interaction.  :id is the seat id.
	ev.POST("/seats/:id/click", h.Click)
	ev.POST("/seats/:id/key", h.Key)
	ev.POST("/seats/:id/focus", h.Focus)
	ev.POST("/seats/:id/blur", h.Blur)
	ev.POST("/seats/:id/enter", h.Enter)
	ev.POST("/seats/:id/leave", h.Leave)

	ev.DELETE("/selection/:id", h.Remove)
	ev.DELETE("/selection", h.Clear)

	// Pan and zoom.
	ev.POST("/viewport/zoom-in", h.ZoomIn)
	ev.POST("/viewport/zoom-out", h.ZoomOut)
	ev.POST("/viewport/reset", h.ResetView)
	ev.POST("/viewport/wheel", h.Wheel)
	ev.POST("/viewport/pointer-down", h.PointerDown)
	ev.POST("/viewport/pointer-move", h.PointerMove)
	ev.POST("/viewport/pointer-up", h.PointerUp)

	ev.POST("/view-mode", h.ViewMode)
	ev.POST("/checkout", h.Checkout)
}
