// Package handler exposes the seating page and the small event endpoints
// the page script calls.  Every interaction handler resolves the caller's
// session page and runs the event under that page's lock, so events from
// one browser are applied one at a time in arrival order.
package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/middleware"
	"github.com/iliyamo/venue-seating-map/internal/present"
	"github.com/iliyamo/venue-seating-map/internal/queue"
	"github.com/iliyamo/venue-seating-map/internal/render"
	"github.com/iliyamo/venue-seating-map/internal/session"
	"github.com/iliyamo/venue-seating-map/internal/venuesource"
)

// CheckoutPublisher sends checkout requests downstream.
type CheckoutPublisher interface {
	PublishCheckoutRequested(ctx context.Context, ev queue.CheckoutRequestedEvent) error
}

// SeatingHandler aggregates what the seating endpoints need.
type SeatingHandler struct {
	Sessions  *session.Registry   // per-session page controllers
	Source    venuesource.Fetcher // raw venue document for GET /v1/venue
	Publisher CheckoutPublisher   // optional; nil disables publishing
	Log       *logger.Logger
}

// viewportJSON is the pan/zoom part of the state response.
type viewportJSON struct {
	Zoom      float64 `json:"zoom"`
	PanX      float64 `json:"pan_x"`
	PanY      float64 `json:"pan_y"`
	Panning   bool    `json:"panning"`
	Transform string  `json:"transform"`
}

// StateResponse is the JSON view of a session's page.
type StateResponse struct {
	State    present.PageState `json:"state"`
	Error    string            `json:"error,omitempty"`
	Selected []string          `json:"selected"`
	Focused  string            `json:"focused,omitempty"`
	Hovered  string            `json:"hovered,omitempty"`
	Mode     string            `json:"mode,omitempty"`
	Viewport viewportJSON      `json:"viewport"`
	Summary  *present.Summary  `json:"summary,omitempty"`
}

func (h *SeatingHandler) page(c echo.Context) *session.Page {
	return h.Sessions.Get(c.Request().Context(), middleware.SessionID(c))
}

func (h *SeatingHandler) log() *logger.Logger {
	if h.Log == nil {
		return logger.Discard()
	}
	return h.Log
}

// fail maps domain errors onto HTTP responses.
func (h *SeatingHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrNotReady):
		return c.JSON(http.StatusConflict, echo.Map{"error": "venue not ready"})
	case errors.Is(err, render.ErrUnknownSeat):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	default:
		h.log().WithError(err).Error("request failed", "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// state writes the session's current state.
func (h *SeatingHandler) state(c echo.Context, p *session.Page) error {
	snap := p.Snapshot()
	resp := StateResponse{State: snap.State, Selected: []string{}}
	if resp.State == present.StateError {
		resp.Error = session.LoadErrorMessage
	}

	for _, info := range snap.Selection.Selected {
		resp.Selected = append(resp.Selected, info.SeatID())
	}
	resp.Focused = snap.Selection.FocusedID()

	vs := snap.Viewport
	resp.Viewport = viewportJSON{
		Zoom: vs.Zoom, PanX: vs.Pan.X, PanY: vs.Pan.Y,
		Panning: vs.Panning, Transform: vs.Transform(),
	}

	if snap.State == present.StateReady {
		resp.Hovered = snap.Hovered
		resp.Mode = string(snap.Mode)
		sum := present.NewSummary(snap.Selection.Selected)
		resp.Summary = &sum
	}
	return c.JSON(http.StatusOK, resp)
}

// run applies fn to the caller's surface and answers with the new state.
func (h *SeatingHandler) run(c echo.Context, fn func(s *render.Surface) error) error {
	p := h.page(c)
	if err := p.Do(fn); err != nil {
		return h.fail(c, err)
	}
	return h.state(c, p)
}

// Page renders the full seating page: loading, error or ready.
func (h *SeatingHandler) Page(c echo.Context) error {
	view, err := h.page(c).View()
	if err != nil {
		return h.fail(c, err)
	}
	var buf bytes.Buffer
	if err := view.Render(&buf); err != nil {
		return h.fail(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// MapSVG renders just the seating map.
func (h *SeatingHandler) MapSVG(c echo.Context) error {
	frame, err := h.page(c).Frame()
	if err != nil {
		return h.fail(c, err)
	}
	var buf bytes.Buffer
	if err := frame.Render(&buf); err != nil {
		return h.fail(c, err)
	}
	return c.Blob(http.StatusOK, "image/svg+xml; charset=utf-8", buf.Bytes())
}

// Venue returns the venue document as JSON.
func (h *SeatingHandler) Venue(c echo.Context) error {
	v, err := h.Source.FetchVenue(c.Request().Context())
	if err != nil {
		h.log().WithError(err).Warn("venue fetch failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": session.LoadErrorMessage})
	}
	return c.JSON(http.StatusOK, v)
}

// State returns the caller's page state.
func (h *SeatingHandler) State(c echo.Context) error {
	return h.state(c, h.page(c))
}

// Retry restarts a failed venue load.  The load runs in the background;
// the response reflects the state right after it was started.
func (h *SeatingHandler) Retry(c echo.Context) error {
	p := h.page(c)
	p.Retry(c.Request().Context())
	return h.state(c, p)
}
