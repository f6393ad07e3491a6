package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-seating-map/internal/queue"
	"github.com/iliyamo/venue-seating-map/internal/render"
	"github.com/iliyamo/venue-seating-map/internal/viewport"
)

type keyRequest struct {
	Key string `json:"key"`
}

type wheelRequest struct {
	DeltaY   float64 `json:"delta_y"`
	Modifier bool    `json:"modifier"`
}

type pointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	SeatID string  `json:"seat_id"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// Seat events.

func (h *SeatingHandler) Click(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, func(s *render.Surface) error { return s.Click(c.Request().Context(), id) })
}

// Key handles a key press on a focused seat.  Only activation keys act.
func (h *SeatingHandler) Key(c echo.Context) error {
	var req keyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	id := c.Param("id")
	return h.run(c, func(s *render.Surface) error { return s.KeyDown(c.Request().Context(), id, req.Key) })
}

func (h *SeatingHandler) Focus(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, func(s *render.Surface) error { return s.Focus(id) })
}

func (h *SeatingHandler) Blur(c echo.Context) error {
	return h.run(c, func(s *render.Surface) error {
		s.Blur()
		return nil
	})
}

func (h *SeatingHandler) Enter(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, func(s *render.Surface) error { return s.PointerEnter(id) })
}

func (h *SeatingHandler) Leave(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, func(s *render.Surface) error {
		s.PointerLeave(id)
		return nil
	})
}

// Selection.

// Remove drops one seat from the selection.  Unknown ids are a no-op.
func (h *SeatingHandler) Remove(c echo.Context) error {
	id := c.Param("id")
	return h.run(c, func(s *render.Surface) error {
		s.Store().RemoveSeat(c.Request().Context(), id)
		return nil
	})
}

func (h *SeatingHandler) Clear(c echo.Context) error {
	return h.run(c, func(s *render.Surface) error {
		s.Store().ClearSelection(c.Request().Context())
		return nil
	})
}

// Viewport.

func (h *SeatingHandler) ZoomIn(c echo.Context) error {
	return h.run(c, func(s *render.Surface) error {
		s.Viewport().ZoomIn()
		return nil
	})
}

func (h *SeatingHandler) ZoomOut(c echo.Context) error {
	return h.run(c, func(s *render.Surface) error {
		s.Viewport().ZoomOut()
		return nil
	})
}

func (h *SeatingHandler) ResetView(c echo.Context) error {
	return h.run(c, func(s *render.Surface) error {
		s.Viewport().Reset()
		return nil
	})
}

// Wheel zooms only when a modifier key was held.
func (h *SeatingHandler) Wheel(c echo.Context) error {
	var req wheelRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(s *render.Surface) error {
		s.Viewport().Wheel(req.DeltaY, req.Modifier)
		return nil
	})
}

// PointerDown starts a pan unless the pointer is on a seat.
func (h *SeatingHandler) PointerDown(c echo.Context) error {
	var req pointerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(s *render.Surface) error {
		s.PointerDown(viewport.Point{X: req.X, Y: req.Y}, req.SeatID)
		return nil
	})
}

func (h *SeatingHandler) PointerMove(c echo.Context) error {
	var req pointerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(s *render.Surface) error {
		s.PointerMove(viewport.Point{X: req.X, Y: req.Y})
		return nil
	})
}

func (h *SeatingHandler) PointerUp(c echo.Context) error {
	return h.run(c, func(s *render.Surface) error {
		s.PointerUp()
		return nil
	})
}

// ViewMode switches between normal, heatmap and availability colouring.
func (h *SeatingHandler) ViewMode(c echo.Context) error {
	var req modeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	mode, err := render.ParseViewMode(req.Mode)
	if err != nil {
		return badRequest(c, "unknown view mode")
	}
	p := h.page(c)
	if err := p.SetMode(mode); err != nil {
		return h.fail(c, err)
	}
	return h.state(c, p)
}

// Checkout hands the current selection to the downstream pipeline.  Nothing
// is reserved; the selection is left untouched.
func (h *SeatingHandler) Checkout(c echo.Context) error {
	p := h.page(c)
	var ev queue.CheckoutRequestedEvent
	err := p.Do(func(s *render.Surface) error {
		ev = queue.NewCheckoutRequested(p.ID(), s.Map().Venue(), s.Store().Snapshot().Selected, time.Now())
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	if len(ev.Seats) == 0 {
		return badRequest(c, "no seats selected")
	}
	if h.Publisher != nil {
		if err := h.Publisher.PublishCheckoutRequested(c.Request().Context(), ev); err != nil {
			h.log().WithError(err).Warn("checkout publish failed", "session", p.ID())
		}
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"status":      "accepted",
		"seats":       len(ev.Seats),
		"total_cents": ev.TotalCents,
	})
}
