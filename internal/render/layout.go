// Package render lays out a venue on the map canvas and draws it as SVG.
// Seat positions come from the venue document; the renderer only applies
// section placements, it never derives positions from row or column
// numbers.
package render

import (
	"errors"
	"fmt"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/seatstyle"
	"github.com/iliyamo/venue-seating-map/internal/viewport"
)

// ErrUnknownSeat is returned for events that name a seat the venue does
// not contain.
var ErrUnknownSeat = errors.New("unknown seat")

// Map is the read-only layout of a loaded venue.
type Map struct {
	venue *model.Venue
	index *model.Index
}

// NewMap indexes a venue for rendering and hit testing.
func NewMap(v *model.Venue) (*Map, error) {
	idx, err := model.NewIndex(v)
	if err != nil {
		return nil, fmt.Errorf("layout venue: %w", err)
	}
	return &Map{venue: v, index: idx}, nil
}

// Venue returns the venue being rendered.
func (m *Map) Venue() *model.Venue { return m.venue }

// Index returns the seat index.
func (m *Map) Index() *model.Index { return m.index }

// Seat resolves a seat id.
func (m *Map) Seat(id string) (model.SeatRef, error) {
	ref, ok := m.index.Lookup(id)
	if !ok {
		return model.SeatRef{}, fmt.Errorf("%w: %q", ErrUnknownSeat, id)
	}
	return ref, nil
}

// CanvasPosition returns a seat's center on the canvas.
func (m *Map) CanvasPosition(ref model.SeatRef) viewport.Point {
	x, y := m.venue.Sections[ref.Section].Transform.Apply(ref.Seat.X, ref.Seat.Y)
	return viewport.Point{X: x, Y: y}
}

// HitTest returns the seat under a canvas point.  Seats are circles of
// seatstyle.SeatRadius in section space, so the test runs in each
// section's local coordinates.  Later sections are drawn on top and win.
func (m *Map) HitTest(p viewport.Point) (model.SeatRef, bool) {
	const r2 = seatstyle.SeatRadius * seatstyle.SeatRadius
	for si := len(m.venue.Sections) - 1; si >= 0; si-- {
		sec := m.venue.Sections[si]
		lx, ly := sec.Transform.Invert(p.X, p.Y)
		for ri := len(sec.Rows) - 1; ri >= 0; ri-- {
			seats := sec.Rows[ri].Seats
			for i := len(seats) - 1; i >= 0; i-- {
				dx, dy := lx-seats[i].X, ly-seats[i].Y
				if dx*dx+dy*dy <= r2 {
					ref, _ := m.index.Lookup(seats[i].ID)
					return ref, true
				}
			}
		}
	}
	return model.SeatRef{}, false
}
