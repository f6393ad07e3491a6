// Package present derives the display models of the page panels.  Nothing
// here holds state; every value is computed from the venue, the selection
// snapshot and the pricing table.
package present

import (
	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/seatstyle"
)

// LegendItem is one status swatch with its seat count.
type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Header is the venue header panel.
type Header struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	TotalSeats int          `json:"total_seats"`
	Sections   int          `json:"sections"`
	Legend     []LegendItem `json:"legend"`
}

// NewHeader computes venue stats and the status legend.
func NewHeader(v *model.Venue) Header {
	counts := v.StatusCounts()
	h := Header{
		ID:         v.ID,
		Name:       v.Name,
		TotalSeats: v.SeatCount(),
		Sections:   len(v.Sections),
	}
	for _, e := range seatstyle.Legend() {
		h.Legend = append(h.Legend, LegendItem{Label: e.Label, Color: e.Color, Count: counts[e.Status]})
	}
	return h
}
