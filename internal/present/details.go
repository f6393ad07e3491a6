package present

import (
	"fmt"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/pricing"
	"github.com/iliyamo/venue-seating-map/internal/seatstyle"
)

var statusLabels = map[model.SeatStatus]string{
	model.StatusAvailable: "Available",
	model.StatusReserved:  "Reserved",
	model.StatusSold:      "Sold",
	model.StatusHeld:      "On Hold",
}

// StatusLabel returns the display label of a status.
func StatusLabel(s model.SeatStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Details is the seat detail panel for the focused seat.
type Details struct {
	Empty       bool           `json:"empty"`
	SeatID      string         `json:"seat_id,omitempty"`
	Location    string         `json:"location,omitempty"`
	Status      string         `json:"status,omitempty"`
	StatusColor string         `json:"status_color,omitempty"`
	Price       pricing.Amount `json:"price_cents"`
	Selectable  bool           `json:"selectable"`
}

// NewDetails describes the focused seat, or the empty prompt when nothing
// is focused.
func NewDetails(focused *model.SelectedSeatInfo) Details {
	if focused == nil {
		return Details{Empty: true}
	}
	return Details{
		SeatID:      focused.Seat.ID,
		Location:    Location(*focused),
		Status:      StatusLabel(focused.Seat.Status),
		StatusColor: seatstyle.StatusColor(focused.Seat.Status),
		Price:       pricing.PriceForTier(focused.Seat.PriceTier),
		Selectable:  focused.Seat.Available(),
	}
}

// Location formats "Section • Row n • Seat c".
func Location(info model.SelectedSeatInfo) string {
	return fmt.Sprintf("%s • Row %d • Seat %d", info.Section, info.Row, info.Seat.Col)
}
