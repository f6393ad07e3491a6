package present

import (
	"fmt"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/pricing"
	"github.com/iliyamo/venue-seating-map/internal/selection"
)

// SummaryLine is one selected seat in the order summary.
type SummaryLine struct {
	SeatID   string         `json:"seat_id"`
	Location string         `json:"location"`
	Price    pricing.Amount `json:"price_cents"`
}

// Summary is the order summary panel.
type Summary struct {
	Count     int            `json:"count"`
	Capacity  int            `json:"capacity"`
	Remaining int            `json:"remaining"`
	Lines     []SummaryLine  `json:"lines"`
	Subtotal  pricing.Amount `json:"subtotal_cents"`
	Fee       pricing.Amount `json:"fee_cents"`
	Total     pricing.Amount `json:"total_cents"`
}

// NewSummary prices a selection.
func NewSummary(selected []model.SelectedSeatInfo) Summary {
	s := Summary{
		Count:     len(selected),
		Capacity:  selection.Capacity,
		Remaining: selection.Capacity - len(selected),
		Lines:     make([]SummaryLine, 0, len(selected)),
	}
	for _, info := range selected {
		price := pricing.PriceForTier(info.Seat.PriceTier)
		s.Subtotal += price
		s.Lines = append(s.Lines, SummaryLine{SeatID: info.Seat.ID, Location: Location(info), Price: price})
	}
	s.Fee = pricing.ServiceFee(s.Subtotal)
	s.Total = s.Subtotal + s.Fee
	return s
}

// Empty reports whether no seats are selected.
func (s Summary) Empty() bool { return s.Count == 0 }

// Progress is the fill percentage of the quota bar.
func (s Summary) Progress() int { return s.Count * 100 / s.Capacity }

// RemainingText is the quota hint under the progress bar.
func (s Summary) RemainingText() string {
	if s.Remaining <= 0 {
		return "Maximum seats selected"
	}
	return fmt.Sprintf("%d %s remaining", s.Remaining, plural(s.Remaining, "seat"))
}

// CheckoutLabel is the checkout button caption.
func (s Summary) CheckoutLabel() string {
	return fmt.Sprintf("Proceed to Checkout (%d %s)", s.Count, plural(s.Count, "seat"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
