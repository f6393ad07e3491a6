// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/pricing"
)

// CheckoutQueue is the durable queue checkout requests are published to.
const CheckoutQueue = "checkout.requested"

// CheckoutSeat is one line of a checkout request.
type CheckoutSeat struct {
	ID         string `json:"id"`
	Section    string `json:"section"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	PriceTier  int    `json:"price_tier"`
	PriceCents int64  `json:"price_cents"`
}

// CheckoutRequestedEvent is published when a user presses checkout.  It
// carries the priced selection so downstream consumers never need to
// re-read the venue.  Nothing is reserved by publishing it.
type CheckoutRequestedEvent struct {
	SessionID     string         `json:"session_id"`
	VenueID       string         `json:"venue_id"`
	VenueName     string         `json:"venue_name"`
	Seats         []CheckoutSeat `json:"seats"`
	SubtotalCents int64          `json:"subtotal_cents"`
	FeeCents      int64          `json:"fee_cents"`
	TotalCents    int64          `json:"total_cents"`
	RequestedAt   string         `json:"requested_at"`
}

// NewCheckoutRequested prices sel and builds the event.
func NewCheckoutRequested(sessionID string, v *model.Venue, sel []model.SelectedSeatInfo, at time.Time) CheckoutRequestedEvent {
	ev := CheckoutRequestedEvent{
		SessionID:   sessionID,
		VenueID:     v.ID,
		VenueName:   v.Name,
		Seats:       make([]CheckoutSeat, 0, len(sel)),
		RequestedAt: at.UTC().Format(time.RFC3339),
	}
	var subtotal pricing.Amount
	for _, s := range sel {
		price := pricing.PriceForTier(s.Seat.PriceTier)
		subtotal += price
		ev.Seats = append(ev.Seats, CheckoutSeat{
			ID:         s.Seat.ID,
			Section:    s.Section,
			Row:        s.Row,
			Col:        s.Seat.Col,
			PriceTier:  s.Seat.PriceTier,
			PriceCents: int64(price),
		})
	}
	fee := pricing.ServiceFee(subtotal)
	ev.SubtotalCents = int64(subtotal)
	ev.FeeCents = int64(fee)
	ev.TotalCents = int64(subtotal + fee)
	return ev
}
