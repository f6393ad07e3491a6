// Package seatstyle maps seat state to colors.  Precedence, highest first:
// focus (stroke only), selection, hover on an available seat, then the
// status default.
package seatstyle

import "github.com/iliyamo/venue-seating-map/internal/model"

// Status fills.
const (
	Available = "#10b981"
	Reserved  = "#dc2626"
	Sold      = "#6b7280"
	Held      = "#f59e0b"
)

// Interactive state colors.
const (
	Hover         = "#059669"
	Selected      = "#0891b2"
	HoverStroke   = "#3b82f6"
	FocusOutline  = "#3b82f6"
	DefaultStroke = "#d1d5db"
)

// Geometry shared by the renderer.
const (
	SeatRadius         = 8.0
	StrokeWidth        = 1.0
	FocusedStrokeWidth = 3.0
	DisabledOpacity    = 0.6
)

var statusFill = map[model.SeatStatus]string{
	model.StatusAvailable: Available,
	model.StatusReserved:  Reserved,
	model.StatusSold:      Sold,
	model.StatusHeld:      Held,
}

var tierFill = map[int]string{
	1: "#10b981",
	2: "#3b82f6",
	3: "#f59e0b",
	4: "#ef4444",
}

// StatusColor returns the default fill for a status.  Unknown statuses
// render like sold seats.
func StatusColor(status model.SeatStatus) string {
	if c, ok := statusFill[status]; ok {
		return c
	}
	return Sold
}

// TierColor returns the heatmap color of a price tier.
func TierColor(tier int) string {
	if c, ok := tierFill[tier]; ok {
		return c
	}
	return Sold
}

// ResolveFill picks the fill color of a seat.  hovered must already be
// false for disabled seats; callers suppress hover at the input boundary.
func ResolveFill(status model.SeatStatus, selected, hovered bool) string {
	switch {
	case selected:
		return Selected
	case hovered && status == model.StatusAvailable:
		return Hover
	default:
		return StatusColor(status)
	}
}

// ResolveStroke picks the outline color of a seat.
func ResolveStroke(selected, hovered, focused bool) string {
	switch {
	case focused:
		return FocusOutline
	case selected:
		return Selected
	case hovered:
		return HoverStroke
	default:
		return DefaultStroke
	}
}

// LegendEntry is one row of the status legend.
type LegendEntry struct {
	Status model.SeatStatus
	Label  string
	Color  string
}

// Legend returns the legend in display order.
func Legend() []LegendEntry {
	return []LegendEntry{
		{model.StatusAvailable, "Available", Available},
		{model.StatusReserved, "Reserved", Reserved},
		{model.StatusSold, "Sold", Sold},
		{model.StatusHeld, "Held", Held},
	}
}
