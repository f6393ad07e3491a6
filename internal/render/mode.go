package render

import (
	"fmt"
	"strings"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/seatstyle"
)

// ViewMode selects how seat fills are derived.
type ViewMode string

const (
	ModeNormal       ViewMode = "normal"
	ModeHeatmap      ViewMode = "heatmap"
	ModeAvailability ViewMode = "availability"
)

// ParseViewMode accepts a mode name case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNormal, ModeHeatmap, ModeAvailability:
		return m, nil
	case "":
		return ModeNormal, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

// fill applies the seatstyle precedence with a mode-specific base color.
func (m ViewMode) fill(seat model.Seat, selected, hovered bool) string {
	switch m {
	case ModeHeatmap:
		if selected || hovered || !seat.Available() {
			return seatstyle.ResolveFill(seat.Status, selected, hovered)
		}
		return seatstyle.TierColor(seat.PriceTier)
	case ModeAvailability:
		if selected || (hovered && seat.Available()) {
			return seatstyle.ResolveFill(seat.Status, selected, hovered)
		}
		if seat.Available() {
			return seatstyle.Available
		}
		return seatstyle.Sold
	default:
		return seatstyle.ResolveFill(seat.Status, selected, hovered)
	}
}
