package seatstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

func TestResolveFillPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		status   model.SeatStatus
		selected bool
		hovered  bool
		want     string
	}{
		{"selected beats hover", model.StatusAvailable, true, true, Selected},
		{"hover on available", model.StatusAvailable, false, true, Hover},
		{"hover ignored on sold", model.StatusSold, false, true, Sold},
		{"plain available", model.StatusAvailable, false, false, Available},
		{"reserved", model.StatusReserved, false, false, Reserved},
		{"held", model.StatusHeld, false, false, Held},
		{"unknown status", model.SeatStatus("bogus"), false, false, Sold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFill(tt.status, tt.selected, tt.hovered))
		})
	}
}

func TestResolveStrokePrecedence(t *testing.T) {
	assert.Equal(t, FocusOutline, ResolveStroke(true, true, true))
	assert.Equal(t, Selected, ResolveStroke(true, true, false))
	assert.Equal(t, HoverStroke, ResolveStroke(false, true, false))
	assert.Equal(t, DefaultStroke, ResolveStroke(false, false, false))
}

func TestTierColor(t *testing.T) {
	assert.Equal(t, "#ef4444", TierColor(4))
	assert.Equal(t, Sold, TierColor(9))
}

func TestLegendCoversEveryStatus(t *testing.T) {
	legend := Legend()
	assert.Len(t, legend, len(model.Statuses))
	for i, s := range model.Statuses {
		assert.Equal(t, s, legend[i].Status)
		assert.Equal(t, StatusColor(s), legend[i].Color)
	}
}
