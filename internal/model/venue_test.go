package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVenue = `{
  "id": "arena-1",
  "name": "Metro Arena",
  "map": {"width": 1024, "height": 768},
  "sections": [
    {"id": "A", "label": "Lower Bowl A", "transform": {"x": 0, "y": 0, "scale": 1},
     "rows": [
       {"index": 1, "seats": [
         {"id": "A-1-01", "col": 1, "x": 50, "y": 40, "priceTier": 1, "status": "available"},
         {"id": "A-1-02", "col": 2, "x": 80, "y": 40, "priceTier": 1, "status": "sold"}
       ]},
       {"index": 4, "seats": [
         {"id": "A-4-01", "col": 1, "x": 50, "y": 70, "priceTier": 3, "status": "held"}
       ]}
     ]},
    {"id": "B", "label": "Balcony", "transform": {"x": 300, "y": 100, "scale": 2},
     "rows": [
       {"index": 1, "seats": [
         {"id": "B-1-01", "col": 1, "x": 10, "y": 10, "priceTier": 4, "status": "reserved"}
       ]}
     ]}
  ]
}`

func decodeSample(t *testing.T) *Venue {
	t.Helper()
	var v Venue
	require.NoError(t, json.Unmarshal([]byte(sampleVenue), &v))
	return &v
}

func TestVenueDecodesDocumentFieldNames(t *testing.T) {
	v := decodeSample(t)

	assert.Equal(t, "arena-1", v.ID)
	assert.Equal(t, 1024.0, v.Map.Width)
	require.Len(t, v.Sections, 2)
	assert.Equal(t, 2.0, v.Sections[1].Transform.Scale)
	assert.Equal(t, 4, v.Sections[0].Rows[1].Index)
	assert.Equal(t, StatusHeld, v.Sections[0].Rows[1].Seats[0].Status)
	assert.Equal(t, 3, v.Sections[0].Rows[1].Seats[0].PriceTier)
}

func TestVenueCounts(t *testing.T) {
	v := decodeSample(t)

	assert.Equal(t, 4, v.SeatCount())
	counts := v.StatusCounts()
	assert.Equal(t, 1, counts[StatusAvailable])
	assert.Equal(t, 1, counts[StatusSold])
	assert.Equal(t, 1, counts[StatusHeld])
	assert.Equal(t, 1, counts[StatusReserved])
}

func TestIndexResolvesSeatsInVenueOrder(t *testing.T) {
	idx, err := NewIndex(decodeSample(t))
	require.NoError(t, err)
	require.Equal(t, 4, idx.Len())

	ref, ok := idx.Lookup("A-4-01")
	require.True(t, ok)
	assert.Equal(t, "Lower Bowl A", ref.SectionLabel)
	assert.Equal(t, 4, ref.RowIndex)
	assert.Equal(t, 2, ref.Order)

	b, ok := idx.Lookup("B-1-01")
	require.True(t, ok)
	assert.Equal(t, 1, b.Section)
	assert.Equal(t, SelectedSeatInfo{Seat: b.Seat, Section: "Balcony", Row: 1}, b.Info())

	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
}

func TestIndexRejectsDuplicateIDs(t *testing.T) {
	v := decodeSample(t)
	v.Sections[1].Rows[0].Seats[0].ID = "A-1-01"

	_, err := NewIndex(v)
	require.ErrorIs(t, err, ErrDuplicateSeat)
	assert.ErrorIs(t, v.Validate(), ErrDuplicateSeat)
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{X: 300, Y: 100, Scale: 2}
	x, y := tr.Apply(10, 10)
	assert.Equal(t, 320.0, x)
	assert.Equal(t, 120.0, y)

	lx, ly := tr.Invert(x, y)
	assert.Equal(t, 10.0, lx)
	assert.Equal(t, 10.0, ly)

	zero := Transform{X: 5}
	x, _ = zero.Apply(10, 0)
	assert.Equal(t, 15.0, x)
}
