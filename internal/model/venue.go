package model

import (
	"errors"
	"fmt"
)

// SeatStatus is the inventory state of a seat as reported by the venue
// data source.  The client never writes it back; selection is tracked
// separately by the selection store.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusReserved  SeatStatus = "reserved"
	StatusSold      SeatStatus = "sold"
	StatusHeld      SeatStatus = "held"
)

// Statuses lists every known status in legend order.
var Statuses = []SeatStatus{StatusAvailable, StatusReserved, StatusSold, StatusHeld}

// ErrDuplicateSeat is returned by NewIndex when two seats share an id.
var ErrDuplicateSeat = errors.New("duplicate seat id")

// Seat is the atomic reservable unit.  X and Y are map coordinates local to
// the owning section; the section transform places them on the canvas.
//
// Fields:
//
//	ID       : globally unique seat identifier.
//	Col      : column index within the row (display only).
//	X, Y     : pre-computed position in section space.
//	PriceTier: price bucket, 1..4 for well-formed data.
//	Status   : available, reserved, sold or held.
type Seat struct {
	ID        string     `json:"id"`
	Col       int        `json:"col"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	PriceTier int        `json:"priceTier"`
	Status    SeatStatus `json:"status"`
}

// Available reports whether the seat may be selected.
func (s Seat) Available() bool { return s.Status == StatusAvailable }

// Row is an ordered, left-to-right run of seats.  Index is a label and may
// be non-contiguous across rows.
type Row struct {
	Index int    `json:"index"`
	Seats []Seat `json:"seats"`
}

// Transform is the uniform affine placement of a section on the canvas.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Apply maps a section-local point onto the canvas.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.X + x*t.effectiveScale(), t.Y + y*t.effectiveScale()
}

// Invert maps a canvas point back into section-local coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	s := t.effectiveScale()
	return (x - t.X) / s, (y - t.Y) / s
}

// a zero scale in malformed data would collapse the section; treat it as 1
func (t Transform) effectiveScale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// Section groups rows under a single placement.
type Section struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Transform Transform `json:"transform"`
	Rows      []Row     `json:"rows"`
}

// MapDimensions is the canvas size of the rendered map.
type MapDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Venue is the root of the venue document.  It is loaded once and treated
// as read-only afterwards.
type Venue struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Map      MapDimensions `json:"map"`
	Sections []Section     `json:"sections"`
}

// SeatCount returns the number of seats across all sections.
func (v *Venue) SeatCount() int {
	n := 0
	for _, sec := range v.Sections {
		for _, row := range sec.Rows {
			n += len(row.Seats)
		}
	}
	return n
}

// StatusCounts tallies seats per status.  Unknown statuses are counted
// under their own key so nothing is silently lost.
func (v *Venue) StatusCounts() map[SeatStatus]int {
	out := make(map[SeatStatus]int, len(Statuses))
	for _, sec := range v.Sections {
		for _, row := range sec.Rows {
			for _, seat := range row.Seats {
				out[seat.Status]++
			}
		}
	}
	return out
}

// Validate checks the global seat id uniqueness invariant.
func (v *Venue) Validate() error {
	_, err := NewIndex(v)
	return err
}

// SeatRef locates a seat inside the venue.  Order is the seat's position in
// a depth-first walk of sections, rows and seats, i.e. venue order.
type SeatRef struct {
	Seat         Seat
	SectionLabel string
	RowIndex     int
	Section      int
	Order        int
}

// Info converts the reference into the denormalized display tuple.
func (r SeatRef) Info() SelectedSeatInfo {
	return SelectedSeatInfo{Seat: r.Seat, Section: r.SectionLabel, Row: r.RowIndex}
}

// Index resolves seat ids against a loaded venue.
type Index struct {
	refs map[string]SeatRef
}

// NewIndex builds a seat index and enforces that seat ids are unique
// across the whole venue.
func NewIndex(v *Venue) (*Index, error) {
	idx := &Index{refs: make(map[string]SeatRef, v.SeatCount())}
	order := 0
	for si, sec := range v.Sections {
		for _, row := range sec.Rows {
			for _, seat := range row.Seats {
				if _, dup := idx.refs[seat.ID]; dup {
					return nil, fmt.Errorf("%w: %q", ErrDuplicateSeat, seat.ID)
				}
				idx.refs[seat.ID] = SeatRef{
					Seat:         seat,
					SectionLabel: sec.Label,
					RowIndex:     row.Index,
					Section:      si,
					Order:        order,
				}
				order++
			}
		}
	}
	return idx, nil
}

// Lookup returns the reference for a seat id.
func (i *Index) Lookup(id string) (SeatRef, bool) {
	ref, ok := i.refs[id]
	return ref, ok
}

// Len returns the number of indexed seats.
func (i *Index) Len() int { return len(i.refs) }
