package model

// SelectedSeatInfo is a seat denormalized with its section label and row
// index for display.  The selection set holds at most one entry per seat id.
type SelectedSeatInfo struct {
	Seat    Seat   `json:"seat"`
	Section string `json:"section"`
	Row     int    `json:"row"`
}

// SeatID is shorthand for s.Seat.ID.
func (s SelectedSeatInfo) SeatID() string { return s.Seat.ID }
