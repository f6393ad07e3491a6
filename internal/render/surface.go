package render

import (
	"context"
	"io"

	"github.com/iliyamo/venue-seating-map/internal/selection"
	"github.com/iliyamo/venue-seating-map/internal/viewport"
)

// Surface wires seat and canvas events to the selection store and the
// viewport controller.  The two controllers never see each other; the
// surface is the only place both are touched.  Hover lives here because it
// is pointer-transient and must not leak into persisted state.
type Surface struct {
	m     *Map
	store *selection.Store
	view  *viewport.Controller

	hovered string
	mode    ViewMode
}

// NewSurface returns a surface in normal view mode.
func NewSurface(m *Map, store *selection.Store, view *viewport.Controller) *Surface {
	return &Surface{m: m, store: store, view: view, mode: ModeNormal}
}

// Map returns the layout.
func (s *Surface) Map() *Map { return s.m }

// Store returns the selection store.
func (s *Surface) Store() *selection.Store { return s.store }

// Viewport returns the viewport controller.
func (s *Surface) Viewport() *viewport.Controller { return s.view }

// Hovered returns the hovered seat id or "".
func (s *Surface) Hovered() string { return s.hovered }

// Mode returns the current view mode.
func (s *Surface) Mode() ViewMode { return s.mode }

// SetMode switches the fill scheme.
func (s *Surface) SetMode(m ViewMode) { s.mode = m }

// Click toggles a seat.  Clicks on disabled seats do nothing.
func (s *Surface) Click(ctx context.Context, seatID string) error {
	ref, err := s.m.Seat(seatID)
	if err != nil {
		return err
	}
	if !ref.Seat.Available() {
		return nil
	}
	s.store.ToggleSeat(ctx, ref.Seat, ref.SectionLabel, ref.RowIndex)
	return nil
}

// KeyDown treats Enter and Space on an enabled seat as a click.
func (s *Surface) KeyDown(ctx context.Context, seatID, key string) error {
	if !activationKey(key) {
		return nil
	}
	return s.Click(ctx, seatID)
}

func activationKey(key string) bool {
	switch key {
	case "Enter", " ", "Space", "Spacebar":
		return true
	}
	return false
}

// PointerEnter sets the hover target.  Disabled seats are ignored here so
// they can never render a hover state.
func (s *Surface) PointerEnter(seatID string) error {
	ref, err := s.m.Seat(seatID)
	if err != nil {
		return err
	}
	if ref.Seat.Available() {
		s.hovered = seatID
	}
	return nil
}

// PointerLeave clears the hover target if it is seatID.
func (s *Surface) PointerLeave(seatID string) {
	if s.hovered == seatID {
		s.hovered = ""
	}
}

// Focus shows any seat, enabled or not, in the detail panel.
func (s *Surface) Focus(seatID string) error {
	ref, err := s.m.Seat(seatID)
	if err != nil {
		return err
	}
	s.store.FocusSeat(ref.Seat, ref.SectionLabel, ref.RowIndex)
	return nil
}

// Blur clears the focused seat.
func (s *Surface) Blur() { s.store.BlurSeat() }

// PointerDown starts a pan unless the pointer is over a seat.  target is
// the seat id the client reported as the event target, if any; when empty
// the point is hit tested against the layout.
func (s *Surface) PointerDown(p viewport.Point, target string) bool {
	onSeat := false
	if target != "" {
		_, ok := s.m.Index().Lookup(target)
		onSeat = ok
	}
	if !onSeat {
		_, onSeat = s.m.HitTest(s.view.State().ToMap(p))
	}
	return s.view.BeginPan(p, onSeat)
}

// PointerMove forwards a document-level pointer move.
func (s *Surface) PointerMove(p viewport.Point) { s.view.Bus().Move(p) }

// PointerUp forwards a document-level pointer release.
func (s *Surface) PointerUp() { s.view.Bus().Up() }

// Frame derives the current drawing.
func (s *Surface) Frame() Frame {
	return s.m.Frame(Input{
		Selection: s.store.Snapshot(),
		Viewport:  s.view.State(),
		Hovered:   s.hovered,
		Mode:      s.mode,
	})
}

// Render writes the current drawing as SVG.
func (s *Surface) Render(w io.Writer) error { return s.Frame().Render(w) }
