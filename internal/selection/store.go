// Package selection owns the set of selected seats and the focused seat.
//
// The store is not safe for concurrent use.  Every mutation is expected to
// come from one logical thread of control (the session's event loop), the
// same as pointer and keyboard handlers in a browser.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/model"
)

// Capacity is the selection quota.
const Capacity = 8

// ErrMalformed marks persisted data that is not a JSON array of seat ids.
var ErrMalformed = errors.New("malformed persisted selection")

// Snapshot is an immutable view of the store.
type Snapshot struct {
	Selected []model.SelectedSeatInfo `json:"selected"`
	Focused  *model.SelectedSeatInfo  `json:"focused"`
}

// Count returns the number of selected seats.
func (s Snapshot) Count() int { return len(s.Selected) }

// Remaining returns how many more seats may be selected.
func (s Snapshot) Remaining() int { return Capacity - len(s.Selected) }

// IDs returns the selected seat ids as a set.  Renderers build it once per
// frame instead of scanning the list per seat.
func (s Snapshot) IDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Selected))
	for _, info := range s.Selected {
		out[info.Seat.ID] = struct{}{}
	}
	return out
}

// FocusedID returns the focused seat id or "".
func (s Snapshot) FocusedID() string {
	if s.Focused == nil {
		return ""
	}
	return s.Focused.Seat.ID
}

// Store holds the selection state and mirrors the id list to a Persister.
type Store struct {
	selected []model.SelectedSeatInfo
	focused  *model.SelectedSeatInfo

	persist Persister
	log     *logger.Logger

	subs    map[int]func(Snapshot)
	nextSub int
}

// New returns an empty store.  A nil persister disables persistence.
func New(p Persister, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		persist: p,
		log:     log.WithComponent("selection"),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{Selected: make([]model.SelectedSeatInfo, len(s.selected))}
	copy(snap.Selected, s.selected)
	if s.focused != nil {
		f := *s.focused
		snap.Focused = &f
	}
	return snap
}

// Subscribe registers fn to receive a snapshot after every change.  The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.subs {
		fn(snap)
	}
}

func (s *Store) indexOf(id string) int {
	for i, info := range s.selected {
		if info.Seat.ID == id {
			return i
		}
	}
	return -1
}

// IsSelected reports whether the seat id is in the selection.
func (s *Store) IsSelected(id string) bool { return s.indexOf(id) >= 0 }

// ToggleSeat adds or removes an available seat.  Seats that are not
// available are ignored entirely.  When the selection is full a new seat is
// silently rejected, but it still becomes the focused seat.  It reports
// whether the selection changed.
func (s *Store) ToggleSeat(ctx context.Context, seat model.Seat, sectionLabel string, rowIndex int) bool {
	if !seat.Available() {
		return false
	}
	info := model.SelectedSeatInfo{Seat: seat, Section: sectionLabel, Row: rowIndex}
	changed := false
	if i := s.indexOf(seat.ID); i >= 0 {
		s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
		changed = true
	} else if len(s.selected) < Capacity {
		s.selected = append(s.selected, info)
		changed = true
	}
	s.focused = &info
	s.save(ctx)
	s.notify()
	return changed
}

// FocusSeat shows a seat in the detail panel regardless of its status.
func (s *Store) FocusSeat(seat model.Seat, sectionLabel string, rowIndex int) {
	s.focused = &model.SelectedSeatInfo{Seat: seat, Section: sectionLabel, Row: rowIndex}
	s.notify()
}

// BlurSeat clears the focused seat.
func (s *Store) BlurSeat() {
	if s.focused == nil {
		return
	}
	s.focused = nil
	s.notify()
}

// RemoveSeat drops a seat from the selection if present.  Focus is left
// untouched.
func (s *Store) RemoveSeat(ctx context.Context, seatID string) bool {
	i := s.indexOf(seatID)
	if i < 0 {
		return false
	}
	s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
	s.save(ctx)
	s.notify()
	return true
}

// ClearSelection empties the selection and clears focus.
func (s *Store) ClearSelection(ctx context.Context) {
	s.selected = nil
	s.focused = nil
	s.save(ctx)
	s.notify()
}

// IDs returns the selected seat ids in selection order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.selected))
	for i, info := range s.selected {
		ids[i] = info.Seat.ID
	}
	return ids
}

// save writes the id list.  Failures are logged and swallowed; persistence
// never blocks an interaction.
func (s *Store) save(ctx context.Context) {
	if s.persist == nil {
		return
	}
	raw, err := EncodeIDs(s.IDs())
	if err != nil {
		s.log.WithError(err).Warn("encode selection failed")
		return
	}
	if err := s.persist.Save(ctx, raw); err != nil {
		s.log.WithError(err).Warn("persist selection failed")
	}
}

// Reconcile restores a persisted selection against a freshly loaded venue.
// Ids that no longer resolve are dropped; seats that still exist are kept
// whatever their current status.  Restored seats are ordered by venue order and capped at
// Capacity.  Unreadable or malformed entries are cleared.  Reconcile
// replaces the current selection; focus is cleared.
func (s *Store) Reconcile(ctx context.Context, idx *model.Index) {
	s.selected = nil
	s.focused = nil
	defer s.notify()

	if s.persist == nil || idx == nil {
		return
	}
	raw, ok, err := s.persist.Load(ctx)
	if err != nil {
		s.log.WithError(err).Warn("load persisted selection failed")
		s.clearEntry(ctx)
		return
	}
	if !ok {
		return
	}
	ids, err := DecodeIDs(raw)
	if err != nil {
		s.log.WithError(err).Warn("discarding persisted selection")
		s.clearEntry(ctx)
		return
	}

	refs := make([]model.SeatRef, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ref, ok := idx.Lookup(id)
		if !ok {
			continue
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Order < refs[j].Order })
	if len(refs) > Capacity {
		refs = refs[:Capacity]
	}
	for _, ref := range refs {
		s.selected = append(s.selected, ref.Info())
	}
	if len(s.selected) != len(ids) {
		s.log.Debug("reconciled selection",
			"persisted", len(ids), "restored", len(s.selected))
		s.save(ctx)
	}
}

func (s *Store) clearEntry(ctx context.Context) {
	if err := s.persist.Clear(ctx); err != nil {
		s.log.WithError(err).Warn("clear persisted selection failed")
	}
}

// EncodeIDs renders the persisted form of a selection.
func EncodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeIDs parses the persisted form.  Anything other than a JSON array
// of strings is malformed.
func DecodeIDs(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ids == nil {
		return nil, fmt.Errorf("%w: null", ErrMalformed)
	}
	return ids, nil
}
