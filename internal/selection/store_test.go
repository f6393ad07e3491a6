package selection

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

type fakePersister struct {
	value   string
	present bool
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func (f *fakePersister) Load(context.Context) (string, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	return f.value, f.present, nil
}

func (f *fakePersister) Save(_ context.Context, v string) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.value, f.present = v, true
	return nil
}

func (f *fakePersister) Clear(context.Context) error {
	f.clears++
	f.value, f.present = "", false
	return nil
}

func seat(id string, status model.SeatStatus) model.Seat {
	return model.Seat{ID: id, Col: 1, PriceTier: 1, Status: status}
}

func testVenue() *model.Venue {
	row := func(index int, ids ...string) model.Row {
		r := model.Row{Index: index}
		for i, id := range ids {
			r.Seats = append(r.Seats, model.Seat{ID: id, Col: i + 1, PriceTier: 2, Status: model.StatusAvailable})
		}
		return r
	}
	v := &model.Venue{ID: "v", Name: "Venue", Sections: []model.Section{
		{ID: "s1", Label: "Orchestra", Rows: []model.Row{row(1, "a", "b"), row(3, "c")}},
		{ID: "s2", Label: "Balcony", Rows: []model.Row{row(1, "d", "sold")}},
	}}
	v.Sections[1].Rows[0].Seats[1].Status = model.StatusSold
	return v
}

func mustIndex(t *testing.T) *model.Index {
	t.Helper()
	idx, err := model.NewIndex(testVenue())
	require.NoError(t, err)
	return idx
}

func TestToggleAddsAndRemoves(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s := New(p, nil)

	require.True(t, s.ToggleSeat(ctx, seat("a", model.StatusAvailable), "Orchestra", 1))
	snap := s.Snapshot()
	require.Equal(t, 1, snap.Count())
	assert.Equal(t, "Orchestra", snap.Selected[0].Section)
	assert.Equal(t, "a", snap.FocusedID())
	assert.Equal(t, `["a"]`, p.value)

	require.True(t, s.ToggleSeat(ctx, seat("a", model.StatusAvailable), "Orchestra", 1))
	assert.Equal(t, 0, s.Snapshot().Count())
	assert.Equal(t, "a", s.Snapshot().FocusedID())
	assert.Equal(t, `[]`, p.value)
}

func TestToggleIgnoresUnavailableSeats(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s := New(p, nil)
	s.ToggleSeat(ctx, seat("a", model.StatusAvailable), "X", 1)
	before := s.Snapshot()

	for _, st := range []model.SeatStatus{model.StatusSold, model.StatusReserved, model.StatusHeld} {
		assert.False(t, s.ToggleSeat(ctx, seat("z", st), "X", 1))
	}
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, p.saves)
}

func TestToggleRespectsCapacityButStillFocuses(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)
	for i := 0; i < Capacity; i++ {
		require.True(t, s.ToggleSeat(ctx, seat(fmt.Sprintf("s%d", i), model.StatusAvailable), "X", 1))
	}
	assert.False(t, s.ToggleSeat(ctx, seat("extra", model.StatusAvailable), "X", 2))
	snap := s.Snapshot()
	assert.Equal(t, Capacity, snap.Count())
	assert.Equal(t, 0, snap.Remaining())
	assert.Equal(t, "extra", snap.FocusedID())
}

func TestSelectionNeverExceedsCapacity(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)
	r := rand.New(rand.NewSource(7))
	statuses := []model.SeatStatus{model.StatusAvailable, model.StatusAvailable, model.StatusSold, model.StatusHeld}
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("seat-%d", r.Intn(20))
		s.ToggleSeat(ctx, seat(id, statuses[r.Intn(len(statuses))]), "X", 1)
		require.LessOrEqual(t, s.Snapshot().Count(), Capacity)
	}
}

func TestTogglePairRestoresState(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)
	s.ToggleSeat(ctx, seat("a", model.StatusAvailable), "X", 1)
	s.ToggleSeat(ctx, seat("b", model.StatusAvailable), "X", 1)
	before := s.Snapshot().Selected

	s.ToggleSeat(ctx, seat("c", model.StatusAvailable), "X", 1)
	s.ToggleSeat(ctx, seat("c", model.StatusAvailable), "X", 1)
	assert.Equal(t, before, s.Snapshot().Selected)
}

func TestRemoveThenToggleAppendsAtEnd(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)
	for _, id := range []string{"a", "b", "c"} {
		s.ToggleSeat(ctx, seat(id, model.StatusAvailable), "X", 1)
	}
	s.FocusSeat(seat("b", model.StatusAvailable), "X", 1)

	require.True(t, s.RemoveSeat(ctx, "a"))
	assert.Equal(t, "b", s.Snapshot().FocusedID(), "remove keeps focus")
	assert.False(t, s.RemoveSeat(ctx, "a"))

	s.ToggleSeat(ctx, seat("a", model.StatusAvailable), "X", 1)
	assert.Equal(t, []string{"b", "c", "a"}, s.IDs())
}

func TestFocusIsIndependentOfSelection(t *testing.T) {
	s := New(nil, nil)
	s.FocusSeat(seat("sold", model.StatusSold), "Balcony", 1)
	snap := s.Snapshot()
	assert.Equal(t, "sold", snap.FocusedID())
	assert.Zero(t, snap.Count())

	s.BlurSeat()
	assert.Nil(t, s.Snapshot().Focused)
}

func TestClearSelectionClearsFocus(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s := New(p, nil)
	s.ToggleSeat(ctx, seat("a", model.StatusAvailable), "X", 1)

	s.ClearSelection(ctx)
	snap := s.Snapshot()
	assert.Zero(t, snap.Count())
	assert.Nil(t, snap.Focused)
	assert.Equal(t, `[]`, p.value)
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	p := &fakePersister{saveErr: errors.New("quota exceeded")}
	s := New(p, nil)
	assert.True(t, s.ToggleSeat(context.Background(), seat("a", model.StatusAvailable), "X", 1))
	assert.Equal(t, 1, s.Snapshot().Count())
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := New(nil, nil)
	s.ToggleSeat(context.Background(), seat("a", model.StatusAvailable), "X", 1)
	snap := s.Snapshot()
	snap.Selected[0].Section = "mutated"
	snap.Focused.Row = 99
	assert.Equal(t, "X", s.Snapshot().Selected[0].Section)
	assert.Equal(t, 1, s.Snapshot().Focused.Row)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s := New(nil, nil)
	var got []int
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap.Count()) })

	s.ToggleSeat(context.Background(), seat("a", model.StatusAvailable), "X", 1)
	s.BlurSeat()
	unsubscribe()
	s.ClearSelection(context.Background())

	assert.Equal(t, []int{1, 1}, got)
}

func TestReconcileDropsUnknownIDsAndUsesVenueOrder(t *testing.T) {
	p := &fakePersister{value: `["d","a","x"]`, present: true}
	s := New(p, nil)

	s.Reconcile(context.Background(), mustIndex(t))

	snap := s.Snapshot()
	require.Equal(t, 2, snap.Count())
	assert.Equal(t, "a", snap.Selected[0].Seat.ID)
	assert.Equal(t, "Orchestra", snap.Selected[0].Section)
	assert.Equal(t, 1, snap.Selected[0].Row)
	assert.Equal(t, "d", snap.Selected[1].Seat.ID)
	assert.Equal(t, "Balcony", snap.Selected[1].Section)
	assert.Equal(t, `["a","d"]`, p.value)
	assert.Zero(t, p.clears)
}

func TestReconcileKeepsSeatsThatChangedStatus(t *testing.T) {
	p := &fakePersister{value: `["sold","c"]`, present: true}
	s := New(p, nil)

	s.Reconcile(context.Background(), mustIndex(t))

	assert.Equal(t, []string{"c", "sold"}, s.IDs())
	snap := s.Snapshot()
	require.Equal(t, 2, snap.Count())
	assert.Equal(t, model.StatusSold, snap.Selected[1].Seat.Status)
	assert.Equal(t, "Balcony", snap.Selected[1].Section)
	assert.Equal(t, `["sold","c"]`, p.value)
	assert.Zero(t, p.saves)
}

func TestReconcileMalformedClearsEntry(t *testing.T) {
	for _, raw := range []string{`not json`, `{"a":1}`, `"a"`, `[1,2]`, `null`} {
		t.Run(raw, func(t *testing.T) {
			p := &fakePersister{value: raw, present: true}
			s := New(p, nil)
			s.Reconcile(context.Background(), mustIndex(t))
			assert.Zero(t, s.Snapshot().Count())
			assert.False(t, p.present)
			assert.Equal(t, 1, p.clears)
		})
	}
}

func TestReconcileLoadErrorClearsEntry(t *testing.T) {
	p := &fakePersister{loadErr: errors.New("storage disabled")}
	s := New(p, nil)
	s.Reconcile(context.Background(), mustIndex(t))
	assert.Zero(t, s.Snapshot().Count())
	assert.Equal(t, 1, p.clears)
}

func TestReconcileWithoutEntryIsEmpty(t *testing.T) {
	p := &fakePersister{}
	s := New(p, nil)
	s.Reconcile(context.Background(), mustIndex(t))
	assert.Zero(t, s.Snapshot().Count())
	assert.Zero(t, p.saves)
}

func TestDecodeIDs(t *testing.T) {
	ids, err := DecodeIDs(`["a","b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = DecodeIDs(`[`)
	assert.ErrorIs(t, err, ErrMalformed)

	raw, err := EncodeIDs(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
}
