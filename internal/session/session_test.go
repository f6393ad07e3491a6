package session

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/present"
	"github.com/iliyamo/venue-seating-map/internal/render"
	"github.com/iliyamo/venue-seating-map/internal/selection"
	"github.com/iliyamo/venue-seating-map/internal/storage"
	"github.com/iliyamo/venue-seating-map/internal/venuesource"
	"github.com/iliyamo/venue-seating-map/internal/viewport"
)

func testVenue() *model.Venue {
	return &model.Venue{
		ID:   "v1",
		Name: "Main Hall",
		Map:  model.MapDimensions{Width: 400, Height: 300},
		Sections: []model.Section{{
			ID: "s1", Label: "Orchestra", Transform: model.Transform{Scale: 1},
			Rows: []model.Row{{Index: 1, Seats: []model.Seat{
				{ID: "a", Col: 1, X: 10, Y: 10, PriceTier: 1, Status: model.StatusAvailable},
				{ID: "b", Col: 2, X: 40, Y: 10, PriceTier: 2, Status: model.StatusAvailable},
				{ID: "c", Col: 3, X: 70, Y: 10, PriceTier: 3, Status: model.StatusSold},
			}}},
		}},
	}
}

// flakyFetcher fails the first n calls.
type flakyFetcher struct {
	mu    sync.Mutex
	fails int
	calls int
}

func (f *flakyFetcher) FetchVenue(context.Context) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return nil, venuesource.ErrLoad
	}
	return testVenue(), nil
}

func wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not settle")
	}
}

func TestPageLoadsAndReconciles(t *testing.T) {
	ctx := context.Background()
	entry := storage.NewMemoryEntry()
	require.NoError(t, entry.Save(ctx, `["b","c","gone","a"]`))

	p := NewPage("s1", &flakyFetcher{}, entry, nil)
	assert.Equal(t, present.StateLoading, p.State())
	assert.ErrorIs(t, p.Do(func(*render.Surface) error { return nil }), ErrNotReady)

	wait(t, p.Load(ctx))
	require.Equal(t, present.StateReady, p.State())

	snap := p.Selection()
	require.Equal(t, 3, snap.Count())
	assert.Equal(t, "a", snap.Selected[0].SeatID())
	assert.Equal(t, "b", snap.Selected[1].SeatID())
	assert.Equal(t, "c", snap.Selected[2].SeatID())

	raw, _, _ := entry.Load(ctx)
	assert.Equal(t, `["a","b","c"]`, raw)
}

func TestPageLoadFailureAndRetry(t *testing.T) {
	ctx := context.Background()
	f := &flakyFetcher{fails: 1}
	p := NewPage("s1", f, nil, nil)

	wait(t, p.Load(ctx))
	assert.Equal(t, present.StateError, p.State())
	assert.ErrorIs(t, p.Err(), venuesource.ErrLoad)

	view, err := p.View()
	require.NoError(t, err)
	assert.Equal(t, present.StateError, view.State)
	assert.Equal(t, LoadErrorMessage, view.Error)

	wait(t, p.Retry(ctx))
	assert.Equal(t, present.StateReady, p.State())
	assert.NoError(t, p.Err())

	// Retry once ready does not refetch.
	wait(t, p.Retry(ctx))
	assert.Equal(t, 2, f.calls)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	block := make(chan struct{})
	calls := 0
	f := venuesource.FetcherFunc(func(context.Context) (*model.Venue, error) {
		calls++
		<-block
		return testVenue(), nil
	})
	p := NewPage("s1", f, nil, nil)
	first := p.Load(context.Background())
	second := p.Load(context.Background())
	close(block)
	wait(t, first)
	wait(t, second)
	assert.Equal(t, 1, calls)
}

func TestLoadSurvivesCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := venuesource.FetcherFunc(func(ctx context.Context) (*model.Venue, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return testVenue(), nil
	})
	p := NewPage("s1", f, nil, nil)
	cancel()
	wait(t, p.Load(ctx))
	assert.Equal(t, present.StateReady, p.State())
}

func TestPageEventsAndView(t *testing.T) {
	ctx := context.Background()
	p := NewPage("s1", &flakyFetcher{}, storage.NewMemoryEntry(), nil)
	wait(t, p.Load(ctx))

	require.NoError(t, p.Do(func(s *render.Surface) error { return s.Click(ctx, "a") }))
	require.NoError(t, p.Do(func(s *render.Surface) error { return s.Click(ctx, "c") }))
	require.NoError(t, p.SetMode(render.ModeHeatmap))
	require.NoError(t, p.Do(func(s *render.Surface) error {
		s.Viewport().ZoomIn()
		return nil
	}))

	view, err := p.View()
	require.NoError(t, err)
	assert.Equal(t, present.StateReady, view.State)
	assert.Equal(t, "Main Hall", view.Header.Name)
	assert.Equal(t, 1, view.Summary.Count)
	assert.Equal(t, "a", view.Details.SeatID)
	assert.Equal(t, "heatmap", view.Mode)
	assert.Contains(t, string(view.Map), `data-seat="a"`)
	assert.InDelta(t, viewport.DefaultZoom*viewport.ZoomStep, p.Viewport().Zoom, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, view.Render(&buf))
	assert.Contains(t, buf.String(), "Main Hall")
}

func TestSnapshotReadsPageAtOnce(t *testing.T) {
	ctx := context.Background()
	p := NewPage("s1", &flakyFetcher{}, storage.NewMemoryEntry(), nil)

	snap := p.Snapshot()
	assert.Equal(t, present.StateLoading, snap.State)
	assert.Zero(t, snap.Selection.Count())
	assert.Empty(t, snap.Hovered)

	wait(t, p.Load(ctx))
	require.NoError(t, p.Do(func(s *render.Surface) error {
		if err := s.Click(ctx, "b"); err != nil {
			return err
		}
		s.SetMode(render.ModeHeatmap)
		s.Viewport().ZoomIn()
		return s.PointerEnter("a")
	}))

	snap = p.Snapshot()
	assert.Equal(t, present.StateReady, snap.State)
	assert.Equal(t, []string{"b"}, idsOf(snap.Selection))
	assert.Equal(t, "b", snap.Selection.FocusedID())
	assert.Equal(t, "a", snap.Hovered)
	assert.Equal(t, render.ModeHeatmap, snap.Mode)
	assert.InDelta(t, viewport.DefaultZoom*viewport.ZoomStep, snap.Viewport.Zoom, 1e-9)
}

func TestSnapshotDuringConcurrentEvents(t *testing.T) {
	ctx := context.Background()
	p := NewPage("s1", &flakyFetcher{}, storage.NewMemoryEntry(), nil)
	wait(t, p.Load(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = p.Do(func(s *render.Surface) error { return s.Click(ctx, "a") })
			}
		}()
	}
	for i := 0; i < 100; i++ {
		snap := p.Snapshot()
		require.Equal(t, present.StateReady, snap.State)
		if snap.Selection.Count() == 1 {
			assert.Equal(t, "a", snap.Selection.FocusedID())
		}
	}
	wg.Wait()
	assert.Empty(t, idsOf(p.Selection()))
}

func TestSelectionSurvivesRetry(t *testing.T) {
	ctx := context.Background()
	entry := storage.NewMemoryEntry()
	f := &flakyFetcher{}
	p := NewPage("s1", f, entry, nil)
	wait(t, p.Load(ctx))
	require.NoError(t, p.Do(func(s *render.Surface) error { return s.Click(ctx, "b") }))

	// A fresh page over the same entry restores the selection.
	q := NewPage("s1", f, entry, nil)
	wait(t, q.Load(ctx))
	assert.Equal(t, []string{"b"}, idsOf(q.Selection()))
}

func idsOf(s selection.Snapshot) []string {
	out := make([]string, 0, len(s.Selected))
	for _, info := range s.Selected {
		out = append(out, info.SeatID())
	}
	return out
}

func TestRegistryCreatesOncePerSession(t *testing.T) {
	made := 0
	r := NewRegistry(&flakyFetcher{}, func(string) selection.Persister {
		made++
		return storage.NewMemoryEntry()
	}, time.Minute, nil)

	a := r.Get(context.Background(), "one")
	b := r.Get(context.Background(), "one")
	c := r.Get(context.Background(), "two")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, made)
	assert.Equal(t, 2, r.Len())
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(&flakyFetcher{}, nil, time.Minute, nil)
	r.Get(context.Background(), "old")

	assert.Equal(t, 0, r.Sweep(time.Now()))
	assert.Equal(t, 1, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())

	forever := NewRegistry(&flakyFetcher{}, nil, 0, nil)
	forever.Get(context.Background(), "x")
	assert.Equal(t, 0, forever.Sweep(time.Now().Add(time.Hour)))
}
