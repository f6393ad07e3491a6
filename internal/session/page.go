// Package session owns the per-browser page controller: the venue load
// lifecycle, the selection store and the viewport, and the lock that turns
// concurrent HTTP requests into one ordered stream of UI events.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/present"
	"github.com/iliyamo/venue-seating-map/internal/render"
	"github.com/iliyamo/venue-seating-map/internal/selection"
	"github.com/iliyamo/venue-seating-map/internal/venuesource"
	"github.com/iliyamo/venue-seating-map/internal/viewport"
)

// ErrNotReady is returned for interaction while the venue is loading or
// failed to load.
var ErrNotReady = errors.New("venue not ready")

// LoadErrorMessage is what the error view shows.  Details go to the log.
const LoadErrorMessage = "Failed to load venue data"

// Page is one user's seating page.
type Page struct {
	id      string
	fetcher venuesource.Fetcher
	log     *logger.Logger

	mu       sync.Mutex
	state    present.PageState
	loadErr  error
	inflight chan struct{}
	store    *selection.Store
	view     *viewport.Controller
	surface  *render.Surface
	mode     render.ViewMode
	lastSeen time.Time
}

// NewPage builds a page in the loading state.  Nothing is fetched until
// Load is called.
func NewPage(id string, f venuesource.Fetcher, p selection.Persister, log *logger.Logger) *Page {
	if log == nil {
		log = logger.Discard()
	}
	log = log.WithSession(id)
	return &Page{
		id:       id,
		fetcher:  f,
		log:      log,
		state:    present.StateLoading,
		store:    selection.New(p, log),
		view:     viewport.New(viewport.NewPointerBus()),
		mode:     render.ModeNormal,
		lastSeen: time.Now(),
	}
}

// ID returns the session id.
func (p *Page) ID() string { return p.id }

// State returns the load state.
func (p *Page) State() present.PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the last load error, if the page is in the error state.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// Load starts fetching the venue unless the page is already ready or a fetch
// is in flight.  The returned channel closes once that fetch settles.  The
// fetch outlives ctx's cancellation so a dropped request does not strand the
// page in the loading state.
func (p *Page) Load(ctx context.Context) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inflight != nil {
		return p.inflight
	}
	done := make(chan struct{})
	if p.state == present.StateReady {
		close(done)
		return done
	}
	p.state = present.StateLoading
	p.loadErr = nil
	p.inflight = done

	ctx = context.WithoutCancel(ctx)
	go func() {
		v, err := p.fetcher.FetchVenue(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err == nil {
			err = p.ready(ctx, v)
		}
		if err != nil {
			p.state = present.StateError
			p.loadErr = err
			p.surface = nil
			p.log.WithError(err).Error("venue load failed")
		}
		p.inflight = nil
		close(done)
	}()
	return done
}

// Retry reloads after a failure.  It is a no-op in any other state.
func (p *Page) Retry(ctx context.Context) <-chan struct{} {
	p.mu.Lock()
	failed := p.state == present.StateError
	p.mu.Unlock()
	if !failed {
		done := make(chan struct{})
		close(done)
		return done
	}
	return p.Load(ctx)
}

// ready installs a freshly loaded venue.  Called with mu held.
func (p *Page) ready(ctx context.Context, v *model.Venue) error {
	m, err := render.NewMap(v)
	if err != nil {
		return err
	}
	p.store.Reconcile(ctx, m.Index())
	p.surface = render.NewSurface(m, p.store, p.view)
	p.surface.SetMode(p.mode)
	p.state = present.StateReady
	p.log.Info("venue ready", "venue", v.ID, "seats", v.SeatCount(),
		"restored", p.store.Snapshot().Count())
	return nil
}

// Do runs fn against the surface while holding the page lock.  Every UI
// event goes through here, so events for one page never interleave.
func (p *Page) Do(fn func(s *render.Surface) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = time.Now()
	if p.state != present.StateReady || p.surface == nil {
		return ErrNotReady
	}
	return fn(p.surface)
}

// SetMode switches the colouring mode.  It is remembered across reloads.
func (p *Page) SetMode(m render.ViewMode) error {
	return p.Do(func(s *render.Surface) error {
		p.mode = m
		s.SetMode(m)
		return nil
	})
}

// Selection returns the current selection snapshot.  It is available in
// every state; before the first load it is empty.
func (p *Page) Selection() selection.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Snapshot()
}

// Viewport returns the current pan/zoom state.
func (p *Page) Viewport() viewport.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view.State()
}

// Snapshot is a consistent read of a page taken under one lock.
type Snapshot struct {
	State     present.PageState
	Selection selection.Snapshot
	Viewport  viewport.State
	Hovered   string
	Mode      render.ViewMode
}

// Snapshot reads the load state, selection, viewport and surface state at
// once, so no event can land between the parts.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := Snapshot{
		State:     p.state,
		Selection: p.store.Snapshot(),
		Viewport:  p.view.State(),
		Mode:      p.mode,
	}
	if p.state == present.StateReady && p.surface != nil {
		snap.Hovered = p.surface.Hovered()
		snap.Mode = p.surface.Mode()
	}
	return snap
}

// View assembles the full-page view model.
func (p *Page) View() (present.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case present.StateLoading:
		return present.Page{State: present.StateLoading}, nil
	case present.StateError:
		return present.Page{State: present.StateError, Error: LoadErrorMessage}, nil
	}

	mapHTML, err := p.surface.Frame().HTML()
	if err != nil {
		return present.Page{}, err
	}
	snap := p.store.Snapshot()
	return present.Page{
		State:   present.StateReady,
		Header:  present.NewHeader(p.surface.Map().Venue()),
		Map:     mapHTML,
		Mode:    string(p.mode),
		Details: present.NewDetails(snap.Focused),
		Summary: present.NewSummary(snap.Selected),
	}, nil
}

// Frame returns the seating map frame.
func (p *Page) Frame() (render.Frame, error) {
	var f render.Frame
	err := p.Do(func(s *render.Surface) error {
		f = s.Frame()
		return nil
	})
	return f, err
}

// Touch marks the page as used now.
func (p *Page) Touch() {
	p.mu.Lock()
	p.lastSeen = time.Now()
	p.mu.Unlock()
}

// LastSeen returns the last time the page handled a request.
func (p *Page) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}
