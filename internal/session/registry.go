package session

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/selection"
	"github.com/iliyamo/venue-seating-map/internal/venuesource"
)

// PersisterFactory returns the selection entry for a session.
type PersisterFactory func(sessionID string) selection.Persister

// Registry maps session ids to pages and evicts idle ones.
type Registry struct {
	fetcher venuesource.Fetcher
	persist PersisterFactory
	ttl     time.Duration
	log     *logger.Logger

	mu    sync.Mutex
	pages map[string]*Page
}

// NewRegistry builds an empty registry.  Pages idle longer than ttl are
// dropped by Sweep; a non-positive ttl disables eviction.
func NewRegistry(f venuesource.Fetcher, persist PersisterFactory, ttl time.Duration, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Discard()
	}
	return &Registry{
		fetcher: f,
		persist: persist,
		ttl:     ttl,
		log:     log.WithComponent("sessions"),
		pages:   make(map[string]*Page),
	}
}

// Get returns the page for id, creating it and starting its venue load on
// first use.
func (r *Registry) Get(ctx context.Context, id string) *Page {
	r.mu.Lock()
	p, ok := r.pages[id]
	if !ok {
		var persist selection.Persister
		if r.persist != nil {
			persist = r.persist(id)
		}
		p = NewPage(id, r.fetcher, persist, r.log)
		r.pages[id] = p
	}
	r.mu.Unlock()

	if !ok {
		r.log.Debug("session opened", "session", id)
		p.Load(ctx)
	} else {
		p.Touch()
	}
	return p
}

// Len returns the number of live pages.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep drops pages not seen since now-ttl and returns how many went.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, p := range r.pages {
		if p.LastSeen().Before(cutoff) {
			delete(r.pages, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("evicted idle sessions", "count", n, "live", len(r.pages))
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = r.ttl / 2
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.Sweep(now)
		}
	}
}
