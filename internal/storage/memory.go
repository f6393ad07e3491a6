package storage

import (
	"context"
	"sync"
)

// MemoryEntry keeps the entry in process memory.  It backs deployments
// without Redis and tests.
type MemoryEntry struct {
	mu      sync.Mutex
	value   string
	present bool
}

// NewMemoryEntry returns an empty entry.
func NewMemoryEntry() *MemoryEntry { return &MemoryEntry{} }

// Load returns the value if one was saved.
func (e *MemoryEntry) Load(context.Context) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.present, nil
}

// Save stores value.
func (e *MemoryEntry) Save(_ context.Context, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value, e.present = value, true
	return nil
}

// Clear forgets the value.
func (e *MemoryEntry) Clear(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value, e.present = "", false
	return nil
}
