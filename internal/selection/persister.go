package selection

import "context"

// DefaultKey is the well-known key under which the selected seat ids are
// persisted.
const DefaultKey = "seatSelections"

// Persister is the durable key-value entry holding the JSON array of
// selected seat ids.  Implementations are scoped to a single entry; the
// store never sees keys.
type Persister interface {
	// Load returns the stored value and whether an entry exists.
	Load(ctx context.Context) (string, bool, error)
	// Save replaces the stored value.
	Save(ctx context.Context, value string) error
	// Clear removes the entry.
	Clear(ctx context.Context) error
}
