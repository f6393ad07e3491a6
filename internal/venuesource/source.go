// Package venuesource provides the ways a venue document can be obtained:
// over HTTP, from MySQL, and through a Redis read-through cache in front of
// either.
package venuesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

var (
	// ErrLoad wraps every failure to produce a usable venue.
	ErrLoad = errors.New("venue load failed")
	// ErrBadStatus is returned when the venue endpoint answers with a
	// non-2xx status.  It is always wrapped together with ErrLoad.
	ErrBadStatus = errors.New("unexpected status")
)

// Fetcher loads a venue.  Implementations return an error wrapping ErrLoad
// on any failure and never a partially built venue.
type Fetcher interface {
	FetchVenue(ctx context.Context) (*model.Venue, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (*model.Venue, error)

// FetchVenue calls f.
func (f FetcherFunc) FetchVenue(ctx context.Context) (*model.Venue, error) { return f(ctx) }

// Decode parses a venue document and checks seat ids are unique.
func Decode(data []byte) (*model.Venue, error) {
	var v model.Venue
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLoad, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return &v, nil
}
