package venuesource

import (
	"context"
	"fmt"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

// VenueReader is the slice of the venue repository this package needs.
type VenueReader interface {
	GetVenue(ctx context.Context, id string) (*model.Venue, error)
}

// DBFetcher loads one fixed venue from the database.
type DBFetcher struct {
	repo    VenueReader
	venueID string
}

// NewDBFetcher binds repo to venueID.
func NewDBFetcher(repo VenueReader, venueID string) *DBFetcher {
	return &DBFetcher{repo: repo, venueID: venueID}
}

func (f *DBFetcher) FetchVenue(ctx context.Context) (*model.Venue, error) {
	v, err := f.repo.GetVenue(ctx, f.venueID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return v, nil
}
