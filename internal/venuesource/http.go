package venuesource

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

// maxBody caps how much of a venue response is read.
const maxBody = 16 << 20

// HTTPFetcher GETs a venue document from a URL.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher for url using http.DefaultClient.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{URL: url, Client: http.DefaultClient}
}

// FetchVenue performs the request.  There is no timeout beyond what ctx
// carries; a transport failure, a non-2xx answer or an unparsable body all
// surface as ErrLoad.
func (f *HTTPFetcher) FetchVenue(ctx context.Context) (*model.Venue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w %d", ErrLoad, ErrBadStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrLoad, err)
	}
	return Decode(body)
}
