package venuesource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-seating-map/internal/logger"
	"github.com/iliyamo/venue-seating-map/internal/model"
	"github.com/iliyamo/venue-seating-map/internal/repository"
)

const venueJSON = `{
  "id": "v1",
  "name": "Main Hall",
  "map": {"width": 800, "height": 600},
  "sections": [{
    "id": "s1", "label": "Orchestra",
    "transform": {"x": 0, "y": 0, "scale": 1},
    "rows": [{"index": 1, "seats": [
      {"id": "a", "col": 1, "x": 10, "y": 10, "priceTier": 1, "status": "available"},
      {"id": "b", "col": 2, "x": 30, "y": 10, "priceTier": 2, "status": "sold"}
    ]}]
  }]
}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherDecodesVenue(t *testing.T) {
	srv := serve(t, http.StatusOK, venueJSON)
	v, err := NewHTTPFetcher(srv.URL).FetchVenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", v.Name)
	assert.Equal(t, 2, v.SeatCount())
	assert.Equal(t, model.StatusSold, v.Sections[0].Rows[0].Seats[1].Status)
}

func TestHTTPFetcherFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		bad    bool
	}{
		{"server error", http.StatusInternalServerError, venueJSON, true},
		{"not found", http.StatusNotFound, "", true},
		{"garbage", http.StatusOK, "<html>", false},
		{"duplicate ids", http.StatusOK, `{"sections":[{"rows":[{"seats":[{"id":"a"},{"id":"a"}]}]}]}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.status, tc.body)
			v, err := NewHTTPFetcher(srv.URL).FetchVenue(context.Background())
			assert.Nil(t, v)
			assert.ErrorIs(t, err, ErrLoad)
			assert.Equal(t, tc.bad, errors.Is(err, ErrBadStatus))
		})
	}
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := serve(t, http.StatusOK, venueJSON)
	url := srv.URL
	srv.Close()
	_, err := NewHTTPFetcher(url).FetchVenue(context.Background())
	assert.ErrorIs(t, err, ErrLoad)
}

type fakeRepo struct {
	v   *model.Venue
	err error
}

func (f fakeRepo) GetVenue(context.Context, string) (*model.Venue, error) { return f.v, f.err }

func TestDBFetcher(t *testing.T) {
	v, err := Decode([]byte(venueJSON))
	require.NoError(t, err)

	got, err := NewDBFetcher(fakeRepo{v: v}, "v1").FetchVenue(context.Background())
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = NewDBFetcher(fakeRepo{err: repository.ErrVenueNotFound}, "v1").FetchVenue(context.Background())
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, repository.ErrVenueNotFound)
}

func TestCachedReadsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	calls := 0
	inner := FetcherFunc(func(context.Context) (*model.Venue, error) {
		calls++
		return Decode([]byte(venueJSON))
	})
	f := NewCached(inner, rdb, "venue:v1", time.Minute, logger.Discard())

	for i := 0; i < 3; i++ {
		v, err := f.FetchVenue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "v1", v.ID)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("venue:v1"))
	assert.Equal(t, time.Minute, mr.TTL("venue:v1"))
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	inner := FetcherFunc(func(context.Context) (*model.Venue, error) { return nil, ErrLoad })
	_, err := NewCached(inner, rdb, "venue:v1", time.Minute, nil).FetchVenue(context.Background())
	assert.ErrorIs(t, err, ErrLoad)
	assert.False(t, mr.Exists("venue:v1"))
}

func TestCachedReplacesCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	require.NoError(t, mr.Set("venue:v1", "not json"))

	inner := FetcherFunc(func(context.Context) (*model.Venue, error) { return Decode([]byte(venueJSON)) })
	v, err := NewCached(inner, rdb, "venue:v1", time.Minute, nil).FetchVenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", v.ID)

	raw, err := mr.Get("venue:v1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"Main Hall"`)
}

func TestNewCachedWithoutRedis(t *testing.T) {
	inner := NewHTTPFetcher("http://unused")
	assert.Same(t, Fetcher(inner), NewCached(inner, nil, "k", 0, nil))
}
