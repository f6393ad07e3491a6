package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-seating-map/internal/model"
)

func sampleEvent() CheckoutRequestedEvent {
	v := &model.Venue{ID: "v1", Name: "Main Hall"}
	sel := []model.SelectedSeatInfo{
		{Seat: model.Seat{ID: "A-1-1", Col: 1, PriceTier: 1}, Section: "Orchestra", Row: 1},
		{Seat: model.Seat{ID: "A-1-2", Col: 2, PriceTier: 4}, Section: "Orchestra", Row: 1},
	}
	return NewCheckoutRequested("sess", v, sel, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestNewCheckoutRequestedPrices(t *testing.T) {
	ev := sampleEvent()
	require.Len(t, ev.Seats, 2)
	assert.Equal(t, int64(5000), ev.Seats[0].PriceCents)
	assert.Equal(t, int64(20000), ev.SubtotalCents)
	assert.Equal(t, int64(1000), ev.FeeCents)
	assert.Equal(t, int64(21000), ev.TotalCents)
	assert.Equal(t, "2026-01-02T03:04:05Z", ev.RequestedAt)
}

func TestHandleMessageAppendsLine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	require.NoError(t, HandleMessage(dir, body))
	require.NoError(t, HandleMessage(dir, body))

	data, err := os.ReadFile(filepath.Join(dir, "checkout.log"))
	require.NoError(t, err)
	want := `[2026-01-02T03:04:05Z] Checkout requested | session=sess | venue="Main Hall" | seats=[A-1-1,A-1-2] | subtotal=$200.00 | fee=$10.00 | total=$210.00` + "\n"
	assert.Equal(t, want+want, string(data))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	assert.Error(t, HandleMessage(t.TempDir(), []byte("{")))
}
