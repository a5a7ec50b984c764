package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/tickerlab/roobot/exchange"
)

const sampleTicks = `time,pair,price
2026-08-31T10:00:00Z,XLM/USD,0.40
2026-08-31T10:00:10Z,XLM/USD,0.41

2026-08-31T10:00:20Z,BTC/USD,65000
2026-08-31T10:00:30Z,XLM/USD,0.39
`

func writeTicks(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestFeedReadsAllRows(t *testing.T) {
	t.Parallel()

	feed, err := NewCSVTicksFeed(writeTicks(t, "ticks.csv", sampleTicks), time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	var prices []float64
	for {
		tk, ok, err := feed.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		prices = append(prices, tk.Price)
	}
	assert.Equal(t, []float64{0.40, 0.41, 65000, 0.39}, prices)
}

func TestFeedTimeRange(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 8, 31, 10, 0, 10, 0, time.UTC)
	to := time.Date(2026, 8, 31, 10, 0, 30, 0, time.UTC) // exclusive

	feed, err := NewCSVTicksFeed(writeTicks(t, "ticks.csv", sampleTicks), from, to)
	require.NoError(t, err)
	defer feed.Close()

	var prices []float64
	for {
		tk, ok, err := feed.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		prices = append(prices, tk.Price)
	}
	assert.Equal(t, []float64{0.41, 65000}, prices)
}

func TestFeedXZ(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ticks.csv.xz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	xw, err := xz.NewWriter(fh)
	require.NoError(t, err)
	_, err = xw.Write([]byte(sampleTicks))
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	require.NoError(t, fh.Close())

	feed, err := NewCSVTicksFeed(path, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	tk, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.40, tk.Price)
	assert.Equal(t, "XLM/USD", tk.Instrument)
}

func TestFeedBadPrice(t *testing.T) {
	t.Parallel()

	feed, err := NewCSVTicksFeed(writeTicks(t, "bad.csv", "2026-08-31T10:00:00Z,XLM/USD,not-a-number\n"), time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	_, _, err = feed.Next()
	assert.Error(t, err)
}

func TestGatewaySkipsOtherPairs(t *testing.T) {
	t.Parallel()

	feed, err := NewCSVTicksFeed(writeTicks(t, "ticks.csv", sampleTicks), time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	g := NewGateway(feed)
	ctx := context.Background()

	var prices []float64
	for {
		tk, err := g.FetchTicker(ctx, "XLM/USD")
		if err != nil {
			assert.ErrorIs(t, err, ErrFeedExhausted)
			break
		}
		prices = append(prices, tk.Price)
	}
	// the BTC/USD row is skipped, not served
	assert.Equal(t, []float64{0.40, 0.41, 0.39}, prices)
}

func TestGatewayConfirmsOrders(t *testing.T) {
	t.Parallel()

	g := NewGateway(nil)
	ack, err := g.PlaceOrder(context.Background(), exchange.OrderRequest{
		Pair:     "XLM/USD",
		Side:     exchange.Buy,
		Type:     exchange.Market,
		Quantity: 1000,
	})
	require.NoError(t, err)
	assert.True(t, ack.Confirmed)
	assert.Equal(t, "SIM-1", ack.OrderID)

	_, err = g.PlaceOrder(context.Background(), exchange.OrderRequest{Pair: "", Side: exchange.Buy, Type: exchange.Market, Quantity: 1})
	assert.Error(t, err)
}
