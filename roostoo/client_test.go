package roostoo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerlab/roobot/exchange"
)

func newTestClient(url string) *Client {
	c := NewClient(url, "test-key", "test-secret")
	c.retryWait = time.Millisecond
	return c
}

func TestFetchTicker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/ticker", r.URL.Path)
		assert.Equal(t, "XLM/USD", r.URL.Query().Get("pair"))
		assert.NotEmpty(t, r.URL.Query().Get("timestamp"))

		w.Write([]byte(`{"Success":true,"ServerTime":1756641600000,"Data":{"XLM/USD":{"LastPrice":0.4321}}}`))
	}))
	defer srv.Close()

	tk, err := newTestClient(srv.URL).FetchTicker(context.Background(), "XLM/USD")
	require.NoError(t, err)
	assert.Equal(t, "XLM/USD", tk.Pair)
	assert.Equal(t, 0.4321, tk.Price)
	assert.Equal(t, time.UnixMilli(1756641600000), tk.Time)
}

func TestFetchTickerRateLimitedRetry(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"Success":true,"Data":{"XLM/USD":{"LastPrice":0.5}}}`))
	}))
	defer srv.Close()

	tk, err := newTestClient(srv.URL).FetchTicker(context.Background(), "XLM/USD")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0.5, tk.Price)
}

func TestFetchTickerRateLimitedTwice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	// only one retry: a second 429 surfaces as an error
	_, err := newTestClient(srv.URL).FetchTicker(context.Background(), "XLM/USD")
	assert.Error(t, err)
}

func TestFetchTickerAPIFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success":false,"ErrMsg":"pair not supported"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchTicker(context.Background(), "XLM/USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pair not supported")
}

func TestFetchTickerMissingPair(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success":true,"Data":{"BTC/USD":{"LastPrice":1}}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchTicker(context.Background(), "XLM/USD")
	assert.Error(t, err)
}

func TestPlaceOrderSignature(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/place_order", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("RST-API-KEY"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "XLM/USD", r.PostForm.Get("pair"))
		assert.Equal(t, "BUY", r.PostForm.Get("side"))
		assert.Equal(t, "MARKET", r.PostForm.Get("type"))
		assert.Equal(t, "1000", r.PostForm.Get("quantity"))

		// recompute the signature over the sorted raw key=value pairs
		keys := make([]string, 0, len(r.PostForm))
		for k := range r.PostForm {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+r.PostForm.Get(k))
		}
		mac := hmac.New(sha256.New, []byte("test-secret"))
		mac.Write([]byte(strings.Join(parts, "&")))
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), r.Header.Get("MSG-SIGNATURE"))

		w.Write([]byte(`{"Success":true,"OrderDetail":{"OrderID":12345}}`))
	}))
	defer srv.Close()

	ack, err := newTestClient(srv.URL).PlaceOrder(context.Background(), exchange.OrderRequest{
		Pair:     "XLM/USD",
		Side:     exchange.Buy,
		Type:     exchange.Market,
		Quantity: 1000,
	})
	require.NoError(t, err)
	assert.True(t, ack.Confirmed)
	assert.Equal(t, "12345", ack.OrderID)
}

func TestPlaceOrderRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Success":false,"ErrMsg":"insufficient balance"}`))
	}))
	defer srv.Close()

	// a well-formed rejection is not a transport error
	ack, err := newTestClient(srv.URL).PlaceOrder(context.Background(), exchange.OrderRequest{
		Pair:     "XLM/USD",
		Side:     exchange.Buy,
		Type:     exchange.Market,
		Quantity: 1000,
	})
	require.NoError(t, err)
	assert.False(t, ack.Confirmed)
}

func TestPlaceOrderLimitNeedsPrice(t *testing.T) {
	t.Parallel()

	_, err := newTestClient("http://unused").PlaceOrder(context.Background(), exchange.OrderRequest{
		Pair:     "XLM/USD",
		Side:     exchange.Sell,
		Type:     exchange.Limit,
		Quantity: 10,
	})
	assert.Error(t, err)
}
