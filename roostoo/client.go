// Package roostoo implements the exchange gateway against the Roostoo mock
// trading API: HMAC-SHA256 signed form requests, JSON envelope responses.
package roostoo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tickerlab/roobot/exchange"
)

const DefaultBaseURL = "https://mock-api.roostoo.com"

// Client is a Roostoo API client. It holds no trading state.
type Client struct {
	baseURL    string
	apiKey     string
	secretKey  []byte
	httpClient *http.Client

	// wait between the two ticker attempts when the API rate-limits us
	retryWait time.Duration
}

func NewClient(baseURL, apiKey, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		secretKey: []byte(secretKey),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryWait: 2 * time.Second,
	}
}

// sign returns the hex HMAC-SHA256 of the params serialized as
// key=value&... with keys sorted. Values are joined raw (unescaped); that is
// what the server signs against.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	mac := hmac.New(sha256.New, c.secretKey)
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func timestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

type tickerData struct {
	LastPrice float64 `json:"LastPrice"`
}

type tickerResponse struct {
	Success    bool                  `json:"Success"`
	ErrMsg     string                `json:"ErrMsg"`
	ServerTime int64                 `json:"ServerTime"`
	Data       map[string]tickerData `json:"Data"`
}

// FetchTicker returns the last traded price for the pair. A rate-limited
// response (429) is retried once after a short wait; any other failure is
// returned to the caller, who skips the tick.
func (c *Client) FetchTicker(ctx context.Context, pair string) (exchange.Ticker, error) {
	params := map[string]string{
		"timestamp": timestamp(),
		"pair":      pair,
	}

	resp, err := c.getTicker(ctx, params)
	if err != nil {
		return exchange.Ticker{}, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-time.After(c.retryWait):
		case <-ctx.Done():
			return exchange.Ticker{}, ctx.Err()
		}

		params["timestamp"] = timestamp()
		resp, err = c.getTicker(ctx, params)
		if err != nil {
			return exchange.Ticker{}, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return exchange.Ticker{}, fmt.Errorf("ticker: API error (status %d): %s", resp.StatusCode, string(body))
	}

	var tr tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return exchange.Ticker{}, fmt.Errorf("ticker: decode response: %w", err)
	}
	if !tr.Success {
		return exchange.Ticker{}, fmt.Errorf("ticker: request not successful: %s", tr.ErrMsg)
	}

	data, ok := tr.Data[pair]
	if !ok {
		return exchange.Ticker{}, fmt.Errorf("ticker: no data for pair %q", pair)
	}

	at := time.Now()
	if tr.ServerTime > 0 {
		at = time.UnixMilli(tr.ServerTime)
	}

	return exchange.Ticker{Pair: pair, Price: data.LastPrice, Time: at}, nil
}

func (c *Client) getTicker(ctx context.Context, params map[string]string) (*http.Response, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}

	apiURL := fmt.Sprintf("%s/v3/ticker?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ticker: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticker: execute request: %w", err)
	}
	return resp, nil
}

type orderResponse struct {
	Success     bool   `json:"Success"`
	ErrMsg      string `json:"ErrMsg"`
	OrderDetail struct {
		OrderID json.Number `json:"OrderID"`
	} `json:"OrderDetail"`
}

// PlaceOrder submits a signed order. A well-formed rejection comes back as
// Confirmed false with a nil error; transport and protocol failures are
// errors.
func (c *Client) PlaceOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderAck, error) {
	if err := req.Validate(); err != nil {
		return exchange.OrderAck{}, err
	}

	params := map[string]string{
		"pair":      req.Pair,
		"side":      string(req.Side),
		"type":      string(req.Type),
		"quantity":  strconv.FormatFloat(req.Quantity, 'f', -1, 64),
		"timestamp": timestamp(),
	}
	if req.Type == exchange.Limit {
		params["price"] = strconv.FormatFloat(*req.Price, 'f', -1, 64)
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	apiURL := c.baseURL + "/v3/place_order"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return exchange.OrderAck{}, fmt.Errorf("place order: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("RST-API-KEY", c.apiKey)
	httpReq.Header.Set("MSG-SIGNATURE", c.sign(params))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return exchange.OrderAck{}, fmt.Errorf("place order: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return exchange.OrderAck{}, fmt.Errorf("place order: API error (status %d): %s", resp.StatusCode, string(body))
	}

	var or orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return exchange.OrderAck{}, fmt.Errorf("place order: decode response: %w", err)
	}

	return exchange.OrderAck{
		Confirmed: or.Success,
		OrderID:   or.OrderDetail.OrderID.String(),
	}, nil
}
