// Package exchange defines the contract the trading cycle consumes to talk
// to an execution venue. Implementations own no trading state; they are a
// stateless request/response boundary.
package exchange

import (
	"context"
	"fmt"
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// Ticker is the latest traded price for a pair.
type Ticker struct {
	Pair  string
	Price float64
	Time  time.Time
}

// OrderRequest describes one order. Price is required for LIMIT orders and
// ignored for MARKET orders.
type OrderRequest struct {
	Pair     string
	Side     Side
	Type     OrderType
	Quantity float64
	Price    *float64
}

// Validate rejects malformed requests before they reach the wire.
func (r OrderRequest) Validate() error {
	if r.Pair == "" {
		return fmt.Errorf("order: pair is required")
	}
	if r.Side != Buy && r.Side != Sell {
		return fmt.Errorf("order: invalid side %q", r.Side)
	}
	if r.Type != Market && r.Type != Limit {
		return fmt.Errorf("order: invalid type %q", r.Type)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("order: quantity must be positive")
	}
	if r.Type == Limit && r.Price == nil {
		return fmt.Errorf("order: price must be provided for LIMIT orders")
	}
	return nil
}

// OrderAck is the venue's answer to an order. Confirmed false means the
// order was rejected; the caller must not mutate ledger state.
type OrderAck struct {
	Confirmed bool
	OrderID   string
}

// Gateway places orders and fetches prices.
type Gateway interface {
	FetchTicker(ctx context.Context, pair string) (Ticker, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderAck, error)
}
