package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/tickerlab/roobot/exchange"
)

// ErrFeedExhausted signals that the recorded history ran out. The cycle
// treats it like any other fetch failure; replay runs set max_fetch_failures
// to 1 so exhaustion terminates the run.
var ErrFeedExhausted = errors.New("replay: feed exhausted")

// Gateway adapts a tick feed to the exchange gateway so the identical
// trading cycle runs against recorded data. Orders are always confirmed
// locally with a synthetic ID; there is no venue to reject them.
type Gateway struct {
	feed   *CSVTicksFeed
	orders int
}

func NewGateway(feed *CSVTicksFeed) *Gateway {
	return &Gateway{feed: feed}
}

func (g *Gateway) FetchTicker(ctx context.Context, pair string) (exchange.Ticker, error) {
	for {
		t, ok, err := g.feed.Next()
		if err != nil {
			return exchange.Ticker{}, err
		}
		if !ok {
			return exchange.Ticker{}, ErrFeedExhausted
		}
		if t.Instrument != "" && t.Instrument != pair {
			continue
		}
		return exchange.Ticker{Pair: pair, Price: t.Price, Time: t.Time}, nil
	}
}

func (g *Gateway) PlaceOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderAck, error) {
	if err := req.Validate(); err != nil {
		return exchange.OrderAck{}, err
	}
	g.orders++
	return exchange.OrderAck{Confirmed: true, OrderID: fmt.Sprintf("SIM-%d", g.orders)}, nil
}

var _ exchange.Gateway = (*Gateway)(nil)
