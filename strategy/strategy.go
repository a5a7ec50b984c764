// Package strategy maps recent price history to a trading decision.
//
// Strategies are pure functions of the observable tick history (plus, for
// the momentum variant, its own bounded window of the same prices), which
// keeps every run replayable: feed the same ticks, get the same signals.
package strategy

import (
	"fmt"
	"strings"

	"github.com/tickerlab/roobot/config"
	"github.com/tickerlab/roobot/market"
)

// Signal is the discrete trading decision for the current tick.
type Signal string

const (
	Buy  Signal = "BUY"
	Sell Signal = "SELL"
	Hold Signal = "HOLD"
)

// Strategy is the capability the trading cycle consumes: one decision per
// tick, derived from history up to and including the latest tick.
type Strategy interface {
	Name() string
	Signal(h *market.History) Signal
}

var registry = make(map[string]func(cfg config.StrategyConfig) Strategy)

func Register(name string, build func(cfg config.StrategyConfig) Strategy) {
	registry[name] = build
}

// ByName constructs the named strategy from its configuration.
func ByName(name string, cfg config.StrategyConfig) (Strategy, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: rsi-grid, momentum, dca)", name)
	}
	return build(cfg), nil
}

func init() {
	Register("rsi-grid", func(cfg config.StrategyConfig) Strategy {
		return NewRSIGrid(cfg.RSIPeriod, cfg.Oversold, cfg.Overbought, cfg.GridGap)
	})
	Register("momentum", func(cfg config.StrategyConfig) Strategy {
		return NewMomentum(cfg.ShortWindow, cfg.LongWindow, cfg.MomentumWindow)
	})
	Register("dca", func(cfg config.StrategyConfig) Strategy {
		return DCA{}
	})
}
