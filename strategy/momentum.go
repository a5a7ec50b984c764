package strategy

import (
	"github.com/tickerlab/roobot/indicators"
	"github.com/tickerlab/roobot/market"
)

// Momentum crosses a short moving average over a long one, confirmed by raw
// momentum. It keeps its own bounded sliding window of prices sized
// max(longWindow, momentumWindow); the oldest price is evicted on overflow,
// so the long MA is always the mean of the whole window.
type Momentum struct {
	shortWindow    int
	longWindow     int
	momentumWindow int

	prices []float64
	seen   int // ticks consumed, to stay in sync with the shared history
}

func NewMomentum(shortWindow, longWindow, momentumWindow int) *Momentum {
	return &Momentum{
		shortWindow:    shortWindow,
		longWindow:     longWindow,
		momentumWindow: momentumWindow,
	}
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) cap() int {
	c := s.longWindow
	if s.momentumWindow > c {
		c = s.momentumWindow
	}
	return c
}

func (s *Momentum) Signal(h *market.History) Signal {
	// Fold any ticks appended since the last call into the window.
	for _, p := range h.Prices(h.Len() - s.seen) {
		s.prices = append(s.prices, p)
		if len(s.prices) > s.cap() {
			s.prices = s.prices[1:]
		}
	}
	s.seen = h.Len()

	if len(s.prices) < s.longWindow {
		return Hold
	}

	shortMA, err := indicators.SMA(s.prices, s.shortWindow)
	if err != nil {
		return Hold
	}
	longMA, err := indicators.SMA(s.prices, len(s.prices))
	if err != nil {
		return Hold
	}
	momentum := indicators.Momentum(s.prices, s.momentumWindow)

	switch {
	case shortMA > longMA && momentum > 0:
		return Buy
	case shortMA < longMA && momentum < 0:
		return Sell
	default:
		return Hold
	}
}
