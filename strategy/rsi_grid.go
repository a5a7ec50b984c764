package strategy

import (
	"github.com/tickerlab/roobot/indicators"
	"github.com/tickerlab/roobot/market"
)

// RSIGrid trades price-gap moves filtered by RSI:
//   - BUY when the last one-step gap is at least +gridGap and RSI is oversold
//   - SELL when the gap is at most -gridGap and RSI is overbought
//
// With too little history, or when RSI is undefined (a window with no
// losses), it holds.
type RSIGrid struct {
	period     int
	oversold   float64
	overbought float64
	gridGap    float64
}

func NewRSIGrid(period int, oversold, overbought, gridGap float64) *RSIGrid {
	return &RSIGrid{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
		gridGap:    gridGap,
	}
}

func (s *RSIGrid) Name() string { return "rsi-grid" }

func (s *RSIGrid) Signal(h *market.History) Signal {
	if h.Len() < s.period+1 {
		return Hold
	}

	rsi, err := indicators.RSI(h.Prices(s.period+1), s.period)
	if err != nil {
		// undefined RSI (a window with no losses) is "no signal", not an error
		return Hold
	}

	last, _ := h.Last()
	prev, _ := h.Prev()
	gap := last.Price - prev.Price

	switch {
	case gap >= s.gridGap && rsi < s.oversold:
		return Buy
	case gap <= -s.gridGap && rsi > s.overbought:
		return Sell
	default:
		return Hold
	}
}
