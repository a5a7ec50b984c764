package strategy

import "github.com/tickerlab/roobot/market"

// DCA buys on every tick. Degenerate on purpose: the fixed-cadence variant
// exercises the same ledger and cycle contract as the signal-driven ones,
// with the cash check in the ledger acting as its only brake.
type DCA struct{}

func (DCA) Name() string { return "dca" }

func (DCA) Signal(h *market.History) Signal {
	return Buy
}
