package journal

import "time"

// TradeRecord is an append-only log entry written once per fill or risk
// exit, never mutated. StopLoss/TakeProfit are zero when the trade carries
// no exit thresholds; ExitReason is empty for entries.
type TradeRecord struct {
	OrderID       string
	Time          time.Time
	Signal        string // BUY, SELL or CLOSE
	Price         float64
	Quantity      float64
	CashAfter     float64
	HoldingsAfter float64
	StopLoss      float64
	TakeProfit    float64
	ExitReason    string
}

// EquitySnapshot is the mark-to-market portfolio value at one tick.
type EquitySnapshot struct {
	Time     time.Time
	Cash     float64
	Holdings float64
	Price    float64
	Equity   float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
