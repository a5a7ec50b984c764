// Package ledger owns the authoritative in-memory trading state: cash,
// holdings, open positions and the order sequence. Only the trading cycle
// mutates it, one operation at a time, which is what makes its
// read-modify-write on cash/holdings safe without locking.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/tickerlab/roobot/journal"
)

// Insufficient funds or holdings are a normal "cannot trade now" outcome,
// not a failure: the cycle logs them and holds for the tick.
var (
	ErrInsufficientFunds    = errors.New("insufficient cash for buy")
	ErrInsufficientHoldings = errors.New("insufficient holdings for sell")
)

type ExitReason string

const (
	StopLoss   ExitReason = "STOP_LOSS"
	TakeProfit ExitReason = "TAKE_PROFIT"
)

// Position is a single open exposure created by a filled buy. It is mutated
// exactly once, by the risk-exit check that closes it.
type Position struct {
	EntryTime  time.Time
	EntryPrice float64
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
	Open       bool
}

// ClosedPosition reports one risk exit applied by CheckRiskExits.
type ClosedPosition struct {
	OrderID  string
	Position *Position
	Reason   ExitReason
	Price    float64
}

type Ledger struct {
	cash      float64
	holdings  float64
	positions []*Position
	seq       int
	journal   journal.Journal
}

func New(initialCash float64, j journal.Journal) *Ledger {
	return &Ledger{cash: initialCash, journal: j}
}

func (l *Ledger) Cash() float64     { return l.cash }
func (l *Ledger) Holdings() float64 { return l.holdings }

// CanBuy reports whether cash covers price*quantity. The cycle asks before
// going to the gateway, so no order is ever placed that the ledger would
// refuse to settle.
func (l *Ledger) CanBuy(price, quantity float64) bool { return l.cash >= price*quantity }

// CanSell reports whether holdings cover quantity.
func (l *Ledger) CanSell(quantity float64) bool { return l.holdings >= quantity }

// OpenPositions returns the open positions in insertion order.
func (l *Ledger) OpenPositions() []*Position {
	out := make([]*Position, 0, len(l.positions))
	for _, p := range l.positions {
		if p.Open {
			out = append(out, p)
		}
	}
	return out
}

// nextOrderID returns a monotonically increasing, zero-padded order ID.
// IDs are never reused within a ledger instance.
func (l *Ledger) nextOrderID() string {
	l.seq++
	return fmt.Sprintf("ORD-%06d", l.seq)
}

// ApplyBuy applies a confirmed buy fill: cash decreases by price*quantity,
// holdings increase by quantity. When slPct or tpPct is positive a Position
// is opened with stop-loss price*(1-slPct/100) and take-profit
// price*(1+tpPct/100); otherwise holdings stay a single running scalar.
func (l *Ledger) ApplyBuy(price, quantity float64, now time.Time, slPct, tpPct float64) (string, error) {
	cost := price * quantity
	if l.cash < cost {
		return "", ErrInsufficientFunds
	}

	l.cash -= cost
	l.holdings += quantity
	id := l.nextOrderID()

	var sl, tp float64
	if slPct > 0 || tpPct > 0 {
		sl = price * (1 - slPct/100)
		tp = price * (1 + tpPct/100)
		l.positions = append(l.positions, &Position{
			EntryTime:  now,
			EntryPrice: price,
			Quantity:   quantity,
			StopLoss:   sl,
			TakeProfit: tp,
			Open:       true,
		})
	}

	err := l.journal.RecordTrade(journal.TradeRecord{
		OrderID:       id,
		Time:          now,
		Signal:        "BUY",
		Price:         price,
		Quantity:      quantity,
		CashAfter:     l.cash,
		HoldingsAfter: l.holdings,
		StopLoss:      sl,
		TakeProfit:    tp,
	})
	if err != nil {
		return id, fmt.Errorf("record buy: %w", err)
	}
	return id, nil
}

// ApplySell applies a confirmed sell fill against aggregate holdings. Sells
// are deliberately not matched to a specific open position; a FIFO matching
// policy would replace only this method.
func (l *Ledger) ApplySell(price, quantity float64, now time.Time) (string, error) {
	if l.holdings < quantity {
		return "", ErrInsufficientHoldings
	}

	l.holdings -= quantity
	l.cash += price * quantity
	id := l.nextOrderID()

	err := l.journal.RecordTrade(journal.TradeRecord{
		OrderID:       id,
		Time:          now,
		Signal:        "SELL",
		Price:         price,
		Quantity:      quantity,
		CashAfter:     l.cash,
		HoldingsAfter: l.holdings,
	})
	if err != nil {
		return id, fmt.Errorf("record sell: %w", err)
	}
	return id, nil
}

// CheckRiskExits evaluates every open position against the current price,
// in insertion order, once. A position at or below its stop-loss closes with
// reason STOP_LOSS (which takes priority); at or above its take-profit,
// TAKE_PROFIT. Closed positions are never re-evaluated.
//
// confirm, when non-nil, is consulted before each close; returning false
// leaves the position open to be re-evaluated on a later tick. The cycle
// uses it to require a confirmed counter-order from the gateway.
func (l *Ledger) CheckRiskExits(price float64, now time.Time, confirm func(p *Position, reason ExitReason) bool) ([]ClosedPosition, error) {
	var closed []ClosedPosition

	for _, p := range l.positions {
		if !p.Open {
			continue
		}

		var reason ExitReason
		switch {
		case price <= p.StopLoss:
			reason = StopLoss
		case price >= p.TakeProfit:
			reason = TakeProfit
		default:
			continue
		}

		if confirm != nil && !confirm(p, reason) {
			continue
		}

		p.Open = false
		l.cash += p.Quantity * price
		l.holdings -= p.Quantity
		id := l.nextOrderID()

		err := l.journal.RecordTrade(journal.TradeRecord{
			OrderID:       id,
			Time:          now,
			Signal:        "CLOSE",
			Price:         price,
			Quantity:      p.Quantity,
			CashAfter:     l.cash,
			HoldingsAfter: l.holdings,
			ExitReason:    string(reason),
		})
		if err != nil {
			return closed, fmt.Errorf("record exit: %w", err)
		}

		closed = append(closed, ClosedPosition{
			OrderID:  id,
			Position: p,
			Reason:   reason,
			Price:    price,
		})
	}

	return closed, nil
}
