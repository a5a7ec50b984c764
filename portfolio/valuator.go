// Package portfolio computes mark-to-market equity and keeps the running
// snapshot history used for the profit-target stop condition.
package portfolio

import (
	"math"
	"time"

	"github.com/tickerlab/roobot/journal"
)

// Snapshot is one mark-to-market observation.
type Snapshot struct {
	Time     time.Time
	Cash     float64
	Holdings float64
	Price    float64
	Equity   float64
}

// Equity is the valuation itself: cash plus holdings priced at the tick.
// Pure on purpose, so repeated valuations with identical inputs can never
// drift.
func Equity(cash, holdings, price float64) float64 {
	return cash + holdings*price
}

// Valuator appends one snapshot per tick to an ordered history and records
// it to the journal. It only ever reads ledger state, never writes it.
type Valuator struct {
	initialCash float64
	targetPct   float64
	journal     journal.Journal
	history     []Snapshot
}

func NewValuator(initialCash, targetPct float64, j journal.Journal) *Valuator {
	return &Valuator{
		initialCash: initialCash,
		targetPct:   targetPct,
		journal:     j,
	}
}

// Valuate computes the current equity, appends it to the history and
// journals it.
func (v *Valuator) Valuate(cash, holdings, price float64, now time.Time) (Snapshot, error) {
	s := Snapshot{
		Time:     now,
		Cash:     cash,
		Holdings: holdings,
		Price:    price,
		Equity:   Equity(cash, holdings, price),
	}
	v.history = append(v.history, s)

	err := v.journal.RecordEquity(journal.EquitySnapshot{
		Time:     s.Time,
		Cash:     s.Cash,
		Holdings: s.Holdings,
		Price:    s.Price,
		Equity:   s.Equity,
	})
	return s, err
}

// ReachedTarget reports whether equity has reached
// initialCash * (1 + targetPct/100). This is the sole termination signal the
// trading cycle evaluates after each valuation.
func (v *Valuator) ReachedTarget(equity float64) bool {
	return equity >= v.initialCash*(1+v.targetPct/100)
}

// History returns the snapshots recorded so far, oldest first.
func (v *Valuator) History() []Snapshot {
	return v.history
}

// Latest returns the most recent snapshot, or false if none exists.
func (v *Valuator) Latest() (Snapshot, bool) {
	if len(v.history) == 0 {
		return Snapshot{}, false
	}
	return v.history[len(v.history)-1], true
}

// Sharpe computes the Sharpe ratio of per-tick portfolio returns against the
// given risk-free rate. With fewer than two snapshots, or zero variance, it
// returns 0.
func (v *Valuator) Sharpe(riskFree float64) float64 {
	if len(v.history) < 2 {
		return 0
	}

	excess := make([]float64, 0, len(v.history)-1)
	mean := 0.0
	for i := 1; i < len(v.history); i++ {
		prev := v.history[i-1].Equity
		if prev == 0 {
			return 0
		}
		r := (v.history[i].Equity-prev)/prev - riskFree
		excess = append(excess, r)
		mean += r
	}
	mean /= float64(len(excess))

	variance := 0.0
	for _, r := range excess {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(excess)))
	if std == 0 {
		return 0
	}
	return mean / std
}
