package market

import "time"

// Candle is a fixed-interval OHLC aggregate of ticks.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	Time  time.Time // start of the interval
}

// CandleBuilder aggregates ticks into candles of a fixed duration.
// Completed candles accumulate in order; the in-progress candle is not
// visible until its interval elapses.
type CandleBuilder struct {
	interval time.Duration
	current  *Candle
	started  time.Time
	done     []Candle
}

func NewCandleBuilder(interval time.Duration) *CandleBuilder {
	return &CandleBuilder{interval: interval}
}

// Update folds a tick into the current candle, rolling over to a new candle
// once the interval has elapsed since the current one started.
func (b *CandleBuilder) Update(t Tick) {
	if b.current == nil {
		b.current = &Candle{Open: t.Price, High: t.Price, Low: t.Price, Close: t.Price, Time: t.Time}
		b.started = t.Time
		return
	}

	b.current.Close = t.Price
	if t.Price > b.current.High {
		b.current.High = t.Price
	}
	if t.Price < b.current.Low {
		b.current.Low = t.Price
	}

	if t.Time.Sub(b.started) >= b.interval {
		b.done = append(b.done, *b.current)
		b.current = &Candle{Open: t.Price, High: t.Price, Low: t.Price, Close: t.Price, Time: t.Time}
		b.started = t.Time
	}
}

// Candles returns the completed candles, oldest first.
func (b *CandleBuilder) Candles() []Candle {
	return b.done
}
