package market

import "time"

// Tick is one sampled price observation for an instrument.
type Tick struct {
	Instrument string
	Time       time.Time
	Price      float64
}

// History is an ordered, append-only sequence of ticks for a single
// instrument. The full history is retained for the final report and audit;
// strategies only read the most recent window (rsiPeriod+1 entries for the
// RSI variant), so trimming everything but that tail would be legal too.
type History struct {
	ticks []Tick
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(t Tick) {
	h.ticks = append(h.ticks, t)
}

func (h *History) Len() int {
	return len(h.ticks)
}

// Last returns the most recent tick, or false if the history is empty.
func (h *History) Last() (Tick, bool) {
	if len(h.ticks) == 0 {
		return Tick{}, false
	}
	return h.ticks[len(h.ticks)-1], true
}

// Prev returns the tick before the most recent one.
func (h *History) Prev() (Tick, bool) {
	if len(h.ticks) < 2 {
		return Tick{}, false
	}
	return h.ticks[len(h.ticks)-2], true
}

// Prices returns the prices of the last n ticks, oldest first.
// If fewer than n ticks exist, all of them are returned.
func (h *History) Prices(n int) []float64 {
	start := len(h.ticks) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, len(h.ticks)-start)
	for _, t := range h.ticks[start:] {
		out = append(out, t.Price)
	}
	return out
}
