// Package indicators provides the small set of price-series computations the
// bundled strategies need. All functions are pure: they read a slice of
// prices (oldest first) and return a value, so a strategy built on them can
// be replayed deterministically.
package indicators

import (
	"errors"
	"fmt"
)

// ErrUndefined is returned when an indicator has no defined value for the
// given input (for example RSI over a series with no losses). Callers should
// treat it as "no signal", not as a failure.
var ErrUndefined = errors.New("indicator undefined for input")

// SMA calculates the Simple Moving Average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RSI calculates the Relative Strength Index over the last period one-step
// price differences. Gains and losses are averaged independently; a loss is
// taken as a positive magnitude. A window with zero average loss has no
// defined RSI and returns ErrUndefined.
func RSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period+1, len(prices))
	}

	var gain, loss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}

	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 0, ErrUndefined
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// Momentum returns the difference between the last price and the price
// period steps earlier, or 0 if the series is too short.
func Momentum(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 0
	}
	return prices[len(prices)-1] - prices[len(prices)-1-period]
}
