// Package bot runs the trading cycle: one goroutine, one tick per poll
// interval, each tick strictly sequential through fetch, signal, trade,
// risk exits and valuation. Nothing else writes ledger state.
package bot

import (
	"context"
	"log"
	"time"

	"github.com/tickerlab/roobot/config"
	"github.com/tickerlab/roobot/exchange"
	"github.com/tickerlab/roobot/internal/id"
	"github.com/tickerlab/roobot/journal"
	"github.com/tickerlab/roobot/ledger"
	"github.com/tickerlab/roobot/market"
	"github.com/tickerlab/roobot/portfolio"
	"github.com/tickerlab/roobot/strategy"
)

type StopReason string

const (
	ProfitTarget    StopReason = "PROFIT_TARGET"
	UserCancelled   StopReason = "USER_CANCELLED"
	DataUnavailable StopReason = "DATA_UNAVAILABLE"
)

// FinalReport is what a finished run amounts to. FinalEquity is computed
// from the last known price; NetProfit is relative to the configured
// initial cash.
type FinalReport struct {
	RunID       string
	StopReason  StopReason
	FinalEquity float64
	NetProfit   float64
	Sharpe      float64
	Ticks       int
}

// Cycle owns the tick history and the ledger and drives one trading run
// from start to a terminal stop reason.
type Cycle struct {
	cfg      *config.Config
	strat    strategy.Strategy
	gateway  exchange.Gateway
	ledger   *ledger.Ledger
	valuator *portfolio.Valuator
	history  *market.History
	candles  *market.CandleBuilder
	runID    string

	ticks         int
	fetchFailures int // consecutive
}

func New(cfg *config.Config, strat strategy.Strategy, gw exchange.Gateway, j journal.Journal) *Cycle {
	return &Cycle{
		cfg:      cfg,
		strat:    strat,
		gateway:  gw,
		ledger:   ledger.New(cfg.Trading.InitialCash, j),
		valuator: portfolio.NewValuator(cfg.Trading.InitialCash, cfg.Trading.ProfitTargetPct, j),
		history:  market.NewHistory(),
		candles:  market.NewCandleBuilder(cfg.Trading.CandleSpan()),
		runID:    id.New(),
	}
}

// Run polls until a terminal state is reached. Cancellation is cooperative:
// it is observed before each fetch and at the sleep boundary, never
// mid-tick; an in-flight gateway call is awaited to completion or failure.
func (c *Cycle) Run(ctx context.Context) (FinalReport, error) {
	log.Printf("run=%s strategy=%s pair=%s interval=%s starting",
		c.runID, c.strat.Name(), c.cfg.Trading.Pair, c.cfg.Trading.PollInterval)

	for {
		if ctx.Err() != nil {
			return c.finish(UserCancelled)
		}

		if stop, reason := c.tick(ctx); stop {
			return c.finish(reason)
		}

		select {
		case <-time.After(c.cfg.Trading.Interval()):
		case <-ctx.Done():
			return c.finish(UserCancelled)
		}
	}
}

// tick executes one full cycle iteration. It reports whether the cycle must
// stop and why. A ticker fetch failure skips everything else in the tick and
// is not fatal by itself.
func (c *Cycle) tick(ctx context.Context) (bool, StopReason) {
	tkr, err := c.gateway.FetchTicker(ctx, c.cfg.Trading.Pair)
	if err != nil {
		c.fetchFailures++
		log.Printf("run=%s ticker fetch failed (%d consecutive): %v", c.runID, c.fetchFailures, err)
		if max := c.cfg.Trading.MaxFetchFailures; max > 0 && c.fetchFailures >= max {
			return true, DataUnavailable
		}
		return false, ""
	}
	c.fetchFailures = 0
	c.ticks++

	tick := market.Tick{Instrument: tkr.Pair, Time: tkr.Time, Price: tkr.Price}
	c.history.Append(tick)
	c.candles.Update(tick)

	sig := c.strat.Signal(c.history)
	log.Printf("run=%s tick=%d price=%.6f signal=%s", c.runID, c.ticks, tick.Price, sig)

	if sig == strategy.Buy || sig == strategy.Sell {
		c.trade(ctx, sig, tick)
	}

	if _, err := c.ledger.CheckRiskExits(tick.Price, tick.Time, c.exitConfirm(ctx)); err != nil {
		log.Printf("run=%s risk exits: %v", c.runID, err)
	}

	snap, err := c.valuator.Valuate(c.ledger.Cash(), c.ledger.Holdings(), tick.Price, tick.Time)
	if err != nil {
		log.Printf("run=%s record equity: %v", c.runID, err)
	}

	if c.valuator.ReachedTarget(snap.Equity) {
		log.Printf("run=%s profit target reached: equity=%.2f", c.runID, snap.Equity)
		return true, ProfitTarget
	}
	return false, ""
}

// trade places the order with the gateway first and mutates the ledger only
// on a confirmed fill. Insufficient funds or holdings are a normal hold for
// the tick, not an error.
func (c *Cycle) trade(ctx context.Context, sig strategy.Signal, tick market.Tick) {
	qty := c.cfg.Trading.Quantity

	switch sig {
	case strategy.Buy:
		if !c.ledger.CanBuy(tick.Price, qty) {
			log.Printf("run=%s insufficient cash for buy, holding", c.runID)
			return
		}
		if !c.placeConfirmed(ctx, exchange.Buy, qty) {
			return
		}
		slPct, tpPct := 0.0, 0.0
		if c.cfg.Trading.TracksPositions() {
			slPct, tpPct = c.cfg.Trading.StopLossPct, c.cfg.Trading.TakeProfitPct
		}
		orderID, err := c.ledger.ApplyBuy(tick.Price, qty, tick.Time, slPct, tpPct)
		if err != nil {
			log.Printf("run=%s apply buy: %v", c.runID, err)
			return
		}
		log.Printf("run=%s order=%s BUY %.4f @ %.6f", c.runID, orderID, qty, tick.Price)

	case strategy.Sell:
		if !c.ledger.CanSell(qty) {
			log.Printf("run=%s insufficient holdings for sell, holding", c.runID)
			return
		}
		if !c.placeConfirmed(ctx, exchange.Sell, qty) {
			return
		}
		orderID, err := c.ledger.ApplySell(tick.Price, qty, tick.Time)
		if err != nil {
			log.Printf("run=%s apply sell: %v", c.runID, err)
			return
		}
		log.Printf("run=%s order=%s SELL %.4f @ %.6f", c.runID, orderID, qty, tick.Price)
	}
}

func (c *Cycle) placeConfirmed(ctx context.Context, side exchange.Side, qty float64) bool {
	ack, err := c.gateway.PlaceOrder(ctx, exchange.OrderRequest{
		Pair:     c.cfg.Trading.Pair,
		Side:     side,
		Type:     exchange.Market,
		Quantity: qty,
	})
	if err != nil {
		log.Printf("run=%s %s order failed: %v", c.runID, side, err)
		return false
	}
	if !ack.Confirmed {
		log.Printf("run=%s %s order rejected by gateway", c.runID, side)
		return false
	}
	return true
}

// exitConfirm returns the confirmation hook for risk exits: nil by default
// (exits are recorded locally), or a gateway-backed market SELL when
// exit_requires_confirmation is set. An unconfirmed exit stays open for the
// next tick.
func (c *Cycle) exitConfirm(ctx context.Context) func(p *ledger.Position, reason ledger.ExitReason) bool {
	if !c.cfg.Trading.ExitRequiresConfirmation {
		return nil
	}
	return func(p *ledger.Position, reason ledger.ExitReason) bool {
		ok := c.placeConfirmed(ctx, exchange.Sell, p.Quantity)
		if !ok {
			log.Printf("run=%s %s exit not confirmed, position stays open", c.runID, reason)
		}
		return ok
	}
}

// finish computes the final valuation from the last known price and builds
// the report. A run that never saw a single price cannot be valued and
// terminates with DATA_UNAVAILABLE.
func (c *Cycle) finish(reason StopReason) (FinalReport, error) {
	last, ok := c.history.Last()
	if !ok {
		log.Printf("run=%s no data recorded during trading", c.runID)
		return FinalReport{RunID: c.runID, StopReason: DataUnavailable}, nil
	}

	snap, err := c.valuator.Valuate(c.ledger.Cash(), c.ledger.Holdings(), last.Price, last.Time)
	if err != nil {
		log.Printf("run=%s record final equity: %v", c.runID, err)
	}

	report := FinalReport{
		RunID:       c.runID,
		StopReason:  reason,
		FinalEquity: snap.Equity,
		NetProfit:   snap.Equity - c.cfg.Trading.InitialCash,
		Sharpe:      c.valuator.Sharpe(0),
		Ticks:       c.ticks,
	}
	log.Printf("run=%s stopped reason=%s equity=%.2f net=%.2f ticks=%d",
		c.runID, report.StopReason, report.FinalEquity, report.NetProfit, report.Ticks)
	return report, nil
}

// Candles exposes the completed OHLC candles aggregated during the run.
func (c *Cycle) Candles() []market.Candle {
	return c.candles.Candles()
}

// History exposes the full tick history for audit.
func (c *Cycle) History() *market.History {
	return c.history
}
