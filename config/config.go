package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete, immutable run configuration. It is loaded and
// validated once before the trading cycle starts; nothing mutates it
// afterwards.
type Config struct {
	Exchange ExchangeConfig `json:"exchange" yaml:"exchange"`
	Trading  TradingConfig  `json:"trading" yaml:"trading"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// ExchangeConfig identifies the Roostoo endpoint and credentials.
type ExchangeConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	APIKey    string `json:"api_key" yaml:"api_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

// TradingConfig contains the cycle and ledger parameters.
type TradingConfig struct {
	Pair            string  `json:"pair" yaml:"pair"`
	InitialCash     float64 `json:"initial_cash" yaml:"initial_cash"`
	Quantity        float64 `json:"quantity" yaml:"quantity"`
	StopLossPct     float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct   float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	ProfitTargetPct float64 `json:"profit_target_pct" yaml:"profit_target_pct"`
	PollInterval    string  `json:"poll_interval" yaml:"poll_interval"`
	CandleInterval  string  `json:"candle_interval,omitempty" yaml:"candle_interval,omitempty"`

	// MaxFetchFailures stops the run with reason DATA_UNAVAILABLE after this
	// many consecutive ticker failures. 0 means a fetch failure is never
	// fatal, only skipped.
	MaxFetchFailures int `json:"max_fetch_failures,omitempty" yaml:"max_fetch_failures,omitempty"`

	// ExitRequiresConfirmation makes stop-loss/take-profit exits place a
	// confirmed counter-order through the gateway before the ledger closes
	// the position. Off by default: exits are recorded locally.
	ExitRequiresConfirmation bool `json:"exit_requires_confirmation,omitempty" yaml:"exit_requires_confirmation,omitempty"`
}

// StrategyConfig contains signal parameters for all strategy variants; each
// variant reads only its own fields.
type StrategyConfig struct {
	Name           string  `json:"name" yaml:"name"`
	RSIPeriod      int     `json:"rsi_period" yaml:"rsi_period"`
	Oversold       float64 `json:"oversold" yaml:"oversold"`
	Overbought     float64 `json:"overbought" yaml:"overbought"`
	GridGap        float64 `json:"grid_gap" yaml:"grid_gap"`
	ShortWindow    int     `json:"short_window" yaml:"short_window"`
	LongWindow     int     `json:"long_window" yaml:"long_window"`
	MomentumWindow int     `json:"momentum_window" yaml:"momentum_window"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Interval returns the parsed poll interval. Validate guarantees it parses.
func (t TradingConfig) Interval() time.Duration {
	d, _ := time.ParseDuration(t.PollInterval)
	return d
}

// CandleSpan returns the candle aggregation interval, defaulting to the poll
// interval when unset.
func (t TradingConfig) CandleSpan() time.Duration {
	if t.CandleInterval == "" {
		return t.Interval()
	}
	d, _ := time.ParseDuration(t.CandleInterval)
	return d
}

// TracksPositions reports whether buys open individual positions with
// stop-loss/take-profit exits. Variants that run without per-position
// tracking (momentum, dca) set both percentages to zero and the ledger keeps
// holdings as a single running scalar.
func (t TradingConfig) TracksPositions() bool {
	return t.StopLossPct > 0 || t.TakeProfitPct > 0
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration. Any error here is fatal before the
// cycle starts.
func (c *Config) Validate() error {
	if c.Exchange.BaseURL == "" {
		return fmt.Errorf("exchange.base_url is required")
	}
	if c.Trading.Pair == "" {
		return fmt.Errorf("trading.pair is required")
	}
	if c.Trading.InitialCash <= 0 {
		return fmt.Errorf("trading.initial_cash must be positive")
	}
	if c.Trading.Quantity <= 0 {
		return fmt.Errorf("trading.quantity must be positive")
	}
	if c.Trading.StopLossPct < 0 || c.Trading.TakeProfitPct < 0 {
		return fmt.Errorf("trading stop/take percentages must not be negative")
	}
	if c.Trading.ProfitTargetPct <= 0 {
		return fmt.Errorf("trading.profit_target_pct must be positive")
	}
	if d, err := time.ParseDuration(c.Trading.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("trading.poll_interval must be a positive duration: %q", c.Trading.PollInterval)
	}
	if c.Trading.CandleInterval != "" {
		if d, err := time.ParseDuration(c.Trading.CandleInterval); err != nil || d <= 0 {
			return fmt.Errorf("trading.candle_interval must be a positive duration: %q", c.Trading.CandleInterval)
		}
	}
	if c.Trading.MaxFetchFailures < 0 {
		return fmt.Errorf("trading.max_fetch_failures must not be negative")
	}

	switch c.Strategy.Name {
	case "rsi-grid":
		if c.Strategy.RSIPeriod <= 0 {
			return fmt.Errorf("strategy.rsi_period must be positive")
		}
		if c.Strategy.GridGap <= 0 {
			return fmt.Errorf("strategy.grid_gap must be positive")
		}
		if c.Strategy.Oversold >= c.Strategy.Overbought {
			return fmt.Errorf("strategy.oversold must be below strategy.overbought")
		}
	case "momentum":
		if c.Strategy.ShortWindow <= 0 || c.Strategy.LongWindow <= 0 || c.Strategy.MomentumWindow <= 0 {
			return fmt.Errorf("strategy momentum windows must be positive")
		}
		if c.Strategy.ShortWindow > c.Strategy.LongWindow {
			return fmt.Errorf("strategy.short_window must not exceed strategy.long_window")
		}
	case "dca":
		// no parameters
	case "":
		return fmt.Errorf("strategy.name is required")
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy.Name)
	}

	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal trades_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Default returns a configuration with the stock RSI+grid parameters.
func Default() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			BaseURL: "https://mock-api.roostoo.com",
		},
		Trading: TradingConfig{
			Pair:            "XLM/USD",
			InitialCash:     100000,
			Quantity:        1000,
			StopLossPct:     1,
			TakeProfitPct:   2,
			ProfitTargetPct: 5,
			PollInterval:    "10s",
		},
		Strategy: StrategyConfig{
			Name:           "rsi-grid",
			RSIPeriod:      14,
			Oversold:       40,
			Overbought:     60,
			GridGap:        0.001,
			ShortWindow:    3,
			LongWindow:     7,
			MomentumWindow: 5,
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
	}
}
