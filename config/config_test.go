package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10*time.Second, cfg.Trading.Interval())
	assert.Equal(t, 10*time.Second, cfg.Trading.CandleSpan())
	assert.True(t, cfg.Trading.TracksPositions())
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
exchange:
  base_url: https://mock-api.roostoo.com
  api_key: key
  secret_key: secret
trading:
  pair: XLM/USD
  initial_cash: 100000
  quantity: 1000
  stop_loss_pct: 1
  take_profit_pct: 2
  profit_target_pct: 5
  poll_interval: 10s
  candle_interval: 1m
strategy:
  name: rsi-grid
  rsi_period: 14
  oversold: 40
  overbought: 60
  grid_gap: 0.001
journal:
  type: sqlite
  db_path: ./roobot.sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "XLM/USD", cfg.Trading.Pair)
	assert.Equal(t, 14, cfg.Strategy.RSIPeriod)
	assert.Equal(t, time.Minute, cfg.Trading.CandleSpan())
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Exchange.APIKey = "key"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Trading.Quantity, loaded.Trading.Quantity)
	assert.Equal(t, "key", loaded.Exchange.APIKey)
}

func TestSaveRoundtripYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, Default().SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Strategy.GridGap, loaded.Strategy.GridGap)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Exchange.BaseURL = "" }},
		{"missing pair", func(c *Config) { c.Trading.Pair = "" }},
		{"zero cash", func(c *Config) { c.Trading.InitialCash = 0 }},
		{"zero quantity", func(c *Config) { c.Trading.Quantity = 0 }},
		{"negative stop", func(c *Config) { c.Trading.StopLossPct = -1 }},
		{"zero target", func(c *Config) { c.Trading.ProfitTargetPct = 0 }},
		{"bad interval", func(c *Config) { c.Trading.PollInterval = "soon" }},
		{"zero interval", func(c *Config) { c.Trading.PollInterval = "0s" }},
		{"bad candle interval", func(c *Config) { c.Trading.CandleInterval = "x" }},
		{"negative fetch failures", func(c *Config) { c.Trading.MaxFetchFailures = -1 }},
		{"no strategy", func(c *Config) { c.Strategy.Name = "" }},
		{"unknown strategy", func(c *Config) { c.Strategy.Name = "martingale" }},
		{"rsi period zero", func(c *Config) { c.Strategy.RSIPeriod = 0 }},
		{"grid gap zero", func(c *Config) { c.Strategy.GridGap = 0 }},
		{"bands inverted", func(c *Config) { c.Strategy.Oversold = 70; c.Strategy.Overbought = 30 }},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }},
		{"csv without paths", func(c *Config) { c.Journal.TradesFile = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateMomentum(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Strategy.Name = "momentum"
	require.NoError(t, cfg.Validate())

	cfg.Strategy.ShortWindow = 10 // above long window
	assert.Error(t, cfg.Validate())

	cfg.Strategy.ShortWindow = 0
	assert.Error(t, cfg.Validate())
}

func TestTracksPositions(t *testing.T) {
	t.Parallel()

	tr := TradingConfig{}
	assert.False(t, tr.TracksPositions())
	tr.StopLossPct = 1
	assert.True(t, tr.TracksPositions())
	tr = TradingConfig{TakeProfitPct: 2}
	assert.True(t, tr.TracksPositions())
}
