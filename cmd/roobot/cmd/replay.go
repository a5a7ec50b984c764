package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerlab/roobot/bot"
	"github.com/tickerlab/roobot/config"
	"github.com/tickerlab/roobot/replay"
	"github.com/tickerlab/roobot/strategy"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay recorded ticks through the trading cycle",
	Long: `Replay a recorded tick CSV (plain or .xz) through the identical trading
cycle, with orders confirmed locally instead of sent to the exchange.

The CSV format is: time,pair,price with RFC3339 timestamps; a header row is
allowed.

Example:
  roobot replay -f configs/rsi-grid.yaml --ticks data/xlm_usd.csv.xz`,
	RunE: runReplay,
}

var (
	replayConfigPath string
	replayTicksPath  string
	replayFrom       string
	replayTo         string
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	replayCmd.Flags().StringVar(&replayTicksPath, "ticks", "", "path to tick CSV file, .xz accepted (required)")
	replayCmd.Flags().StringVar(&replayFrom, "from", "", "replay start (RFC3339), optional")
	replayCmd.Flags().StringVar(&replayTo, "to", "", "replay end (RFC3339, exclusive), optional")
	replayCmd.MarkFlagRequired("config")
	replayCmd.MarkFlagRequired("ticks")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(replayConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var from, to time.Time
	if replayFrom != "" {
		if from, err = time.Parse(time.RFC3339, replayFrom); err != nil {
			return fmt.Errorf("bad --from: %w", err)
		}
	}
	if replayTo != "" {
		if to, err = time.Parse(time.RFC3339, replayTo); err != nil {
			return fmt.Errorf("bad --to: %w", err)
		}
	}

	// Replays run flat-out and stop as soon as the feed is exhausted.
	cfg.Trading.PollInterval = "1ms"
	cfg.Trading.MaxFetchFailures = 1

	feed, err := replay.NewCSVTicksFeed(replayTicksPath, from, to)
	if err != nil {
		return fmt.Errorf("open ticks: %w", err)
	}
	defer feed.Close()

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	strat, err := strategy.ByName(cfg.Strategy.Name, cfg.Strategy)
	if err != nil {
		return err
	}

	cycle := bot.New(cfg, strat, replay.NewGateway(feed), j)
	report, err := cycle.Run(cmd.Context())
	if err != nil {
		return err
	}

	printReport(report)
	fmt.Printf("  Candles: %d\n", len(cycle.Candles()))
	return nil
}
