package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tickerlab/roobot/bot"
	"github.com/tickerlab/roobot/config"
	"github.com/tickerlab/roobot/journal"
	"github.com/tickerlab/roobot/roostoo"
	"github.com/tickerlab/roobot/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop from a config file",
	Long: `Run the live trading loop using settings from a configuration file.

The loop polls the exchange once per interval and stops when the profit
target is reached or on Ctrl-C. The final report states the stop reason and
net profit either way.

Example:
  roobot run -f examples/configs/rsi-grid.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	strat, err := strategy.ByName(cfg.Strategy.Name, cfg.Strategy)
	if err != nil {
		return err
	}

	gw := roostoo.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.APIKey, cfg.Exchange.SecretKey)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cycle := bot.New(cfg, strat, gw, j)
	report, err := cycle.Run(ctx)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	if jc.Type == "sqlite" {
		return journal.NewSQLite(jc.DBPath)
	}
	return journal.NewCSV(jc.TradesFile, jc.EquityFile)
}

func printReport(r bot.FinalReport) {
	fmt.Printf("\nFinal Report (run %s)\n", r.RunID)
	fmt.Printf("  Stop Reason: %s\n", r.StopReason)
	fmt.Printf("  Final Portfolio Value: %.2f\n", r.FinalEquity)
	fmt.Printf("  Net Profit: %.2f\n", r.NetProfit)
	fmt.Printf("  Sharpe: %.4f\n", r.Sharpe)
	fmt.Printf("  Ticks: %d\n", r.Ticks)
}
