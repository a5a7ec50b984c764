package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "roobot",
	Short: "A polling trading bot for the Roostoo mock exchange",
	Long: `Roobot samples a market price on a fixed interval, derives BUY/SELL/HOLD
decisions from recent price history, and manages fixed-size positions with
stop-loss/take-profit exits until a profit target is reached.

It provides tools for:
  - Running a live polling loop against the Roostoo API
  - Replaying recorded tick history through the identical cycle
  - Journaling trades and equity curves to CSV or SQLite
  - Querying past trades from the journal`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
