package main

import (
	"os"

	"github.com/tickerlab/roobot/cmd/roobot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
