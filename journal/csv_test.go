package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{
		OrderID:       "ORD-000001",
		Time:          ts,
		Signal:        "BUY",
		Price:         0.42,
		Quantity:      1000,
		CashAfter:     99580,
		HoldingsAfter: 1000,
		StopLoss:      0.4158,
		TakeProfit:    0.4284,
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time: ts, Cash: 99580, Holdings: 1000, Price: 0.42, Equity: 100000,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"order_id", "time", "signal", "price", "quantity", "cash", "holdings", "stop_loss", "take_profit", "exit_reason"}, rows[0])
	assert.Equal(t, "ORD-000001", rows[1][0])
	assert.Equal(t, "2026-08-31T12:00:00Z", rows[1][1])
	assert.Equal(t, "BUY", rows[1][2])
	assert.Equal(t, "0.420000", rows[1][3])
	assert.Equal(t, "1000.000000", rows[1][4])
	assert.Equal(t, "", rows[1][9])

	rows = readCSV(t, equityPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "cash", "holdings", "price", "equity"}, rows[0])
	assert.Equal(t, "100000.000000", rows[1][4])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}
