package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by order ID.
func (j *SQLiteJournal) GetTrade(orderID string) (TradeRecord, error) {
	var rec TradeRecord

	row := j.db.QueryRow(`
		SELECT order_id, time, signal, price, quantity, cash, holdings, stop_loss, take_profit, exit_reason
		FROM trades
		WHERE order_id = ?`, orderID)

	err := row.Scan(
		&rec.OrderID,
		&rec.Time,
		&rec.Signal,
		&rec.Price,
		&rec.Quantity,
		&rec.CashAfter,
		&rec.HoldingsAfter,
		&rec.StopLoss,
		&rec.TakeProfit,
		&rec.ExitReason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("order %q not found", orderID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades whose time is within [start, end),
// oldest first.
func (j *SQLiteJournal) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, time, signal, price, quantity, cash, holdings, stop_loss, take_profit, exit_reason
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.OrderID,
			&rec.Time,
			&rec.Signal,
			&rec.Price,
			&rec.Quantity,
			&rec.CashAfter,
			&rec.HoldingsAfter,
			&rec.StopLoss,
			&rec.TakeProfit,
			&rec.ExitReason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestEquity returns the most recent equity snapshot.
func (j *SQLiteJournal) LatestEquity() (EquitySnapshot, error) {
	var e EquitySnapshot

	row := j.db.QueryRow(`
		SELECT time, cash, holdings, price, equity
		FROM equity
		ORDER BY time DESC
		LIMIT 1`)

	err := row.Scan(&e.Time, &e.Cash, &e.Holdings, &e.Price, &e.Equity)
	if err != nil {
		if err == sql.ErrNoRows {
			return EquitySnapshot{}, fmt.Errorf("no equity snapshots recorded")
		}
		return EquitySnapshot{}, err
	}
	return e, nil
}
