package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for
// pasting into a trading journal. Structured facts live in a PROPERTIES
// drawer for easy search; narrative placeholders follow.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** %s %.4f @ %.6f (%s)", t.Signal, t.Quantity, t.Price, t.OrderID)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ORDER_ID: %s\n", t.OrderID))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", t.Time.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":SIGNAL: %s\n", t.Signal))
	b.WriteString(fmt.Sprintf(":PRICE: %.6f\n", t.Price))
	b.WriteString(fmt.Sprintf(":QUANTITY: %.4f\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":CASH_AFTER: %.2f\n", t.CashAfter))
	b.WriteString(fmt.Sprintf(":HOLDINGS_AFTER: %.4f\n", t.HoldingsAfter))
	if t.StopLoss > 0 {
		b.WriteString(fmt.Sprintf(":STOP_LOSS: %.6f\n", t.StopLoss))
	}
	if t.TakeProfit > 0 {
		b.WriteString(fmt.Sprintf(":TAKE_PROFIT: %.6f\n", t.TakeProfit))
	}
	if t.ExitReason != "" {
		b.WriteString(fmt.Sprintf(":EXIT_REASON: %s\n", t.ExitReason))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}
