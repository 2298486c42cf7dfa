package utils

import (
	"fmt"
)

// FormatMoney renders a currency amount for invoices and console views,
// e.g. 20 -> "$20.00". Amounts are float64 snapshots carried on orders
// and line items.
func FormatMoney(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// LineTotal computes the display total of a single line item
func LineTotal(price float64, quantity int) float64 {
	return price * float64(quantity)
}
