package tablo

import (
	"fmt"
	"strings"
	"time"
)

// FormatPrice renders a currency amount for terminal output.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "EUR"
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

// Summary renders an order as a single key=value line, for list output.
func (o Order) Summary() string {
	parts := make([]string, 0, 8)

	parts = append(parts, fmt.Sprintf("id=%d", o.ID))
	if o.OrderNumber != 0 {
		parts = append(parts, fmt.Sprintf("number=%d", o.OrderNumber))
	}
	if o.Status != "" {
		parts = append(parts, "status="+string(o.Status))
	}
	parts = append(parts, "total="+FormatPrice(o.TotalPrice, ""))
	if o.TableNumber != nil {
		parts = append(parts, fmt.Sprintf("table=%d", *o.TableNumber))
	}
	if o.Scheduled() {
		parts = append(parts, "pickup="+o.PickupTime.In(time.Local).Format("Jan 2 15:04"))
	} else {
		parts = append(parts, "pickup=ASAP")
	}
	if o.Paid() {
		parts = append(parts, "paid=yes")
	} else {
		parts = append(parts, "paid=no")
	}

	return strings.Join(parts, " ")
}
