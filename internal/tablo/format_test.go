package tablo

import (
	"strings"
	"testing"
)

func TestOrderSummary(t *testing.T) {
	t.Parallel()

	table := 4
	o := Order{
		ID:              7,
		OrderNumber:     107,
		Status:          StatusPreparing,
		TotalPrice:      21.5,
		TableNumber:     &table,
		PaymentIntentID: "pi_123",
	}
	got := o.Summary()
	for _, want := range []string{"id=7", "number=107", "status=PREPARING", "total=21.50 EUR", "table=4", "pickup=ASAP", "paid=yes"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	if got := FormatPrice(9.5, ""); got != "9.50 EUR" {
		t.Fatalf("got %q", got)
	}
	if got := FormatPrice(0, "HUF"); got != "0.00 HUF" {
		t.Fatalf("got %q", got)
	}
}
