package codec

import (
	"strings"
	"testing"

	"github.com/julinemart/pricer/internal/pricing"
	"github.com/julinemart/pricer/internal/store"
)

func TestWorkspaceCSVLayout(t *testing.T) {
	customSell := 30000.0
	items := []store.Item{
		{
			ID: "id-1", Name: "Earbuds", CNYPrice: 99.5, Quantity: 2,
			MarkedUp: 22438.9, Selling: 32055.57, Profit: 9616.67,
		},
		{
			ID: "id-2", Name: "Case", CNYPrice: 10, Quantity: 1, CustomSellPrice: &customSell,
			MarkedUp: 2255, Selling: 3221.43, Profit: 966.43,
		},
	}
	totals := store.ComputeTotals(items)
	settings := pricing.Rates{ExchangeRate: 205, MarkupPercent: 10, ProfitMarginPercent: 30}

	csv := WorkspaceCSV(items, totals, settings)
	lines := strings.Split(csv, "\n")

	if len(lines) != 7 {
		t.Fatalf("expected 7 lines (header, 2 items, blank, totals, blank, settings), got %d:\n%s", len(lines), csv)
	}
	if lines[0] != "Item Name,CNY Price,Quantity,Cost (NGN),Selling (NGN),Custom Sell (NGN),Profit (NGN),Total Profit (NGN)" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "Earbuds,99.50,2,22439,32056,,9617,19233" {
		t.Fatalf("unexpected first item row: %q", lines[1])
	}
	if lines[2] != "Case,10.00,1,2255,30000,30000,27745,27745" {
		t.Fatalf("unexpected second item row: %q", lines[2])
	}
	if lines[3] != "" || lines[5] != "" {
		t.Fatalf("blank separator rows missing: %q / %q", lines[3], lines[5])
	}
	if !strings.HasPrefix(lines[4], "TOTALS,,3,") {
		t.Fatalf("unexpected totals row: %q", lines[4])
	}
	if lines[6] != "Settings: Exchange Rate: 205, Markup: 10%, Margin: 30%" {
		t.Fatalf("unexpected settings row: %q", lines[6])
	}
}

func TestWorkspaceCSVDoesNotEscapeCommas(t *testing.T) {
	items := []store.Item{{ID: "id-1", Name: "Earbuds, white", CNYPrice: 1, Quantity: 1}}
	csv := WorkspaceCSV(items, store.ComputeTotals(items), pricing.DefaultRates())

	if !strings.Contains(csv, "Earbuds, white,1.00,") {
		t.Fatalf("names are expected to pass through unquoted:\n%s", csv)
	}
}

func TestWorkspaceCSVEmptyWorkspace(t *testing.T) {
	csv := WorkspaceCSV(nil, store.Totals{}, pricing.DefaultRates())
	lines := strings.Split(csv, "\n")

	if len(lines) != 5 {
		t.Fatalf("expected 5 lines for empty workspace, got %d:\n%s", len(lines), csv)
	}
	if !strings.HasPrefix(lines[2], "TOTALS,,0,0,0,0,0") {
		t.Fatalf("unexpected totals row: %q", lines[2])
	}
}
