package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julinemart/pricer/internal/pricing"
	"github.com/julinemart/pricer/internal/store"
)

var csvHeader = []string{
	"Item Name",
	"CNY Price",
	"Quantity",
	"Cost (NGN)",
	"Selling (NGN)",
	"Custom Sell (NGN)",
	"Profit (NGN)",
	"Total Profit (NGN)",
}

// WorkspaceCSV renders the current working set as the comma-joined report
// format: header, one row per item, a blank row, a totals row, a blank row,
// and a settings summary. Money columns are rounded to whole units except
// the CNY price, which keeps two decimals.
//
// Fields are joined without quoting or escaping, so an item name containing
// a comma shifts its row's columns. This matches the original files in the
// wild; the XLSX export is the safe alternative.
func WorkspaceCSV(items []store.Item, totals store.Totals, settings pricing.Rates) string {
	rows := make([]string, 0, len(items)+5)
	rows = append(rows, strings.Join(csvHeader, ","))

	for _, it := range items {
		customSell := ""
		if it.CustomSellPrice != nil {
			customSell = roundWhole(*it.CustomSellPrice)
		}
		rows = append(rows, strings.Join([]string{
			it.Name,
			strconv.FormatFloat(it.CNYPrice, 'f', 2, 64),
			strconv.Itoa(it.Quantity),
			roundWhole(it.MarkedUp),
			roundWhole(it.EffectiveSell()),
			customSell,
			roundWhole(it.EffectiveProfit()),
			roundWhole(it.EffectiveProfit() * float64(it.Quantity)),
		}, ","))
	}

	rows = append(rows, "")
	rows = append(rows, strings.Join([]string{
		"TOTALS",
		"",
		strconv.Itoa(totals.Units),
		roundWhole(totals.Cost),
		roundWhole(totals.Revenue),
		roundWhole(totals.Profit),
		roundWhole(totals.Profit),
	}, ","))
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("Settings: Exchange Rate: %s, Markup: %s%%, Margin: %s%%",
		formatRate(settings.ExchangeRate),
		formatRate(settings.MarkupPercent),
		formatRate(settings.ProfitMarginPercent)))

	return strings.Join(rows, "\n")
}

func roundWhole(value float64) string {
	return strconv.FormatFloat(math.Round(value), 'f', 0, 64)
}

func formatRate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
