// Package excel renders the workspace as an XLSX workbook. Unlike the CSV
// report, cells are typed and item names containing commas or quotes need no
// escaping.
package excel

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/julinemart/pricer/internal/pricing"
	"github.com/julinemart/pricer/internal/store"
)

const sheetName = "Workspace"

var header = []any{
	"Item Name",
	"CNY Price",
	"Quantity",
	"Cost (NGN)",
	"Selling (NGN)",
	"Custom Sell (NGN)",
	"Profit (NGN)",
	"Total Profit (NGN)",
	"Link",
}

// WriteWorkspace builds the workbook: header, one row per item, a totals
// row, and a settings summary. The caller owns the returned file and must
// Close it after writing it out.
func WriteWorkspace(items []store.Item, totals store.Totals, settings pricing.Rates) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		file.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(items)+4)
	rows = append(rows, header)

	for _, it := range items {
		var customSell any
		if it.CustomSellPrice != nil {
			customSell = math.Round(*it.CustomSellPrice)
		}
		rows = append(rows, []any{
			it.Name,
			it.CNYPrice,
			it.Quantity,
			math.Round(it.MarkedUp),
			math.Round(it.EffectiveSell()),
			customSell,
			math.Round(it.EffectiveProfit()),
			math.Round(it.EffectiveProfit() * float64(it.Quantity)),
			it.URL,
		})
	}

	rows = append(rows, nil)
	rows = append(rows, []any{
		"TOTALS", totals.CNY, totals.Units,
		math.Round(totals.Cost), math.Round(totals.Revenue), nil,
		math.Round(totals.Profit), math.Round(totals.Profit),
	})
	rows = append(rows, nil)
	rows = append(rows, []any{fmt.Sprintf("Settings: Exchange Rate: %v, Markup: %v%%, Margin: %v%%",
		settings.ExchangeRate, settings.MarkupPercent, settings.ProfitMarginPercent)})

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("compute cell name: %w", err)
		}
		if err := file.SetSheetRow(sheetName, cell, &row); err != nil {
			file.Close()
			return nil, fmt.Errorf("write sheet row %d: %w", i+1, err)
		}
	}

	return file, nil
}
