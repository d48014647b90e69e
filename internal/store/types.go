// Package store owns the in-memory pricing workspace: the ordered item
// collection, the global rates, and the saved-batch history. Every mutation
// recomputes what it must, then writes the affected state through the
// persistence adapter. JSON field names match the persisted and exported
// payload format, so files exported by older installs import cleanly.
package store

import "github.com/julinemart/pricer/internal/pricing"

// Item is one priced line in the working set. The derived fields are always
// consistent with CNYPrice and the current rates; any settings change or
// price edit recomputes them before the item is observable again.
type Item struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	CNYPrice        float64  `json:"cnyPrice"`
	Quantity        int      `json:"quantity"`
	CustomSellPrice *float64 `json:"customSellPrice"`

	// Derived by the pricing engine.
	BaseCost float64 `json:"baseCost"`
	MarkedUp float64 `json:"markedUp"`
	Selling  float64 `json:"selling"`
	Profit   float64 `json:"profit"`
}

// EffectiveSell is the price the item actually sells at: the manual override
// when set, the computed selling price otherwise. The computed fields are
// never mutated by an override.
func (it Item) EffectiveSell() float64 {
	if it.CustomSellPrice != nil {
		return *it.CustomSellPrice
	}
	return it.Selling
}

// EffectiveProfit is profit at the effective sell price.
func (it Item) EffectiveProfit() float64 {
	return it.EffectiveSell() - it.MarkedUp
}

// Totals aggregates a set of items.
type Totals struct {
	Units   int     `json:"units"`
	CNY     float64 `json:"cny"`
	Cost    float64 `json:"cost"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// Margin is overall profit as a percentage of revenue, 0 when there is no
// revenue.
func (t Totals) Margin() float64 {
	if t.Revenue > 0 {
		return t.Profit / t.Revenue * 100
	}
	return 0
}

// ComputeTotals rolls up the effective sell and profit of every item.
func ComputeTotals(items []Item) Totals {
	var t Totals
	for _, it := range items {
		t.Units += it.Quantity
		t.CNY += it.CNYPrice * float64(it.Quantity)
		t.Cost += it.MarkedUp * float64(it.Quantity)
		t.Revenue += it.EffectiveSell() * float64(it.Quantity)
		t.Profit += it.EffectiveProfit() * float64(it.Quantity)
	}
	return t
}

// Batch is a named snapshot of the working set. Its items, totals, and
// settings are frozen at save time and never recomputed, even when the
// global rates later change.
type Batch struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Date       string         `json:"date"`
	Items      []Item         `json:"items"`
	Totals     Totals         `json:"totals"`
	Settings   *pricing.Rates `json:"settings,omitempty"`
	ImportedAt string         `json:"importedAt,omitempty"`
}

func cloneItems(items []Item) []Item {
	cloned := make([]Item, len(items))
	for i, it := range items {
		if it.CustomSellPrice != nil {
			v := *it.CustomSellPrice
			it.CustomSellPrice = &v
		}
		cloned[i] = it
	}
	return cloned
}
