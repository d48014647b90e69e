package store

import (
	"math"
	"strconv"
	"strings"

	"github.com/julinemart/pricer/internal/pricing"
	"github.com/julinemart/pricer/internal/urlnorm"
)

const untitledItemName = "Untitled Item"

// Items returns a copy of the working set in insertion order.
func (w *Workspace) Items() []Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneItems(w.items)
}

// WorkspaceTotals aggregates the current working set.
func (w *Workspace) WorkspaceTotals() Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ComputeTotals(w.items)
}

// AddItem appends a new priced item. A blank name, an unset price, or a
// quantity below 1 rejects the add without consuming an id; the second
// result reports whether the item was added.
func (w *Workspace) AddItem(name, rawURL string, cnyPrice float64, quantity int) (Item, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" || cnyPrice == 0 || math.IsNaN(cnyPrice) || quantity < 1 {
		return Item{}, false
	}

	item := Item{
		ID:       w.seq.next(),
		Name:     name,
		URL:      urlnorm.Normalize(rawURL),
		CNYPrice: cnyPrice,
		Quantity: quantity,
	}
	item.applyBreakdown(pricing.Derive(cnyPrice, w.settings))

	w.items = append(w.items, item)
	w.persist(itemsKey, w.items)
	return item, true
}

// EditFields carries the raw text of an edit form. Every field is re-parsed
// with the store's fallback policy rather than validated up front.
type EditFields struct {
	Name            string
	URL             string
	CNYPrice        string
	Quantity        string
	CustomSellPrice string
}

// EditItem re-parses the edit fields and replaces the matching item in
// place, re-deriving its money fields under the current rates. Fallbacks:
// invalid or negative price becomes 0, invalid or non-positive quantity
// becomes 1, an invalid or negative custom sell clears the override, and an
// empty name becomes "Untitled Item". An unknown id is a no-op.
func (w *Workspace) EditItem(id string, fields EditFields) (Item, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(id)
	if idx < 0 {
		return Item{}, false
	}

	item := w.items[idx]
	item.Name = editName(fields.Name)
	item.URL = urlnorm.Normalize(fields.URL)
	item.CNYPrice = editPrice(fields.CNYPrice)
	item.Quantity = editQuantity(fields.Quantity)
	item.CustomSellPrice = editCustomSell(fields.CustomSellPrice)
	item.applyBreakdown(pricing.Derive(item.CNYPrice, w.settings))

	w.items[idx] = item
	w.persist(itemsKey, w.items)
	return item, true
}

// DeleteItem removes the item with the given id; absent ids are a no-op.
func (w *Workspace) DeleteItem(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(id)
	if idx < 0 {
		return false
	}
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	w.persist(itemsKey, w.itemsOrEmpty())
	return true
}

// ClearItems empties the working set. It is irreversible; callers present
// their confirmation gate before invoking it.
func (w *Workspace) ClearItems() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = nil
	w.persist(itemsKey, w.itemsOrEmpty())
}

// Recompute re-derives every item's money fields from its existing price
// under the current rates, preserving order and custom sell overrides. It is
// idempotent: repeated calls with unchanged rates produce identical fields.
func (w *Workspace) Recompute() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recomputeAllLocked()
	w.persist(itemsKey, w.itemsOrEmpty())
}

func (w *Workspace) recomputeAllLocked() {
	for i := range w.items {
		w.items[i].applyBreakdown(pricing.Derive(w.items[i].CNYPrice, w.settings))
	}
}

func (w *Workspace) indexOf(id string) int {
	for i := range w.items {
		if w.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (it *Item) applyBreakdown(b pricing.Breakdown) {
	it.BaseCost = b.BaseCost
	it.MarkedUp = b.MarkedUp
	it.Selling = b.Selling
	it.Profit = b.Profit
}

func editName(raw string) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return untitledItemName
}

func editPrice(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

func editQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 {
			return 1
		}
		return n
	}
	// Decimal quantities from free-text input truncate toward zero.
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 1 {
		return int(f)
	}
	return 1
}

func editCustomSell(raw string) *float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil
	}
	return &value
}
