package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestDerive_WorkedExample(t *testing.T) {
	got := Derive(100, Rates{ExchangeRate: 205, MarkupPercent: 10, ProfitMarginPercent: 30})

	nearlyEqual(t, "baseCost", got.BaseCost, 20500)
	nearlyEqual(t, "markedUp", got.MarkedUp, 22550)
	nearlyEqual(t, "selling", got.Selling, 22550/0.7)
	nearlyEqual(t, "profit", got.Profit, 22550/0.7-22550)
}

func TestDerive_ProfitEqualsSellingMinusMarkedUp(t *testing.T) {
	cases := []struct {
		price float64
		rates Rates
	}{
		{0, Rates{ExchangeRate: 205, MarkupPercent: 10, ProfitMarginPercent: 30}},
		{12.5, Rates{ExchangeRate: 1, MarkupPercent: 0, ProfitMarginPercent: 0}},
		{999.99, Rates{ExchangeRate: 310.4, MarkupPercent: 25, ProfitMarginPercent: 45}},
		{3, Rates{ExchangeRate: 205, MarkupPercent: 10, ProfitMarginPercent: -20}},
	}

	for _, tc := range cases {
		got := Derive(tc.price, tc.rates)
		if got.Profit != got.Selling-got.MarkedUp {
			t.Fatalf("Derive(%v, %+v): profit %v != selling-markedUp %v",
				tc.price, tc.rates, got.Profit, got.Selling-got.MarkedUp)
		}
		wantSelling := got.MarkedUp / (1 - tc.rates.ProfitMarginPercent/100)
		if got.Selling != wantSelling {
			t.Fatalf("Derive(%v, %+v): selling %v, want %v", tc.price, tc.rates, got.Selling, wantSelling)
		}
	}
}

func TestDerive_MarkupCompoundsOnBaseCost(t *testing.T) {
	got := Derive(40, Rates{ExchangeRate: 10, MarkupPercent: 50, ProfitMarginPercent: 0})

	nearlyEqual(t, "baseCost", got.BaseCost, 400)
	nearlyEqual(t, "markedUp", got.MarkedUp, 600)
	nearlyEqual(t, "selling", got.Selling, 600)
	nearlyEqual(t, "profit", got.Profit, 0)
}

func TestDerive_MarginAtAndAboveOneHundredPassesThrough(t *testing.T) {
	atHundred := Derive(10, Rates{ExchangeRate: 10, MarkupPercent: 0, ProfitMarginPercent: 100})
	if !math.IsInf(atHundred.Selling, 1) {
		t.Fatalf("selling at margin 100 = %v, want +Inf", atHundred.Selling)
	}

	aboveHundred := Derive(10, Rates{ExchangeRate: 10, MarkupPercent: 0, ProfitMarginPercent: 150})
	if aboveHundred.Selling >= 0 {
		t.Fatalf("selling at margin 150 = %v, want negative", aboveHundred.Selling)
	}
}

func TestDefaultRates(t *testing.T) {
	r := DefaultRates()
	if r.ExchangeRate != 205 || r.MarkupPercent != 10 || r.ProfitMarginPercent != 30 {
		t.Fatalf("unexpected defaults: %+v", r)
	}
}
