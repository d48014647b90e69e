package pricing

// Rates holds the three global parameters every price derivation depends on:
// the CNY-to-NGN exchange rate, the shipping/cargo markup, and the target
// profit margin.
type Rates struct {
	ExchangeRate        float64 `json:"exchangeRate"`
	MarkupPercent       float64 `json:"markupPercent"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"`
}

const (
	defaultExchangeRate  = 205
	defaultMarkupPercent = 10
	defaultMarginPercent = 30
)

// DefaultRates returns the rates a fresh workspace starts with.
func DefaultRates() Rates {
	return Rates{
		ExchangeRate:        defaultExchangeRate,
		MarkupPercent:       defaultMarkupPercent,
		ProfitMarginPercent: defaultMarginPercent,
	}
}

// Breakdown contains the derived money values for a single unit price.
type Breakdown struct {
	BaseCost float64 `json:"baseCost"`
	MarkedUp float64 `json:"markedUp"`
	Selling  float64 `json:"selling"`
	Profit   float64 `json:"profit"`
}

// Derive computes the landed cost and selling price for one unit priced in
// the source currency. It is a pure numeric transform and performs no input
// validation: a margin of 100 yields an infinite selling price and a margin
// above 100 a negative one, both of which pass through unmodified.
func Derive(price float64, r Rates) Breakdown {
	baseCost := price * r.ExchangeRate
	markedUp := baseCost * (1 + r.MarkupPercent/100)
	selling := markedUp / (1 - r.ProfitMarginPercent/100)
	profit := selling - markedUp

	return Breakdown{
		BaseCost: baseCost,
		MarkedUp: markedUp,
		Selling:  selling,
		Profit:   profit,
	}
}
