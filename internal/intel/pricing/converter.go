// Package pricing converts prices between supported currencies via a
// SAR-based cross-rate table and formats them for display.
package pricing

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"labbaik_intel/internal/domain"
)

// ReferenceCurrency is the single currency all cross-rates are expressed in.
const ReferenceCurrency = "SAR"

// DisplayCurrency is the secondary display currency, converted at a fixed
// high-magnitude rate and rounded to whole units.
const DisplayCurrency = "IDR"

var sarToIDR = decimal.NewFromInt(4250) // 1 SAR in IDR, display only

// defaultRates holds each supported currency's value in SAR.
var defaultRates = map[string]string{
	"SAR": "1.0",
	"USD": "3.75",
	"EUR": "4.10",
	"GBP": "4.75",
	"IDR": "0.000235",
	"MYR": "0.85",
	"SGD": "2.80",
	"AED": "1.02",
	"EGP": "0.076",
	"PKR": "0.0135",
	"BDT": "0.032",
	"INR": "0.045",
	"TRY": "0.11",
}

// Converter is an explicit, caller-owned rate table. It consumes rates; it
// never fetches them.
type Converter struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewConverter builds a converter seeded with the default rate table.
func NewConverter() *Converter {
	c := &Converter{rates: make(map[string]decimal.Decimal, len(defaultRates))}
	for cur, r := range defaultRates {
		c.rates[cur] = decimal.RequireFromString(r)
	}
	return c
}

// UpdateRate sets a currency's value in SAR.
func (c *Converter) UpdateRate(currency string, rateToSAR decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[strings.ToUpper(currency)] = rateToSAR
}

// Rate returns the exchange rate from base to quote. Equal currencies rate
// 1.0; anything else resolves through the SAR table, two lookups at most.
// Unknown currencies surface domain.ErrCurrencyNotAvailable.
func (c *Converter) Rate(base, quote string) (decimal.Decimal, error) {
	base = strings.ToUpper(base)
	quote = strings.ToUpper(quote)

	if base == quote {
		return decimal.NewFromInt(1), nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	one := decimal.NewFromInt(1)
	baseRate, baseOK := c.rates[base]
	quoteRate, quoteOK := c.rates[quote]

	switch {
	case quote == ReferenceCurrency && baseOK:
		return baseRate, nil
	case base == ReferenceCurrency && quoteOK:
		return one.Div(quoteRate), nil
	case baseOK && quoteOK:
		return baseRate.Mul(one.Div(quoteRate)), nil
	}
	return decimal.Decimal{}, domain.ErrCurrencyNotAvailable
}

// Convert converts amount between currencies, rounding half-up to 2 decimal
// places, or to whole units when the target is the IDR display currency.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if to == DisplayCurrency && from != DisplayCurrency {
		return c.ToIDR(amount, from)
	}

	rate, err := c.Rate(from, to)
	if err != nil {
		return 0, err
	}
	out := decimal.NewFromFloat(amount).Mul(rate).Round(2)
	f, _ := out.Float64()
	return f, nil
}

// ToSAR converts an amount to the reference currency, rounded to 2 places.
func (c *Converter) ToSAR(amount float64, currency string) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == ReferenceCurrency {
		return amount, nil
	}
	rate, err := c.Rate(currency, ReferenceCurrency)
	if err != nil {
		return 0, err
	}
	out := decimal.NewFromFloat(amount).Mul(rate).Round(2)
	f, _ := out.Float64()
	return f, nil
}

// ToIDR converts via SAR at the fixed display rate, rounded to whole rupiah.
func (c *Converter) ToIDR(amount float64, currency string) (float64, error) {
	sar, err := c.ToSAR(amount, currency)
	if err != nil {
		return 0, err
	}
	out := decimal.NewFromFloat(sar).Mul(sarToIDR).Round(0)
	f, _ := out.Float64()
	return f, nil
}

// Comparison is the result of comparing two prices in SAR terms.
type Comparison struct {
	OriginalSAR    float64 `json:"original_sar"`
	SaleSAR        float64 `json:"sale_sar"`
	SavingsSAR     float64 `json:"savings_sar"`
	SavingsIDR     float64 `json:"savings_idr"`
	SavingsPercent float64 `json:"savings_percent"`
	IsCheaper      bool    `json:"is_cheaper"`
}

// Compare converts both prices to SAR and reports the savings going from the
// first to the second. A first price converting to zero yields the zero
// result instead of dividing by it. Unknown currencies are treated as zero.
func (c *Converter) Compare(price1 float64, currency1 string, price2 float64, currency2 string) Comparison {
	sar1, err := c.ToSAR(price1, currency1)
	if err != nil {
		sar1 = 0
	}
	sar2, err := c.ToSAR(price2, currency2)
	if err != nil {
		sar2 = 0
	}

	if sar1 == 0 {
		return Comparison{}
	}

	savings := decimal.NewFromFloat(sar1).Sub(decimal.NewFromFloat(sar2))
	percent := savings.Div(decimal.NewFromFloat(sar1)).Mul(decimal.NewFromInt(100)).Round(1)
	savingsF, _ := savings.Round(2).Float64()
	percentF, _ := percent.Float64()

	savingsIDR := 0.0
	if savingsF > 0 {
		savingsIDR, _ = c.ToIDR(savingsF, ReferenceCurrency)
	}

	return Comparison{
		OriginalSAR:    sar1,
		SaleSAR:        sar2,
		SavingsSAR:     savingsF,
		SavingsIDR:     savingsIDR,
		SavingsPercent: percentF,
		IsCheaper:      savingsF > 0,
	}
}
