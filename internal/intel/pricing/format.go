package pricing

import (
	"fmt"
	"strings"
)

var currencySymbols = map[string]string{
	"SAR": "SAR",
	"IDR": "Rp",
	"USD": "$",
	"EUR": "EUR",
	"GBP": "GBP",
	"MYR": "RM",
	"SGD": "S$",
	"AED": "AED",
}

// FormatPrice renders an amount for display. IDR uses the Indonesian
// convention: no decimals, dot as thousand separator, symbol first.
func FormatPrice(amount float64, currency string) string {
	currency = strings.ToUpper(currency)
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}

	if currency == "IDR" {
		return symbol + " " + groupThousands(int64(amount), ".")
	}

	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100
	if cents < 0 {
		cents = -cents
	}
	return fmt.Sprintf("%s.%02d %s", groupThousands(whole, ","), cents, symbol)
}

// FormatDual renders a price in SAR with its IDR equivalent in parentheses.
func (c *Converter) FormatDual(amount float64, sourceCurrency string) string {
	sar, err := c.ToSAR(amount, sourceCurrency)
	if err != nil {
		return FormatPrice(amount, sourceCurrency)
	}
	idr, err := c.ToIDR(sar, ReferenceCurrency)
	if err != nil {
		return FormatPrice(sar, ReferenceCurrency)
	}
	return fmt.Sprintf("%s (%s)", FormatPrice(sar, ReferenceCurrency), FormatPrice(idr, "IDR"))
}

// PerNight splits a total across nights (minimum one night).
func PerNight(total float64, nights int) float64 {
	if nights <= 0 {
		nights = 1
	}
	return total / float64(nights)
}

func groupThousands(n int64, sep string) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, sep)
	if neg {
		out = "-" + out
	}
	return out
}
