package cryptobook

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// assetFormatter displays asset amounts with up to 6 decimals.
var assetFormatter = money.NewFormatter(6, ".", ",", "", "1")

// FormatAmount formats an amount of currency for display: currencies with a
// dedicated formatter (IRR shown in Toman) use it, other assets are shown
// with at most 6 decimals, trailing zeros trimmed.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if _, ok := formatters[currency]; ok {
		return M(amount, currency).String()
	}
	s := assetFormatter.Format(amount.Round(6).Shift(6).IntPart())
	if strings.Contains(s, ".") {
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatLeg formats a transaction leg.
func FormatLeg(l Leg) string { return FormatAmount(l.Amount.Decimal(), l.Currency) }
