package cryptobook

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Prices is a snapshot of USD prices, indexed by asset symbol.
type Prices map[string]decimal.Decimal

// PriceOf returns the USD price of an asset, and whether it is listed.
func (p Prices) PriceOf(symbol string) (decimal.Decimal, bool) {
	v, ok := p[strings.ToUpper(symbol)]
	return v, ok
}

// PriceOr returns the USD price of an asset, or def when it is not listed.
func (p Prices) PriceOr(symbol string, def decimal.Decimal) decimal.Decimal {
	if v, ok := p.PriceOf(symbol); ok {
		return v
	}
	return def
}

// Symbols returns the listed symbols in alphabetical order.
func (p Prices) Symbols() []string {
	return slices.Sorted(maps.Keys(p))
}

// Merge returns a new snapshot with q's prices overriding p's.
func (p Prices) Merge(q Prices) Prices {
	r := make(Prices, len(p)+len(q))
	maps.Copy(r, p)
	maps.Copy(r, q)
	return r
}

var one = decimal.NewFromInt(1)
