package renderer

import (
	"github.com/etnz/cryptobook"
	"github.com/shopspring/decimal"
)

type price struct {
	Symbol string
	Price  decimal.Decimal
}

// Prices renders a price table, sorted by symbol.
func Prices(p cryptobook.Prices) string {
	var lines []price
	for _, s := range p.Symbols() {
		lines = append(lines, price{Symbol: s, Price: p[s]})
	}
	return renderTemplate("prices.md", nil, lines)
}

type feePreview struct {
	Type   string
	Owner  string
	Input  cryptobook.Leg
	Output cryptobook.Leg
	Fee    cryptobook.Money
}

// FeePreview renders the legs of tx with its normalized fee, before it is
// recorded.
func FeePreview(tx cryptobook.Transaction, fee cryptobook.Money) string {
	return renderTemplate("fee.md", nil, feePreview{
		Type:   tx.What().Label(),
		Owner:  tx.Who(),
		Input:  tx.Input(),
		Output: tx.Output(),
		Fee:    fee,
	})
}
