package cryptobook

import (
	"maps"
	"slices"
)

// isDisposal reports whether tx gives up an asset against its cost basis.
func isDisposal(tx Transaction) bool {
	switch tx.What() {
	case TypeSale, TypeSwap:
		return true
	}
	return false
}

// RealizedGain returns the profit or loss of a single sale or swap: the
// proceeds valued at the received asset price (1 when unlisted), minus the
// given quantity at its current average cost, minus the normalized fee.
func RealizedGain(tx Transaction, bases map[Key]Basis, prices Prices) Money {
	in, out := tx.Input(), tx.Output()
	proceeds := Dollars(out.Amount.Decimal().Mul(prices.PriceOr(out.Currency, one)))
	cogs := avgUnitCost(bases, Key{tx.Who(), in.Currency}).Mul(in.Amount)
	return proceeds.Sub(cogs).Sub(Dollars(NormalizeFee(tx, prices)))
}

// RealizedPnL sums the realized gain of every sale and swap per owner.
//
// Cost basis is the one computed over the complete history, not the one at
// the date of the disposal.
func RealizedPnL(txs []Transaction, bases map[Key]Basis, prices Prices) map[string]Money {
	pnl := make(map[string]Money)
	for _, tx := range txs {
		if !isDisposal(tx) {
			continue
		}
		pnl[tx.Who()] = Dollars(0).Add(pnl[tx.Who()]).Add(RealizedGain(tx, bases, prices))
	}
	return pnl
}

// RealizedLine is the realized profit or loss of an owner.
type RealizedLine struct {
	Owner       string
	RealizedPnL Money
}

// realizedLines orders realized gains by owner.
func realizedLines(pnl map[string]Money) []RealizedLine {
	lines := make([]RealizedLine, 0, len(pnl))
	for _, owner := range slices.Sorted(maps.Keys(pnl)) {
		lines = append(lines, RealizedLine{Owner: owner, RealizedPnL: pnl[owner]})
	}
	return lines
}
