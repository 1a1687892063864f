package cryptobook

// Position is the valuation of an asset held by an owner.
type Position struct {
	Owner          string
	Asset          string
	Quantity       Quantity
	AvgUnitCost    Money
	MarketPrice    Money
	MarketValue    Money
	CostOfHoldings Money
	UnrealizedPnL  Money
}

// Valuate values every held position at current prices, ordered by owner
// then asset.
//
// A position without price or without cost basis is still listed, the
// fields depending on the missing data being zero.
func Valuate(balances map[Key]Quantity, bases map[Key]Basis, prices Prices) []Position {
	positions := make([]Position, 0, len(balances))
	for _, k := range sortedKeys(balances) {
		q := balances[k]
		if !q.IsHeld() {
			continue
		}
		price, _ := prices.PriceOf(k.Asset)
		p := Position{
			Owner:       k.Owner,
			Asset:       k.Asset,
			Quantity:    q,
			AvgUnitCost: avgUnitCost(bases, k),
			MarketPrice: Dollars(price),
		}
		p.MarketValue = p.MarketPrice.Mul(q)
		p.CostOfHoldings = p.AvgUnitCost.Mul(q)
		p.UnrealizedPnL = p.MarketValue.Sub(p.CostOfHoldings)
		positions = append(positions, p)
	}
	return positions
}
