package cryptobook

// Basis is the weighted average acquisition cost of a position.
type Basis struct {
	TotalCost     Money    // USD spent acquiring the asset, fees included
	TotalQuantity Quantity // quantity acquired
	AvgUnitCost   Money    // TotalCost / TotalQuantity, zero without quantity
}

// isAcquisition reports whether tx adds to the cost basis of its output.
func isAcquisition(tx Transaction) bool {
	switch tx.What() {
	case TypeCryptoPurchase, TypeSwap:
		return true
	}
	return false
}

// CostBasis computes the weighted average cost of every acquired position.
//
// Crypto purchases and swaps are acquisitions of their output, costing their
// input at its current price (1 when unlisted) plus the normalized fee. The
// average runs over the whole history: disposals never reduce it.
func CostBasis(txs []Transaction, prices Prices) map[Key]Basis {
	bases := make(map[Key]Basis)
	for _, tx := range txs {
		if !isAcquisition(tx) {
			continue
		}
		in, out := tx.Input(), tx.Output()
		cost := Dollars(in.Amount.Decimal().Mul(prices.PriceOr(in.Currency, one)).Add(NormalizeFee(tx, prices)))

		k := Key{tx.Who(), out.Currency}
		b := bases[k]
		b.TotalCost = b.TotalCost.Add(cost)
		b.TotalQuantity = b.TotalQuantity.Add(out.Amount)
		bases[k] = b
	}
	for k, b := range bases {
		b.AvgUnitCost = b.TotalCost.Div(b.TotalQuantity)
		if b.AvgUnitCost.IsNegative() {
			b.AvgUnitCost = Dollars(0)
		}
		bases[k] = b
	}
	return bases
}

// avgUnitCost returns the average unit cost of a position, zero without basis.
func avgUnitCost(bases map[Key]Basis, k Key) Money {
	if b, ok := bases[k]; ok {
		return b.AvgUnitCost
	}
	return Dollars(0)
}
