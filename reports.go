package cryptobook

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// FiatExchangeStat summarizes the stable assets an owner bought with a fiat currency.
type FiatExchangeStat struct {
	Owner               string
	Fiat                string
	Stable              string
	TotalFiatPaid       Money
	TotalStableReceived Quantity
	AvgCostPerUnit      Money // fiat paid per stable unit, zero without units
	Count               int
}

// FiatExchangeStats aggregates fiat purchases per owner and fiat currency,
// ordered by owner then fiat currency.
func FiatExchangeStats(txs []Transaction) []FiatExchangeStat {
	stats := make(map[Key]FiatExchangeStat)
	for _, tx := range txs {
		if tx.What() != TypeFiatPurchase {
			continue
		}
		in, out := tx.Input(), tx.Output()
		k := Key{tx.Who(), in.Currency}
		s, ok := stats[k]
		if !ok {
			s = FiatExchangeStat{Owner: k.Owner, Fiat: k.Asset, Stable: out.Currency, TotalFiatPaid: M(0, in.Currency)}
		}
		if s.Stable != out.Currency {
			s.Stable = "" // mixed
		}
		s.TotalFiatPaid = s.TotalFiatPaid.Add(M(in.Amount.Decimal(), in.Currency))
		s.TotalStableReceived = s.TotalStableReceived.Add(out.Amount)
		s.Count++
		stats[k] = s
	}
	lines := make([]FiatExchangeStat, 0, len(stats))
	for _, k := range sortedKeys(stats) {
		s := stats[k]
		s.AvgCostPerUnit = s.TotalFiatPaid.Div(s.TotalStableReceived)
		lines = append(lines, s)
	}
	return lines
}

// FeeLine is the total fee an owner paid on one type of transaction.
type FeeLine struct {
	Owner string
	Type  TxType
	Fee   Money
}

// FeeSummary sums normalized fees per owner and type, ignoring fees that are
// not strictly positive. Lines are ordered by owner then type.
func FeeSummary(txs []Transaction, prices Prices) []FeeLine {
	type feeKey struct {
		owner string
		typ   TxType
	}
	fees := make(map[feeKey]Money)
	for _, tx := range txs {
		fee := NormalizeFee(tx, prices)
		if !fee.IsPositive() {
			continue
		}
		k := feeKey{tx.Who(), tx.What()}
		fees[k] = Dollars(fee).Add(fees[k])
	}
	keys := slices.SortedFunc(maps.Keys(fees), func(a, b feeKey) int {
		return cmp.Or(cmp.Compare(a.owner, b.owner), cmp.Compare(slices.Index(TxTypes, a.typ), slices.Index(TxTypes, b.typ)))
	})
	lines := make([]FeeLine, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, FeeLine{Owner: k.owner, Type: k.typ, Fee: fees[k]})
	}
	return lines
}

// FeeTotal is the total fee paid by an owner.
type FeeTotal struct {
	Owner string
	Fee   Money
}

// FeeTotals sums fee lines per owner.
func FeeTotals(lines []FeeLine) []FeeTotal {
	var totals []FeeTotal
	for _, l := range lines {
		if n := len(totals); n > 0 && totals[n-1].Owner == l.Owner {
			totals[n-1].Fee = totals[n-1].Fee.Add(l.Fee)
			continue
		}
		totals = append(totals, FeeTotal{Owner: l.Owner, Fee: l.Fee})
	}
	return totals
}

// OwnerSummary is the floating profit or loss of all the positions of an owner.
type OwnerSummary struct {
	Owner       string
	MarketValue Money
	Cost        Money
	FloatingPnL Money
	Percent     decimal.Decimal // FloatingPnL / Cost * 100, zero without cost
}

// OwnerSummaries sums positions per owner. Positions must be ordered by owner.
func OwnerSummaries(positions []Position) []OwnerSummary {
	var sums []OwnerSummary
	for _, p := range positions {
		n := len(sums)
		if n == 0 || sums[n-1].Owner != p.Owner {
			sums = append(sums, OwnerSummary{Owner: p.Owner, MarketValue: Dollars(0), Cost: Dollars(0)})
			n++
		}
		s := &sums[n-1]
		s.MarketValue = s.MarketValue.Add(p.MarketValue)
		s.Cost = s.Cost.Add(p.CostOfHoldings)
	}
	for i := range sums {
		s := &sums[i]
		s.FloatingPnL = s.MarketValue.Sub(s.Cost)
		s.Percent = s.FloatingPnL.Ratio(s.Cost).Mul(decimal.NewFromInt(100))
	}
	return sums
}
