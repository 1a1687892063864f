package cryptobook

import (
	"maps"
	"slices"
	"strings"
)

// Engine analyzes a snapshot of the ledger at a snapshot of prices.
//
// An Engine holds no other state: every method is a pure function of
// Transactions and Prices, and calling it twice gives the same result.
// Neither field must be modified while the Engine is in use.
type Engine struct {
	Transactions []Transaction
	Prices       Prices
}

// NewEngine returns an engine over txs valued at prices.
func NewEngine(txs []Transaction, prices Prices) *Engine {
	if prices == nil {
		prices = Prices{}
	}
	return &Engine{Transactions: txs, Prices: prices}
}

// Assets returns every asset symbol moved by the transactions, sorted.
// It is the set of symbols to be priced before analysis.
func (e *Engine) Assets() []string {
	set := make(map[string]struct{})
	for _, tx := range e.Transactions {
		for _, leg := range []Leg{tx.Input(), tx.Output()} {
			if s := strings.TrimSpace(leg.Currency); s != "" {
				set[s] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Fee returns the normalized fee of tx, in USD.
func (e *Engine) Fee(tx Transaction) Money { return Dollars(NormalizeFee(tx, e.Prices)) }

// Balances returns the current holdings, without dust.
func (e *Engine) Balances() map[Key]Quantity { return Balances(e.Transactions) }

// CostBasis returns the weighted average cost per position.
func (e *Engine) CostBasis() map[Key]Basis { return CostBasis(e.Transactions, e.Prices) }

// Positions returns the valuation of every held position.
func (e *Engine) Positions() []Position {
	return Valuate(e.Balances(), e.CostBasis(), e.Prices)
}

// Realized returns the realized profit or loss per owner.
func (e *Engine) Realized() []RealizedLine {
	return realizedLines(RealizedPnL(e.Transactions, e.CostBasis(), e.Prices))
}

// Analysis gathers every report computed by an Engine.
type Analysis struct {
	Positions    []Position
	Owners       []OwnerSummary
	FiatExchange []FiatExchangeStat
	Realized     []RealizedLine
	Fees         []FeeLine
	FeeTotals    []FeeTotal
}

// Analyze runs the whole pipeline once.
func (e *Engine) Analyze() Analysis {
	bases := e.CostBasis()
	positions := Valuate(e.Balances(), bases, e.Prices)
	fees := FeeSummary(e.Transactions, e.Prices)
	return Analysis{
		Positions:    positions,
		Owners:       OwnerSummaries(positions),
		FiatExchange: FiatExchangeStats(e.Transactions),
		Realized:     realizedLines(RealizedPnL(e.Transactions, bases, e.Prices)),
		Fees:         fees,
		FeeTotals:    FeeTotals(fees),
	}
}
