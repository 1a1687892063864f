package cryptobook

import (
	"cmp"
	"maps"
	"slices"
)

// Key identifies a position: an asset held by an owner.
type Key struct {
	Owner string
	Asset string
}

func (k Key) String() string { return k.Owner + "/" + k.Asset }

// compareKeys orders keys by owner, then asset.
func compareKeys(a, b Key) int {
	return cmp.Or(cmp.Compare(a.Owner, b.Owner), cmp.Compare(a.Asset, b.Asset))
}

// sortedKeys returns the keys of m ordered by owner, then asset.
func sortedKeys[V any](m map[Key]V) []Key {
	return slices.SortedFunc(maps.Keys(m), compareKeys)
}

// movements returns the net quantity moved per position: outputs are
// credited, inputs debited.
func movements(txs []Transaction, skip func(Transaction) bool) map[Key]Quantity {
	net := make(map[Key]Quantity)
	for _, tx := range txs {
		if skip != nil && skip(tx) {
			continue
		}
		out, in := tx.Output(), tx.Input()
		ko := Key{tx.Who(), out.Currency}
		net[ko] = net[ko].Add(out.Amount)
		ki := Key{tx.Who(), in.Currency}
		net[ki] = net[ki].Sub(in.Amount)
	}
	return net
}

// Balances returns the current holdings of every owner. Positions that are
// not above dust (1e-9) are left out.
func Balances(txs []Transaction) map[Key]Quantity {
	net := movements(txs, nil)
	maps.DeleteFunc(net, func(_ Key, q Quantity) bool { return !q.IsHeld() })
	return net
}

// Available returns the quantity of asset owner can spend, ignoring the
// transaction excludeID (when not empty). Unlike Balances, the result is
// neither filtered nor clipped: it may be negative.
func Available(txs []Transaction, owner, asset, excludeID string) Quantity {
	net := movements(txs, func(tx Transaction) bool {
		return tx.Who() != owner || (excludeID != "" && tx.ID() == excludeID)
	})
	return net[Key{owner, asset}]
}

// Holding is one line of a balance sheet.
type Holding struct {
	Owner    string
	Asset    string
	Quantity Quantity
}

// Holdings lists balances ordered by owner, then asset.
func Holdings(balances map[Key]Quantity) []Holding {
	lines := make([]Holding, 0, len(balances))
	for _, k := range sortedKeys(balances) {
		lines = append(lines, Holding{Owner: k.Owner, Asset: k.Asset, Quantity: balances[k]})
	}
	return lines
}
