// Package storetest checks implementations of cryptobook.Store.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var numbers = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b cryptobook.Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// Records returns sample records, one of each type plus a malformed one.
func Records() []cryptobook.Record {
	on := func(d int) date.Date { return date.New(2025, time.October, d) }
	return []cryptobook.Record{
		cryptobook.NewFiatPurchase("a1", on(1), "hassan", "IRR", 12_345_678, "USDT", 246.91356, 50_000).Record(),
		cryptobook.NewCryptoPurchase("a2", on(2), "hassan", "USDT", 100, "BTC", 0.00151234, 0.15).Record(),
		cryptobook.NewSale("a3", on(3), "hassan", "BTC", 0.0005, "USDT", 35.5, 0).Record(),
		cryptobook.NewTransfer("a4", on(4), "abbas", "USDT", 20, 19.12345678).Record(),
		cryptobook.NewSwap("a5", on(5), "abbas", "ETH", 0.1, "SOL", 1.87654321, 0.2).Record(),
		{ID: "a6", Type: "gift", Notes: "kept as is, ignored by the engine"},
	}
}

// Run checks that the stores returned by open behave as a cryptobook.Store.
// Each call to open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) cryptobook.Store) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		s := open(t)
		want := Records()
		for _, r := range want {
			if err := s.Insert(ctx, r); err != nil {
				t.Fatalf("Insert(%q) error = %v", r.ID, err)
			}
		}
		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		cryptobook.SortRecords(want)
		cryptobook.SortRecords(got)
		if diff := cmp.Diff(want, got, numbers); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := open(t)
		r := Records()[0]
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Insert(ctx, r); !errors.Is(err, cryptobook.ErrDuplicateID) {
			t.Errorf("second Insert() error = %v, want %v", err, cryptobook.ErrDuplicateID)
		}
	})

	t.Run("update", func(t *testing.T) {
		s := open(t)
		r := Records()[1]
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		amount := cryptobook.ParseQuantity("0.00200001")
		notes := "corrected"
		if err := s.Update(ctx, r.ID, cryptobook.Patch{OutputAmount: &amount, Notes: &notes}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		r.OutputAmount, r.Notes = amount, notes
		if diff := cmp.Diff([]cryptobook.Record{r}, got, numbers); diff != "" {
			t.Errorf("List() after Update() mismatch (-want +got):\n%s", diff)
		}
		if err := s.Update(ctx, "missing", cryptobook.Patch{Notes: &notes}); !errors.Is(err, cryptobook.ErrNotFound) {
			t.Errorf("Update() of an unknown id error = %v, want %v", err, cryptobook.ErrNotFound)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		for _, r := range Records()[:2] {
			if err := s.Insert(ctx, r); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
		}
		if err := s.Delete(ctx, "a1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete(ctx, "a1"); !errors.Is(err, cryptobook.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want %v", err, cryptobook.ErrNotFound)
		}
		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "a2" {
			t.Errorf("List() after Delete() = %v", got)
		}
	})
}
