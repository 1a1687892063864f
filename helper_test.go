package cryptobook

import (
	"time"

	"github.com/etnz/cryptobook/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// day is a helper for test to create a date in 2025.
func day(month time.Month, d int) date.Date { return date.New(2025, month, d) }

// D is a helper for test to create a decimal from a string constant.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// numbers compares decimals, quantities and money by value.
var numbers = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Money) bool { return a.Decimal().Equal(b.Decimal()) && a.Currency() == b.Currency() }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}
