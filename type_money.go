package cryptobook

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD is the reporting currency of every valuation.
const USD = "USD"

// formatters overrides go-money formatting for currencies displayed the way
// their users count them (Iranian rial amounts are read as Toman).
var formatters = map[string]*money.Formatter{
	"IRR": money.NewFormatter(0, ".", ",", "Toman", "1 $"),
}

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// Dollars returns a Money in USD.
func Dollars[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return M(value, USD)
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

func (m Money) formatter() *money.Formatter {
	if f, ok := formatters[m.cur]; ok {
		return f
	}
	if money.GetCurrency(m.cur) == nil {
		// unknown to go-money, display the code after the amount.
		return money.NewFormatter(2, ".", ",", m.cur, "1 $")
	}
	c := m.currency()
	return c.Formatter()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	f := m.formatter()
	dec := m.value.Round(int32(f.Fraction)).Shift(int32(f.Fraction))
	return f.Format(dec.IntPart())
}

// Simple wrapper around decimal.Decimal

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Mul(n Quantity) Money     { return Money{value: m.value.Mul(n.value), cur: m.cur} }

// Div divides by a quantity, giving a price per unit. A zero quantity gives zero.
func (m Money) Div(n Quantity) Money {
	if n.value.IsZero() {
		return Money{cur: m.cur}
	}
	return Money{value: m.value.Div(n.value), cur: m.cur}
}

// Ratio returns m/n, or zero when n is zero.
func (m Money) Ratio(n Money) decimal.Decimal {
	if n.value.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(n.value)
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// MarshalJSON writes {"currency":..,"amount":..}, the amount rounded to the
// currency fraction.
func (m Money) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.omitZero("currency", m.cur)
	w.field("amount", m.value.Round(int32(m.formatter().Fraction)))
	return w.bytes()
}
