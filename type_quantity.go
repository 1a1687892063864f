package cryptobook

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places used to compare amounts.
const Precision = 8

// dust is the largest absolute quantity still considered empty.
var dust = decimal.New(1, -9)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// parseDecimal reads a number the way users type it ("1,250.5", " 3 ").
// Anything that is not a number reads as zero.
func parseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Quantity is an amount of some asset, in units of that asset.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity reads a quantity. Missing, unparsable and negative values
// read as zero.
func ParseQuantity(s string) Quantity {
	d := parseDecimal(s)
	if d.IsNegative() {
		return Quantity{}
	}
	return Quantity{value: d}
}

func (t Quantity) Equal(p Quantity) bool    { return t.value.Equal(p.value) }
func (t Quantity) Mul(p Quantity) Quantity  { return Quantity{value: t.value.Mul(p.value)} }
func (t Quantity) Add(p Quantity) Quantity  { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity  { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) IsNegative() bool         { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool         { return t.value.IsPositive() }
func (t Quantity) IsZero() bool             { return t.value.IsZero() }
func (t Quantity) Decimal() decimal.Decimal { return t.value }
func (q Quantity) String() string           { return q.value.String() }

// Div divides t by p, a zero p gives a zero Quantity.
func (t Quantity) Div(p Quantity) Quantity {
	if p.value.IsZero() {
		return Quantity{}
	}
	return Quantity{value: t.value.Div(p.value)}
}

// Round8 rounds the quantity to Precision decimal places.
func (t Quantity) Round8() Quantity { return Quantity{value: t.value.Round(Precision)} }

// Exceeds reports whether t is greater than p once both are rounded to
// Precision decimal places.
func (t Quantity) Exceeds(p Quantity) bool {
	return t.value.Round(Precision).GreaterThan(p.value.Round(Precision))
}

// IsHeld reports whether t is a positive quantity above dust.
func (t Quantity) IsHeld() bool { return t.value.GreaterThan(dust) }

// MarshalJSON implements the json.Marshaler interface.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
