package cryptobook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/cryptobook/date"
	"github.com/shopspring/decimal"
)

// TxType identifies the kind of a ledger entry.
type TxType string

// Transaction types.
const (
	TypeFiatPurchase   TxType = "fiat_to_stable_purchase"
	TypeCryptoPurchase TxType = "stable_to_crypto_purchase"
	TypeSale           TxType = "sale"
	TypeTransfer       TxType = "transfer"
	TypeSwap           TxType = "swap"
)

// TxTypes lists every supported type, in display order.
var TxTypes = []TxType{TypeFiatPurchase, TypeCryptoPurchase, TypeSale, TypeTransfer, TypeSwap}

// legacyTypes maps names found in older ledgers to their current type.
var legacyTypes = map[string]TxType{
	"buy_usdt_with_toman":  TypeFiatPurchase,
	"buy_crypto_with_usdt": TypeCryptoPurchase,
	"sell":                 TypeSale,
}

// ParseTxType parses a type name, accepting legacy names.
func ParseTxType(s string) (TxType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range TxTypes {
		if string(t) == s {
			return t, nil
		}
	}
	if t, ok := legacyTypes[s]; ok {
		return t, nil
	}
	return TxType(s), fmt.Errorf("unknown transaction type %q", s)
}

// Label returns the human name of the type.
func (t TxType) Label() string {
	switch t {
	case TypeFiatPurchase:
		return "Buy USDT"
	case TypeCryptoPurchase:
		return "Buy Crypto"
	case TypeSale:
		return "Sell"
	case TypeTransfer:
		return "Transfer"
	case TypeSwap:
		return "Swap"
	default:
		return string(t)
	}
}

// IsPurchase reports whether t buys an asset with fiat or a stable asset.
func (t TxType) IsPurchase() bool { return t == TypeFiatPurchase || t == TypeCryptoPurchase }

// Record is the flat, persisted form of a ledger entry.
//
// Records are what stores read and write. Every field is optional at this
// level: missing numbers are zero, missing dates are the zero date.
type Record struct {
	ID             string
	Type           TxType
	Owner          string
	Date           date.Date
	InputCurrency  string
	OutputCurrency string
	InputAmount    Quantity
	OutputAmount   Quantity
	Rate           decimal.Decimal // fiat units per stable unit
	ExplicitFee    decimal.Decimal // declared fee
	Notes          string
}

// Columns is the persisted field set, in canonical order.
var Columns = []string{
	"id", "type", "owner", "date",
	"input_currency", "output_currency", "input_amount", "output_amount",
	"rate", "explicit_fee", "notes",
}

// Field returns the text form of a column, as written by text based stores.
func (r Record) Field(column string) string {
	switch column {
	case "id":
		return r.ID
	case "type":
		return string(r.Type)
	case "owner":
		return r.Owner
	case "date":
		if r.Date.IsZero() {
			return ""
		}
		return r.Date.String()
	case "input_currency":
		return r.InputCurrency
	case "output_currency":
		return r.OutputCurrency
	case "input_amount":
		return r.InputAmount.String()
	case "output_amount":
		return r.OutputAmount.String()
	case "rate":
		return r.Rate.String()
	case "explicit_fee":
		return r.ExplicitFee.String()
	case "notes":
		return r.Notes
	}
	return ""
}

// Fields returns the text form of all Columns.
func (r Record) Fields() []string {
	fields := make([]string, len(Columns))
	for i, c := range Columns {
		fields[i] = r.Field(c)
	}
	return fields
}

// ParseRecord builds a record from its text columns. It never fails: values
// that cannot be read are coerced to their zero value.
func ParseRecord(get func(column string) string) Record {
	typ, _ := ParseTxType(get("type"))
	rate := parseDecimal(get("rate"))
	fee := parseDecimal(get("explicit_fee"))
	return Record{
		ID:             strings.TrimSpace(get("id")),
		Type:           typ,
		Owner:          strings.TrimSpace(get("owner")),
		Date:           date.ParseLenient(get("date")),
		InputCurrency:  normalizeSymbol(get("input_currency")),
		OutputCurrency: normalizeSymbol(get("output_currency")),
		InputAmount:    ParseQuantity(get("input_amount")),
		OutputAmount:   ParseQuantity(get("output_amount")),
		Rate:           rate,
		ExplicitFee:    fee,
		Notes:          get("notes"),
	}
}

func normalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// MarshalJSON writes the record with its fields in canonical order.
func (r Record) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("id", r.ID)
	w.field("type", r.Type)
	w.field("owner", r.Owner)
	w.field("date", r.Date)
	w.field("input_currency", r.InputCurrency)
	w.field("output_currency", r.OutputCurrency)
	w.field("input_amount", r.InputAmount)
	w.field("output_amount", r.OutputAmount)
	w.omitZero("rate", r.Rate)
	w.omitZero("explicit_fee", r.ExplicitFee)
	w.omitZero("notes", r.Notes)
	return w.bytes()
}

// UnmarshalJSON reads a record leniently: numbers may be JSON numbers or
// strings, and anything malformed is coerced instead of failing.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*r = ParseRecord(func(column string) string {
		switch v := raw[column].(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		default:
			return ""
		}
	})
	return nil
}

// Patch is a partial update of a record. Nil fields are left unchanged.
type Patch struct {
	Type           *TxType          `json:"type,omitempty"`
	Owner          *string          `json:"owner,omitempty"`
	Date           *date.Date       `json:"date,omitempty"`
	InputCurrency  *string          `json:"input_currency,omitempty"`
	OutputCurrency *string          `json:"output_currency,omitempty"`
	InputAmount    *Quantity        `json:"input_amount,omitempty"`
	OutputAmount   *Quantity        `json:"output_amount,omitempty"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	ExplicitFee    *decimal.Decimal `json:"explicit_fee,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// Apply returns a copy of r with the patch applied. The id is never changed.
func (p Patch) Apply(r Record) Record {
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Owner != nil {
		r.Owner = strings.TrimSpace(*p.Owner)
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.InputCurrency != nil {
		r.InputCurrency = normalizeSymbol(*p.InputCurrency)
	}
	if p.OutputCurrency != nil {
		r.OutputCurrency = normalizeSymbol(*p.OutputCurrency)
	}
	if p.InputAmount != nil {
		r.InputAmount = *p.InputAmount
	}
	if p.OutputAmount != nil {
		r.OutputAmount = *p.OutputAmount
	}
	if p.Rate != nil {
		r.Rate = *p.Rate
	}
	if p.ExplicitFee != nil {
		r.ExplicitFee = *p.ExplicitFee
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}

// PatchOf returns the patch replacing every field of a record by those of r.
func PatchOf(r Record) Patch {
	return Patch{
		Type:           &r.Type,
		Owner:          &r.Owner,
		Date:           &r.Date,
		InputCurrency:  &r.InputCurrency,
		OutputCurrency: &r.OutputCurrency,
		InputAmount:    &r.InputAmount,
		OutputAmount:   &r.OutputAmount,
		Rate:           &r.Rate,
		ExplicitFee:    &r.ExplicitFee,
		Notes:          &r.Notes,
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool { return p == Patch{} }
