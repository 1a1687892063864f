package cryptobook

import (
	"errors"
	"fmt"

	"github.com/etnz/cryptobook/date"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedRecord is returned for records that cannot be turned into a Transaction.
	ErrUnsupportedRecord = errors.New("unsupported record")
	// ErrInvalidTransaction is returned when a transaction is not fit to be written.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// Leg is one side of a transaction: an amount of an asset.
type Leg struct {
	Currency string
	Amount   Quantity
}

func (l Leg) String() string { return fmt.Sprintf("%s %s", l.Amount, l.Currency) }

// Transaction defines the common interface of every ledger entry.
//
// A transaction moves Input out of the owner's holdings and Output into them.
type Transaction interface {
	ID() string           // ID returns the unique identifier.
	What() TxType         // What returns the transaction type.
	Who() string          // Who returns the owner.
	When() date.Date      // When returns the date, possibly the zero date.
	Input() Leg           // Input is debited from the owner.
	Output() Leg          // Output is credited to the owner.
	Fee() decimal.Decimal // Fee returns the declared fee, in USD.
	Record() Record       // Record returns the persisted form.
	Validate() error      // Validate checks the transaction can be written.
}

type baseTx struct {
	TxID  string
	Owner string
	Date  date.Date
	Notes string
}

func (t baseTx) ID() string           { return t.TxID }
func (t baseTx) Who() string          { return t.Owner }
func (t baseTx) When() date.Date      { return t.Date }
func (t baseTx) Fee() decimal.Decimal { return decimal.Zero }

func (t baseTx) record(typ TxType) Record {
	return Record{ID: t.TxID, Type: typ, Owner: t.Owner, Date: t.Date, Notes: t.Notes}
}

func (t baseTx) validate() error {
	if t.Owner == "" {
		return fmt.Errorf("%w: owner is missing", ErrInvalidTransaction)
	}
	return nil
}

// exchange is the part shared by transactions giving one asset for another.
type exchange struct {
	baseTx
	In, Out Leg
}

func (t exchange) Input() Leg  { return t.In }
func (t exchange) Output() Leg { return t.Out }

func (t exchange) record(typ TxType) Record {
	r := t.baseTx.record(typ)
	r.InputCurrency, r.InputAmount = t.In.Currency, t.In.Amount
	r.OutputCurrency, r.OutputAmount = t.Out.Currency, t.Out.Amount
	return r
}

func (t exchange) validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if t.In.Currency == "" || t.Out.Currency == "" {
		return fmt.Errorf("%w: currency is missing", ErrInvalidTransaction)
	}
	if t.In.Currency == t.Out.Currency {
		return fmt.Errorf("%w: cannot exchange %s for itself", ErrInvalidTransaction, t.In.Currency)
	}
	if !t.In.Amount.IsPositive() || !t.Out.Amount.IsPositive() {
		return fmt.Errorf("%w: amounts must be positive", ErrInvalidTransaction)
	}
	return nil
}

// validateFee checks a declared fee.
func validateFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return fmt.Errorf("%w: fee %s is negative", ErrInvalidTransaction, fee)
	}
	return nil
}

// FiatPurchase buys a stable asset with fiat money at a stated rate.
type FiatPurchase struct {
	exchange
	Rate decimal.Decimal // fiat units per stable unit
}

func (FiatPurchase) What() TxType { return TypeFiatPurchase }

func (t FiatPurchase) Record() Record {
	r := t.exchange.record(TypeFiatPurchase)
	r.Rate = t.Rate
	return r
}

func (t FiatPurchase) Validate() error {
	if err := t.exchange.validate(); err != nil {
		return err
	}
	if !t.Rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", ErrInvalidTransaction)
	}
	return nil
}

// CryptoPurchase buys a crypto asset with a stable asset.
type CryptoPurchase struct {
	exchange
	ExplicitFee decimal.Decimal
}

func (CryptoPurchase) What() TxType           { return TypeCryptoPurchase }
func (t CryptoPurchase) Fee() decimal.Decimal { return t.ExplicitFee }
func (t CryptoPurchase) Validate() error {
	return errors.Join(t.exchange.validate(), validateFee(t.ExplicitFee))
}
func (t CryptoPurchase) Record() Record {
	r := t.exchange.record(TypeCryptoPurchase)
	r.ExplicitFee = t.ExplicitFee
	return r
}

// Sale sells an asset, usually for a stable asset.
type Sale struct {
	exchange
	ExplicitFee decimal.Decimal
}

func (Sale) What() TxType           { return TypeSale }
func (t Sale) Fee() decimal.Decimal { return t.ExplicitFee }
func (t Sale) Validate() error      { return errors.Join(t.exchange.validate(), validateFee(t.ExplicitFee)) }
func (t Sale) Record() Record {
	r := t.exchange.record(TypeSale)
	r.ExplicitFee = t.ExplicitFee
	return r
}

// Swap exchanges a crypto asset directly for another one.
type Swap struct {
	exchange
	ExplicitFee decimal.Decimal
}

func (Swap) What() TxType           { return TypeSwap }
func (t Swap) Fee() decimal.Decimal { return t.ExplicitFee }
func (t Swap) Validate() error      { return errors.Join(t.exchange.validate(), validateFee(t.ExplicitFee)) }
func (t Swap) Record() Record {
	r := t.exchange.record(TypeSwap)
	r.ExplicitFee = t.ExplicitFee
	return r
}

// Transfer moves an asset, the difference between Sent and Received being
// the network fee.
type Transfer struct {
	baseTx
	Asset    string
	Sent     Quantity
	Received Quantity
}

func (Transfer) What() TxType  { return TypeTransfer }
func (t Transfer) Input() Leg  { return Leg{Currency: t.Asset, Amount: t.Sent} }
func (t Transfer) Output() Leg { return Leg{Currency: t.Asset, Amount: t.Received} }

func (t Transfer) Record() Record {
	r := t.baseTx.record(TypeTransfer)
	r.InputCurrency, r.OutputCurrency = t.Asset, t.Asset
	r.InputAmount, r.OutputAmount = t.Sent, t.Received
	return r
}

func (t Transfer) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if t.Asset == "" {
		return fmt.Errorf("%w: currency is missing", ErrInvalidTransaction)
	}
	if !t.Sent.IsPositive() {
		return fmt.Errorf("%w: sent amount must be positive", ErrInvalidTransaction)
	}
	if t.Received.IsNegative() {
		return fmt.Errorf("%w: received amount %s is negative", ErrInvalidTransaction, t.Received)
	}
	if t.Received.Exceeds(t.Sent) {
		return fmt.Errorf("%w: received %s is more than sent %s", ErrInvalidTransaction, t.Received, t.Sent)
	}
	return nil
}

// FromRecord builds the transaction described by r.
//
// Only an unknown type or a transfer between two different currencies are
// rejected, all other defects were already coerced when reading the record.
func FromRecord(r Record) (Transaction, error) {
	base := baseTx{TxID: r.ID, Owner: r.Owner, Date: r.Date, Notes: r.Notes}
	ex := exchange{
		baseTx: base,
		In:     Leg{Currency: r.InputCurrency, Amount: r.InputAmount},
		Out:    Leg{Currency: r.OutputCurrency, Amount: r.OutputAmount},
	}
	switch r.Type {
	case TypeFiatPurchase:
		return FiatPurchase{exchange: ex, Rate: r.Rate}, nil
	case TypeCryptoPurchase:
		return CryptoPurchase{exchange: ex, ExplicitFee: r.ExplicitFee}, nil
	case TypeSale:
		return Sale{exchange: ex, ExplicitFee: r.ExplicitFee}, nil
	case TypeSwap:
		return Swap{exchange: ex, ExplicitFee: r.ExplicitFee}, nil
	case TypeTransfer:
		if r.InputCurrency != r.OutputCurrency {
			return nil, fmt.Errorf("%w: transfer %q from %s to %s", ErrUnsupportedRecord, r.ID, r.InputCurrency, r.OutputCurrency)
		}
		return Transfer{baseTx: base, Asset: r.InputCurrency, Sent: r.InputAmount, Received: r.OutputAmount}, nil
	default:
		return nil, fmt.Errorf("%w: %q has unknown type %q", ErrUnsupportedRecord, r.ID, r.Type)
	}
}

// FromRecords converts every record it can. Records that cannot be converted
// are skipped and reported in the returned error, next to the valid
// transactions.
func FromRecords(records []Record) ([]Transaction, error) {
	txs := make([]Transaction, 0, len(records))
	var errs []error
	for _, r := range records {
		tx, err := FromRecord(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errors.Join(errs...)
}

func newExchange(id string, on date.Date, owner, inCur string, inAmount float64, outCur string, outAmount float64) exchange {
	return exchange{
		baseTx: baseTx{TxID: id, Owner: owner, Date: on},
		In:     Leg{Currency: inCur, Amount: Q(inAmount)},
		Out:    Leg{Currency: outCur, Amount: Q(outAmount)},
	}
}

// NewFiatPurchase creates a purchase of stable units with fiat units at rate.
func NewFiatPurchase(id string, on date.Date, owner, fiat string, fiatAmount float64, stable string, stableAmount, rate float64) FiatPurchase {
	return FiatPurchase{exchange: newExchange(id, on, owner, fiat, fiatAmount, stable, stableAmount), Rate: decimal.NewFromFloat(rate)}
}

// NewCryptoPurchase creates a purchase of asset paid with a stable asset.
func NewCryptoPurchase(id string, on date.Date, owner, stable string, paid float64, asset string, received, fee float64) CryptoPurchase {
	return CryptoPurchase{exchange: newExchange(id, on, owner, stable, paid, asset, received), ExplicitFee: decimal.NewFromFloat(fee)}
}

// NewSale creates a sale of asset.
func NewSale(id string, on date.Date, owner, asset string, sold float64, proceedsCur string, proceeds, fee float64) Sale {
	return Sale{exchange: newExchange(id, on, owner, asset, sold, proceedsCur, proceeds), ExplicitFee: decimal.NewFromFloat(fee)}
}

// NewSwap creates a swap of one asset for another.
func NewSwap(id string, on date.Date, owner, from string, given float64, to string, received, fee float64) Swap {
	return Swap{exchange: newExchange(id, on, owner, from, given, to, received), ExplicitFee: decimal.NewFromFloat(fee)}
}

// NewTransfer creates a transfer of asset.
func NewTransfer(id string, on date.Date, owner, asset string, sent, received float64) Transfer {
	return Transfer{baseTx: baseTx{TxID: id, Owner: owner, Date: on}, Asset: asset, Sent: Q(sent), Received: Q(received)}
}
