package cryptobook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrInsufficientBalance is returned when a write would spend more than the
// owner holds.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Book is the write path over a Store: every insert and update is validated
// and checked against the owner's available balance before the store is
// touched.
//
// A Book serializes its own writes; the store must not be written by anyone
// else at the same time.
type Book struct {
	mu    sync.Mutex
	store Store
}

// NewBook returns a book writing to s.
func NewBook(s Store) *Book { return &Book{store: s} }

// Store returns the underlying store.
func (b *Book) Store() Store { return b.store }

// Records returns all the records, newest first.
func (b *Book) Records(ctx context.Context) ([]Record, error) {
	records, err := b.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list transactions: %w", err)
	}
	SortRecords(records)
	return records, nil
}

// Transactions returns every transaction of the store. Records that are not
// transactions are skipped and reported by the error wrapping
// ErrUnsupportedRecord, the returned transactions remain usable.
func (b *Book) Transactions(ctx context.Context) ([]Transaction, error) {
	records, err := b.Records(ctx)
	if err != nil {
		return nil, err
	}
	return FromRecords(records)
}

// Engine returns an engine over the current transactions at prices.
// Unsupported records are reported as in Transactions.
func (b *Book) Engine(ctx context.Context, prices Prices) (*Engine, error) {
	txs, err := b.Transactions(ctx)
	if txs == nil && err != nil {
		return nil, err
	}
	return NewEngine(txs, prices), err
}

// CheckBalance returns an error wrapping ErrInsufficientBalance if tx spends
// more than its owner holds in txs, ignoring the transaction excludeID.
//
// Fiat purchases are never checked: fiat comes from outside the ledger.
// Amounts are compared at Precision decimal places.
func CheckBalance(txs []Transaction, tx Transaction, excludeID string) error {
	if tx.What() == TypeFiatPurchase {
		return nil
	}
	in := tx.Input()
	available := Available(txs, tx.Who(), in.Currency, excludeID)
	if in.Amount.Exceeds(available) {
		return fmt.Errorf("%w: %s holds %s %s, cannot spend %s", ErrInsufficientBalance, tx.Who(), available.Round8(), in.Currency, in.Amount)
	}
	return nil
}

// guard validates tx and checks it against the current balances.
func (b *Book) guard(ctx context.Context, tx Transaction, excludeID string) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	txs, err := b.Transactions(ctx)
	if txs == nil && err != nil {
		return err
	}
	return CheckBalance(txs, tx, excludeID)
}

// Insert validates r and persists it. An id is generated when r has none.
// It returns the record as stored.
func (b *Book) Insert(ctx context.Context, r Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	tx, err := FromRecord(r)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	if err := b.guard(ctx, tx, ""); err != nil {
		return Record{}, err
	}
	r = tx.Record()
	if err := b.store.Insert(ctx, r); err != nil {
		return Record{}, fmt.Errorf("could not insert transaction: %w", err)
	}
	return r, nil
}

// Update applies p to the record id, validating the result with the record's
// own previous contribution to the balances excluded. Legacy type names are
// accepted. It returns the record as stored.
func (b *Book) Update(ctx context.Context, id string, p Patch) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, err := b.find(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if p.Type != nil {
		if t, err := ParseTxType(string(*p.Type)); err == nil {
			p.Type = &t
		}
	}
	tx, err := FromRecord(p.Apply(r))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	if err := b.guard(ctx, tx, id); err != nil {
		return Record{}, err
	}
	updated := tx.Record()
	if err := b.store.Update(ctx, id, PatchOf(updated)); err != nil {
		return Record{}, fmt.Errorf("could not update transaction: %w", err)
	}
	return updated, nil
}

// Delete removes the record id.
func (b *Book) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("could not delete transaction: %w", err)
	}
	return nil
}

// Get returns the record id.
func (b *Book) Get(ctx context.Context, id string) (Record, error) {
	return b.find(ctx, id)
}

func (b *Book) find(ctx context.Context, id string) (Record, error) {
	records, err := b.store.List(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("could not list transactions: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}
