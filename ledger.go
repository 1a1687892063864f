package cryptobook

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Ledger is an in-memory Store.
//
// Records are kept in insertion order. It is the store used by tests and the
// base of the file store.
type Ledger struct {
	mu      sync.RWMutex
	records []Record
}

// NewLedger creates a ledger holding records.
func NewLedger(records ...Record) *Ledger {
	return &Ledger{records: slices.Clone(records)}
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.records, func(r Record) bool { return r.ID == id })
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// List returns a copy of all the records.
func (l *Ledger) List(context.Context) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.records), nil
}

// Insert appends r.
func (l *Ledger) Insert(_ context.Context, r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", ErrInvalidTransaction)
	}
	if l.index(r.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateID, r.ID)
	}
	l.records = append(l.records, r)
	return nil
}

// Update applies p to the record id.
func (l *Ledger) Update(_ context.Context, id string, p Patch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	l.records[i] = p.Apply(l.records[i])
	return nil
}

// Delete removes the record id.
func (l *Ledger) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	l.records = slices.Delete(l.records, i, i+1)
	return nil
}

var _ Store = (*Ledger)(nil)
