package cryptobook

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicateID is returned when inserting a record whose id is already used.
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// Store is a durable collection of records, keyed by id.
//
// Implementations must be safe for concurrent use. Update and Delete return
// ErrNotFound for unknown ids, Insert returns ErrDuplicateID for known ones.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, r Record) error
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
}

// SortRecords orders records newest first. Records without a date come last,
// ties keep their order.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		switch {
		case a.Date == b.Date:
			return 0
		case a.Date.IsZero():
			return 1
		case b.Date.IsZero():
			return -1
		case a.Date.After(b.Date):
			return -1
		default:
			return 1
		}
	})
}
