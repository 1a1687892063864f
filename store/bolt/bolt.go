// Package bolt implements a cryptobook.Store in a bbolt database file.
//
// Records are kept in a single bucket, keyed by id, as the same JSON objects
// as the JSONL ledger.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/etnz/cryptobook"
	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// BucketTransactions holds every record.
const BucketTransactions = "transactions"

// Store is a cryptobook.Store in a bbolt database.
type Store struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open opens, and creates if needed, the database at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketTransactions)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketTransactions, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger = logger.With().Str("store", "bolt").Str("path", path).Logger()
	logger.Debug().Msg("database opened")
	return &Store{db: db, log: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func bucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(BucketTransactions))
	if b == nil {
		return nil, fmt.Errorf("bucket %s not found", BucketTransactions)
	}
	return b, nil
}

func put(b *bolt.Bucket, r cryptobook.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record %q: %w", r.ID, err)
	}
	return b.Put([]byte(r.ID), data)
}

// List returns every record, ordered by id.
func (s *Store) List(ctx context.Context) ([]cryptobook.Record, error) {
	var records []cryptobook.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var r cryptobook.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("failed to unmarshal record %q: %w", k, err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) Insert(ctx context.Context, r cryptobook.Record) error {
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", cryptobook.ErrInvalidTransaction)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}
		if b.Get([]byte(r.ID)) != nil {
			return fmt.Errorf("%w: %q", cryptobook.ErrDuplicateID, r.ID)
		}
		return put(b, r)
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("id", r.ID).Msg("record inserted")
	return nil
}

func (s *Store) Update(ctx context.Context, id string, p cryptobook.Patch) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %q", cryptobook.ErrNotFound, id)
		}
		var r cryptobook.Record
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to unmarshal record %q: %w", id, err)
		}
		return put(b, p.Apply(r))
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("id", id).Msg("record updated")
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx)
		if err != nil {
			return err
		}
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %q", cryptobook.ErrNotFound, id)
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	s.log.Debug().Str("id", id).Msg("record deleted")
	return nil
}

var _ cryptobook.Store = (*Store)(nil)
