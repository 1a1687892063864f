// Package sqlite implements a cryptobook.Store in a SQLite database.
//
// Every column is stored as text, in the same form as the CSV export, so that
// decimal amounts round-trip exactly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/cryptobook"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const createTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL DEFAULT '',
	owner TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	input_currency TEXT NOT NULL DEFAULT '',
	output_currency TEXT NOT NULL DEFAULT '',
	input_amount TEXT NOT NULL DEFAULT '0',
	output_amount TEXT NOT NULL DEFAULT '0',
	rate TEXT NOT NULL DEFAULT '0',
	explicit_fee TEXT NOT NULL DEFAULT '0',
	notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS transactions_owner ON transactions(owner);
`

// Store is a cryptobook.Store in a SQLite database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens, and creates if needed, the database at path.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	// a single connection serializes writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create transactions table: %w", err)
	}
	logger = logger.With().Str("store", "sqlite").Str("path", path).Logger()
	logger.Debug().Msg("database opened")
	return &Store{db: db, log: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

var (
	columns      = strings.Join(cryptobook.Columns, ", ")
	placeholders = strings.TrimSuffix(strings.Repeat("?, ", len(cryptobook.Columns)), ", ")
)

type scanner interface{ Scan(dest ...any) error }

func scanRecord(row scanner) (cryptobook.Record, error) {
	fields := make([]string, len(cryptobook.Columns))
	dest := make([]any, len(fields))
	for i := range fields {
		dest[i] = &fields[i]
	}
	if err := row.Scan(dest...); err != nil {
		return cryptobook.Record{}, err
	}
	index := make(map[string]string, len(fields))
	for i, c := range cryptobook.Columns {
		index[c] = fields[i]
	}
	return cryptobook.ParseRecord(func(column string) string { return index[column] }), nil
}

func args(r cryptobook.Record) []any {
	fields := r.Fields()
	a := make([]any, len(fields))
	for i, f := range fields {
		a[i] = f
	}
	return a
}

// List returns all the records, in insertion order.
func (s *Store) List(ctx context.Context) ([]cryptobook.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM transactions ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()
	var records []cryptobook.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read transaction: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Insert adds r.
func (s *Store) Insert(ctx context.Context, r cryptobook.Record) error {
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", cryptobook.ErrInvalidTransaction)
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE id = ?", r.ID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %q", cryptobook.ErrDuplicateID, r.ID)
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO transactions ("+columns+") VALUES ("+placeholders+")", args(r)...)
		return err
	})
}

// Update applies p to the record id.
func (s *Store) Update(ctx context.Context, id string, p cryptobook.Patch) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		r, err := scanRecord(tx.QueryRowContext(ctx, "SELECT "+columns+" FROM transactions WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %q", cryptobook.ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		r = p.Apply(r)
		sets := make([]string, 0, len(cryptobook.Columns))
		values := make([]any, 0, len(cryptobook.Columns))
		for _, c := range cryptobook.Columns[1:] {
			sets = append(sets, c+" = ?")
			values = append(values, r.Field(c))
		}
		_, err = tx.ExecContext(ctx, "UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id = ?", append(values, id)...)
		return err
	})
}

// Delete removes the record id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", cryptobook.ErrNotFound, id)
	}
	s.log.Debug().Str("id", id).Msg("transaction deleted")
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

var _ cryptobook.Store = (*Store)(nil)
