package cryptobook

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DecodeRecords decodes records from a stream of JSONL data. Empty lines are
// skipped. Fields are read leniently, only lines that are not JSON objects
// are errors.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("line %d: could not decode record %q: %w", line, string(lineBytes), err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return records, nil
}

// EncodeRecord writes a single record as one JSON line.
func EncodeRecord(w io.Writer, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record %q: %w", r.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record %q: %w", r.ID, err)
	}
	return nil
}

// EncodeRecords writes records in JSONL format, newest first.
func EncodeRecords(w io.Writer, records []Record) error {
	sorted := append([]Record(nil), records...)
	SortRecords(sorted)
	for _, r := range sorted {
		if err := EncodeRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}

// FileStore is a Store persisted in a JSONL file.
//
// Every mutation rewrites the whole file through a temporary file renamed
// over the previous one, so that a failed write leaves it untouched.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first write.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// Path returns the file name.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (*Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger %q: %w", s.path, err)
	}
	defer f.Close()
	records, err := DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger %q: %w", s.path, err)
	}
	return NewLedger(records...), nil
}

func (s *FileStore) save(l *Ledger) error {
	records, _ := l.List(context.Background())
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := EncodeRecords(w, records); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace ledger %q: %w", s.path, err)
	}
	return nil
}

// mutate loads the ledger, applies fn and saves the result if fn succeeded.
func (s *FileStore) mutate(fn func(*Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return s.save(l)
}

// List returns all the records in file order.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.load()
	if err != nil {
		return nil, err
	}
	return l.List(ctx)
}

func (s *FileStore) Insert(ctx context.Context, r Record) error {
	return s.mutate(func(l *Ledger) error { return l.Insert(ctx, r) })
}

func (s *FileStore) Update(ctx context.Context, id string, p Patch) error {
	return s.mutate(func(l *Ledger) error { return l.Update(ctx, id, p) })
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	return s.mutate(func(l *Ledger) error { return l.Delete(ctx, id) })
}

// Format rewrites the file in canonical form, newest first. Legacy type
// names are replaced and records without an id are given one.
func (s *FileStore) Format() error {
	return s.mutate(func(l *Ledger) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i := range l.records {
			if l.records[i].ID == "" {
				l.records[i].ID = uuid.NewString()
			}
		}
		return nil
	})
}

var _ Store = (*FileStore)(nil)
