package cryptobook

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeRecords(t *testing.T) {
	jsonlStream := `
{"id":"1","type":"fiat_to_stable_purchase","owner":"hassan","date":"2025-08-01","input_currency":"IRR","output_currency":"USDT","input_amount":5000000,"output_amount":100,"rate":50000}

{"id":"2","type":"sell","owner":"hassan","date":"not a date","input_currency":"BTC","output_currency":"USDT","input_amount":"0.001","output_amount":30}
`
	records, err := DecodeRecords(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("DecodeRecords() = %d records, want 2", len(records))
	}
	if records[1].Type != TypeSale || !records[1].Date.IsZero() || !records[1].InputAmount.Equal(Q(0.001)) {
		t.Errorf("DecodeRecords() second record = %+v", records[1])
	}

	if _, err := DecodeRecords(strings.NewReader("{\"id\":\"1\"}\nnot json\n")); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("DecodeRecords() of a broken line error = %v, want an error on line 2", err)
	}
}

func TestEncodeRecords(t *testing.T) {
	// unsorted, tx2 and tx3 share a date and keep their order.
	tx1 := record(NewTransfer("1", day(time.August, 1), "P1", "USDT", 1, 1))
	tx2 := record(NewTransfer("2", day(time.August, 3), "P1", "USDT", 2, 2))
	tx3 := record(NewTransfer("3", day(time.August, 3), "P1", "USDT", 3, 3))
	tx4 := Record{ID: "4", Type: TypeTransfer}

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, []Record{tx4, tx1, tx2, tx3}); err != nil {
		t.Fatalf("EncodeRecords() error = %v", err)
	}
	got, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	want := []Record{tx2, tx3, tx1, tx4}
	if diff := cmp.Diff(want, got, numbers); diff != "" {
		t.Errorf("EncodeRecords() round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "transactions.jsonl")
	s := NewFileStore(path)

	// a missing file is an empty store.
	records, err := s.List(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("List() of a new store = %v, %v", records, err)
	}

	r1 := record(NewFiatPurchase("1", day(time.August, 1), "P1", "IRR", 5_000_000, "USDT", 100, 50_000))
	r2 := record(NewCryptoPurchase("2", day(time.August, 2), "P1", "USDT", 50, "BTC", 0.00081234, 0.25))
	for _, r := range []Record{r1, r2} {
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("Insert(%q) error = %v", r.ID, err)
		}
	}
	if err := s.Insert(ctx, r1); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Insert() of a known id error = %v, want %v", err, ErrDuplicateID)
	}

	notes := "edited"
	if err := s.Update(ctx, "1", Patch{Notes: &notes}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := s.Delete(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of an unknown id error = %v, want %v", err, ErrNotFound)
	}

	// a fresh store reads what the first one wrote.
	got, err := NewFileStore(path).List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	r1.Notes = notes
	want := []Record{r2, r1}
	if diff := cmp.Diff(want, got, numbers); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, _ = s.List(ctx)
	if len(got) != 1 {
		t.Errorf("List() after Delete() = %d records, want 1", len(got))
	}

	// no temporary file is left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("store directory has %d entries, want 1", len(entries))
	}
}

func TestFileStore_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.jsonl")
	legacy := `{"type":"buy_usdt_with_toman","owner":"hassan","date":"2025-08-01","input_currency":"irr","output_currency":"usdt","input_amount":5000000,"output_amount":100,"rate":50000}
{"notes":"profit","id":"2","owner":"hassan","type":"sell","date":"2025-08-03","input_currency":"BTC","output_currency":"USDT","input_amount":"0.001","output_amount":30}
`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewFileStore(path).Format(); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("formatted ledger has %d lines, want 2:\n%s", len(lines), data)
	}
	want := `{"id":"2","type":"sale","owner":"hassan","date":"2025-08-03","input_currency":"BTC","output_currency":"USDT","input_amount":0.001,"output_amount":30,"notes":"profit"}`
	if lines[0] != want {
		t.Errorf("first line = %s, want %s", lines[0], want)
	}
	records, err := DecodeRecords(strings.NewReader(lines[1]))
	if err != nil {
		t.Fatal(err)
	}
	if r := records[0]; r.ID == "" || r.Type != TypeFiatPurchase || r.InputCurrency != "IRR" {
		t.Errorf("second record = %+v, want an identified fiat purchase of IRR", r)
	}
}
