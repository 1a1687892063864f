package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseBook(t *testing.T) {
	data := []byte(`
owners: [alice, bob]
cryptos: [btc, sol]
coingecko_ids:
  sol: solana-wormhole
  TRX: tron
`)
	got, err := ParseBook(data)
	if err != nil {
		t.Fatalf("ParseBook() error = %v", err)
	}
	want := DefaultBook()
	want.Owners = []string{"alice", "bob"}
	want.Cryptos = []string{"BTC", "SOL"}
	want.IDs["SOL"] = "solana-wormhole"
	want.IDs["TRX"] = "tron"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseBook() mismatch (-want +got):\n%s", diff)
	}
	if !got.IsStable("usdt") || !got.IsFiat("IRR") || got.IsFiat("BTC") {
		t.Errorf("IsStable/IsFiat are wrong for %+v", got)
	}
	if diff := cmp.Diff([]string{"USDT", "BTC", "SOL"}, got.Currencies()); diff != "" {
		t.Errorf("Currencies() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBook_Invalid(t *testing.T) {
	if _, err := ParseBook([]byte("owners: {")); err == nil {
		t.Errorf("ParseBook() of invalid yaml succeeded")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	book := filepath.Join(dir, "book.yaml")
	if err := os.WriteFile(book, []byte("owners: [carol]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	content := "CBK_STORE=sqlite\nCBK_LEDGER=" + filepath.Join(dir, "book.db") + "\nCBK_PRICE_REFRESH=1m\nCBK_VERBOSE=true\nCBK_BOOK=" + book + "\n"
	if err := os.WriteFile(env, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"CBK_STORE", "CBK_LEDGER", "CBK_PRICE_REFRESH", "CBK_VERBOSE", "CBK_BOOK"} {
		t.Setenv(k, "") // restored after the test, godotenv does not override set values
		os.Unsetenv(k)
	}

	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Kind != "sqlite" || cfg.Oracle.MinRefresh != time.Minute || !cfg.Verbose || cfg.Oracle.Timeout != 10*time.Second {
		t.Errorf("Load() = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"carol"}, cfg.Book.Owners); diff != "" {
		t.Errorf("Load() owners mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	c := &Config{Store: StoreConfig{Kind: "csv", Path: "x"}}
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() accepted store kind csv")
	}
}
