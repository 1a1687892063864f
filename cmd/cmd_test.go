package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/cryptobook"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// run executes the cbk command line args.
func run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("cbk", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "cbk")
	Register(c)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse %v: %v", args, err)
	}
	return c.Execute(context.Background())
}

// setup points the configuration to a fresh ledger and a fake price API.
func setup(t *testing.T) string {
	t.Helper()
	coingecko := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bitcoin":{"usd":60000}}`)
	}))
	t.Cleanup(coingecko.Close)

	ledger := filepath.Join(t.TempDir(), "transactions.jsonl")
	t.Setenv("CBK_STORE", "jsonl")
	t.Setenv("CBK_LEDGER", ledger)
	t.Setenv("CBK_COINGECKO_URL", coingecko.URL)
	t.Setenv("CBK_CACHE_DIR", t.TempDir())
	t.Setenv("CBK_BOOK", "")
	return ledger
}

func list(t *testing.T, ledger string) []cryptobook.Record {
	t.Helper()
	records, err := cryptobook.NewFileStore(ledger).List(context.Background())
	if err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}
	cryptobook.SortRecords(records)
	return records
}

func TestEntryCommands(t *testing.T) {
	ledger := setup(t)

	steps := []struct {
		args []string
		want subcommands.ExitStatus
	}{
		{[]string{"buy-stable", "-o", "hassan", "-d", "2025-10-01", "-id", "f1", "-paid", "5,000,000", "-received", "100"}, subcommands.ExitSuccess},
		{[]string{"buy", "-o", "hassan", "-d", "2025-10-02", "-id", "c1", "-a", "btc", "-paid", "100", "-received", "0.002", "-fee", "0.1"}, subcommands.ExitSuccess},
		{[]string{"sell", "-o", "hassan", "-a", "BTC", "-q", "1", "-for", "60000"}, subcommands.ExitFailure},
		{[]string{"sell", "-o", "nobody", "-a", "BTC", "-q", "0.001", "-for", "60"}, subcommands.ExitUsageError},
		{[]string{"sell", "-o", "hassan", "-a", "BTC", "-q", "abc", "-for", "60"}, subcommands.ExitUsageError},
		{[]string{"transfer", "-o", "hassan", "-a", "BTC", "-sent", "0.001", "-received", "-1"}, subcommands.ExitUsageError},
		{[]string{"swap", "-o", "hassan", "-n", "-from", "BTC", "-give", "0.001", "-to", "ETH", "-get", "0.02"}, subcommands.ExitSuccess},
		{[]string{"transfer", "-o", "hassan", "-d", "2025-10-03", "-id", "t1", "-a", "BTC", "-sent", "0.001", "-received", "0.00099"}, subcommands.ExitSuccess},
	}
	for _, s := range steps {
		if got := run(t, s.args...); got != s.want {
			t.Errorf("cbk %v = %v, want %v", s.args, got, s.want)
		}
	}

	got := list(t, ledger)
	if ids := []string{got[0].ID, got[1].ID, got[2].ID}; len(got) != 3 || !slices.Equal(ids, []string{"t1", "c1", "f1"}) {
		t.Fatalf("ledger = %v, want t1, c1 and f1", got)
	}
	if f1 := got[2]; !f1.Rate.Equal(decimal.NewFromInt(50000)) || f1.InputCurrency != "IRR" || f1.OutputCurrency != "USDT" {
		t.Errorf("buy-stable recorded %+v, want 100 USDT for IRR at 50000", f1)
	}
	if c1 := got[1]; c1.OutputCurrency != "BTC" || !c1.ExplicitFee.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("buy recorded %+v, want BTC with a 0.1 fee", c1)
	}
}

func TestEditAndRm(t *testing.T) {
	ledger := setup(t)
	if got := run(t, "buy-stable", "-o", "abbas", "-id", "f1", "-paid", "5000000", "-received", "100"); got != subcommands.ExitSuccess {
		t.Fatalf("buy-stable = %v", got)
	}

	if got := run(t, "edit", "-m", "from the bank", "-received", "1", "f1"); got != subcommands.ExitUsageError {
		t.Errorf("edit with an unknown flag = %v, want %v", got, subcommands.ExitUsageError)
	}
	if got := run(t, "edit", "f1"); got != subcommands.ExitUsageError {
		t.Errorf("edit without changes = %v, want %v", got, subcommands.ExitUsageError)
	}
	if got := run(t, "edit", "-m", "from the bank", "-out", "99", "f1"); got != subcommands.ExitSuccess {
		t.Errorf("edit = %v, want %v", got, subcommands.ExitSuccess)
	}
	records := list(t, ledger)
	if len(records) != 1 || records[0].Notes != "from the bank" || !records[0].OutputAmount.Equal(cryptobook.Q(99)) {
		t.Errorf("ledger after edit = %+v", records)
	}

	if got := run(t, "rm", "f1", "missing"); got != subcommands.ExitFailure {
		t.Errorf("rm of a missing id = %v, want %v", got, subcommands.ExitFailure)
	}
	if records := list(t, ledger); len(records) != 0 {
		t.Errorf("ledger after rm = %+v, want empty", records)
	}
}

func TestExportImport(t *testing.T) {
	setup(t)
	for _, args := range [][]string{
		{"buy-stable", "-o", "hassan", "-d", "2025-10-01", "-paid", "5000000", "-received", "100"},
		{"buy", "-o", "hassan", "-d", "2025-10-02", "-a", "BTC", "-paid", "100", "-received", "0.002"},
	} {
		if got := run(t, args...); got != subcommands.ExitSuccess {
			t.Fatalf("cbk %v = %v", args, got)
		}
	}
	csvFile := filepath.Join(t.TempDir(), "export.csv")
	if got := run(t, "export", csvFile); got != subcommands.ExitSuccess {
		t.Fatalf("export = %v", got)
	}

	// the crypto purchase is imported after the stable purchase it spends.
	other := setup(t)
	if got := run(t, "import", csvFile); got != subcommands.ExitSuccess {
		t.Fatalf("import = %v", got)
	}
	if got := run(t, "import", csvFile); got != subcommands.ExitFailure {
		t.Errorf("import of the same records = %v, want %v", got, subcommands.ExitFailure)
	}
	if records := list(t, other); len(records) != 2 {
		t.Errorf("imported ledger has %d records, want 2", len(records))
	}
}

func TestReportCommands(t *testing.T) {
	setup(t)
	if got := run(t, "buy-stable", "-o", "hassan", "-paid", "5000000", "-received", "100"); got != subcommands.ExitSuccess {
		t.Fatalf("buy-stable = %v", got)
	}
	for _, args := range [][]string{
		{"history", "-o", "hassan", "-t", "buy_usdt_with_toman"},
		{"balance"},
		{"report", "-refresh"},
		{"dashboard"},
		{"prices", "BTC", "USDT"},
		{"topic", "fees", "guard"},
	} {
		if got := run(t, args...); got != subcommands.ExitSuccess {
			t.Errorf("cbk %v = %v, want %v", args, got, subcommands.ExitSuccess)
		}
	}
	if got := run(t, "topic", "taxes"); got != subcommands.ExitFailure {
		t.Errorf("topic taxes = %v, want %v", got, subcommands.ExitFailure)
	}
	if got := run(t, "history", "-s", "last week"); got != subcommands.ExitUsageError {
		t.Errorf("history with an invalid date = %v, want %v", got, subcommands.ExitUsageError)
	}
}

func TestEditPatch(t *testing.T) {
	c := &editCmd{}
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse([]string{"-m", "hi", "-in", "2.5", "-t", "sell", "x"}); err != nil {
		t.Fatal(err)
	}
	p, err := c.patch(fs)
	if err != nil {
		t.Fatalf("patch() error = %v", err)
	}
	notes, in, typ := "hi", cryptobook.Q(2.5), cryptobook.TypeSale
	want := cryptobook.Patch{Notes: &notes, InputAmount: &in, Type: &typ}
	opt := cmp.Comparer(func(a, b cryptobook.Quantity) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, p, opt); diff != "" {
		t.Errorf("patch() mismatch (-want +got):\n%s", diff)
	}

	if err := fs.Parse([]string{"-d", "yesterday"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.patch(fs); err == nil {
		t.Errorf("patch() with an invalid date succeeded")
	}
}

func TestNumbers(t *testing.T) {
	var n numbers
	if got := n.decimal("fee", " 1,000.5 "); !got.Equal(decimal.RequireFromString("1000.5")) || n.err != nil {
		t.Errorf("decimal(1,000.5) = %v, %v", got, n.err)
	}
	if got := n.decimal("fee", ""); !got.IsZero() || n.err != nil {
		t.Errorf("decimal() = %v, %v", got, n.err)
	}
	var neg numbers
	if neg.decimal("fee", "-0.5"); neg.err == nil {
		t.Errorf("decimal(-0.5) succeeded, want an error")
	}
	n.quantity("q", "abc")
	n.quantity("q", "def")
	if n.err == nil || !strings.HasPrefix(n.err.Error(), `invalid -q "abc"`) {
		t.Errorf("quantity(abc) error = %v", n.err)
	}
}

func TestCompletion(t *testing.T) {
	setup(t)
	global := flag.NewFlagSet("cbk", flag.ContinueOnError)
	global.String("store", "", "")
	global.Bool("v", false, "")
	c := subcommands.NewCommander(global, "cbk")
	c.Register(c.HelpCommand(), "")
	Register(c)

	root := Completion(c, global)
	if _, ok := root.Flags["store"]; !ok {
		t.Errorf("global flags = %v, want store", root.Flags)
	}
	history, ok := root.Sub["history"]
	if !ok {
		t.Fatalf("commands = %v, want history", root.Sub)
	}
	if got := history.Flags["t"].Predict(""); !slices.Contains(got, "sale") {
		t.Errorf("history -t predicts %v, want sale among them", got)
	}
	if got := history.Flags["o"].Predict(""); !slices.Contains(got, "hassan") {
		t.Errorf("history -o predicts %v, want hassan among them", got)
	}
	if got := root.Sub["help"].Args.Predict("bu"); !slices.Equal(got, []string{"buy", "buy-stable"}) && !slices.Equal(got, []string{"buy-stable", "buy"}) {
		t.Errorf("help predicts %v, want buy and buy-stable", got)
	}
}
