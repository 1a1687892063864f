package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/config"
	"github.com/etnz/cryptobook/date"
	"github.com/etnz/cryptobook/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// numbers parses decimal flags, keeping the first error.
type numbers struct{ err error }

func (n *numbers) decimal(name, s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err == nil && d.IsNegative() {
		err = errors.New("must not be negative")
	}
	if err != nil && n.err == nil {
		n.err = fmt.Errorf("invalid -%s %q: %w", name, s, err)
	}
	return d
}

func (n *numbers) quantity(name, s string) cryptobook.Quantity {
	return cryptobook.Q(n.decimal(name, s))
}

// symbol returns s in upper case, or def if s is empty.
func symbol(s string, def []string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" && len(def) > 0 {
		return def[0]
	}
	return s
}

// entry holds the flags shared by the commands recording a transaction.
type entry struct {
	owner  string
	date   string
	notes  string
	id     string
	dryRun bool
}

func (e *entry) setFlags(f *flag.FlagSet) {
	f.StringVar(&e.owner, "o", "", "Owner of the transaction")
	f.StringVar(&e.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&e.notes, "m", "", "An optional note")
	f.StringVar(&e.id, "id", "", "Transaction id, generated if empty")
	f.BoolVar(&e.dryRun, "n", false, "Preview the transaction and its fee without recording it")
}

// run builds the record with build, previews its fee and records it.
func (e *entry) run(ctx context.Context, f *flag.FlagSet, build func(b config.Book, n *numbers) cryptobook.Record) subcommands.ExitStatus {
	on, err := date.Parse(e.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	owner := strings.TrimSpace(e.owner)
	if !slices.Contains(a.cfg.Book.Owners, owner) {
		fmt.Fprintf(os.Stderr, "Error: unknown owner %q, want one of %s\n", owner, strings.Join(a.cfg.Book.Owners, ", "))
		return subcommands.ExitUsageError
	}

	var n numbers
	r := build(a.cfg.Book, &n)
	if n.err != nil {
		fmt.Fprintln(os.Stderr, "Error:", n.err)
		return subcommands.ExitUsageError
	}
	r.ID, r.Owner, r.Date, r.Notes = e.id, owner, on, e.notes
	tx, err := cryptobook.FromRecord(r)
	if err == nil {
		err = tx.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	for _, s := range []string{r.InputCurrency, r.OutputCurrency} {
		if !a.cfg.Book.IsFiat(s) && !slices.Contains(a.cfg.Book.Currencies(), s) {
			a.log.Warn().Str("asset", s).Msg("asset is not tracked by the book, it will not be priced")
		}
	}

	prices := a.oracle().Prices(ctx, []string{r.InputCurrency, r.OutputCurrency}, false)
	printMarkdown(renderer.FeePreview(tx, cryptobook.Dollars(cryptobook.NormalizeFee(tx, prices))))
	if e.dryRun {
		return subcommands.ExitSuccess
	}

	rec, err := a.book.Insert(ctx, r)
	if errors.Is(err, cryptobook.ErrInsufficientBalance) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded transaction %s\n", rec.ID)
	return subcommands.ExitSuccess
}

// --- Buy Stable Command ---

type buyStableCmd struct {
	entry
	fiat     string
	paid     string
	stable   string
	received string
	rate     string
}

func (*buyStableCmd) Name() string     { return "buy-stable" }
func (*buyStableCmd) Synopsis() string { return "buy a stable asset with fiat money" }
func (*buyStableCmd) Usage() string {
	return `cbk buy-stable -o <owner> -paid <amount> -received <amount> [-rate <rate>] [-fiat IRR] [-stable USDT] [-d <date>] [-m <memo>]

  Records the purchase of a stable asset with fiat money. The rate is the
  number of fiat units paid per stable unit; it defaults to paid / received.
  Any difference between paid / rate and received is a hidden fee.
`
}

func (c *buyStableCmd) SetFlags(f *flag.FlagSet) {
	c.entry.setFlags(f)
	f.StringVar(&c.fiat, "fiat", "", "Fiat currency paid (default the first fiat of the book)")
	f.StringVar(&c.paid, "paid", "", "Amount of fiat paid")
	f.StringVar(&c.stable, "stable", "", "Stable asset received (default the first stable of the book)")
	f.StringVar(&c.received, "received", "", "Amount of stable asset received")
	f.StringVar(&c.rate, "rate", "", "Fiat units per stable unit")
}

func (c *buyStableCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, f, func(b config.Book, n *numbers) cryptobook.Record {
		r := cryptobook.Record{
			Type:           cryptobook.TypeFiatPurchase,
			InputCurrency:  symbol(c.fiat, b.Fiat),
			InputAmount:    n.quantity("paid", c.paid),
			OutputCurrency: symbol(c.stable, b.Stable),
			OutputAmount:   n.quantity("received", c.received),
			Rate:           n.decimal("rate", c.rate),
		}
		if r.Rate.IsZero() && r.OutputAmount.IsPositive() {
			r.Rate = r.InputAmount.Div(r.OutputAmount).Decimal()
		}
		return r
	})
}

// --- Buy Command ---

type buyCmd struct {
	entry
	stable   string
	paid     string
	asset    string
	received string
	fee      string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy a crypto asset with a stable asset" }
func (*buyCmd) Usage() string {
	return `cbk buy -o <owner> -a <asset> -paid <amount> -received <amount> [-fee <usd>] [-stable USDT] [-d <date>] [-m <memo>]

  Records the purchase of a crypto asset paid with a stable asset. The fee is
  the one declared by the exchange, in USD.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.entry.setFlags(f)
	f.StringVar(&c.asset, "a", "", "Crypto asset bought")
	f.StringVar(&c.paid, "paid", "", "Amount of stable asset paid")
	f.StringVar(&c.stable, "stable", "", "Stable asset paid (default the first stable of the book)")
	f.StringVar(&c.received, "received", "", "Amount of crypto asset received")
	f.StringVar(&c.fee, "fee", "", "Declared fee in USD")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, f, func(b config.Book, n *numbers) cryptobook.Record {
		return cryptobook.Record{
			Type:           cryptobook.TypeCryptoPurchase,
			InputCurrency:  symbol(c.stable, b.Stable),
			InputAmount:    n.quantity("paid", c.paid),
			OutputCurrency: symbol(c.asset, nil),
			OutputAmount:   n.quantity("received", c.received),
			ExplicitFee:    n.decimal("fee", c.fee),
		}
	})
}

// --- Sell Command ---

type sellCmd struct {
	entry
	asset    string
	quantity string
	proceeds string
	to       string
	fee      string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a crypto asset" }
func (*sellCmd) Usage() string {
	return `cbk sell -o <owner> -a <asset> -q <quantity> -for <amount> [-to USDT] [-fee <usd>] [-d <date>] [-m <memo>]

  Records the sale of a crypto asset. The realized profit or loss is the
  proceeds less the average unit cost of the quantity sold.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.entry.setFlags(f)
	f.StringVar(&c.asset, "a", "", "Crypto asset sold")
	f.StringVar(&c.quantity, "q", "", "Quantity sold")
	f.StringVar(&c.proceeds, "for", "", "Amount received")
	f.StringVar(&c.to, "to", "", "Asset received (default the first stable of the book)")
	f.StringVar(&c.fee, "fee", "", "Declared fee in USD")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, f, func(b config.Book, n *numbers) cryptobook.Record {
		return cryptobook.Record{
			Type:           cryptobook.TypeSale,
			InputCurrency:  symbol(c.asset, nil),
			InputAmount:    n.quantity("q", c.quantity),
			OutputCurrency: symbol(c.to, b.Stable),
			OutputAmount:   n.quantity("for", c.proceeds),
			ExplicitFee:    n.decimal("fee", c.fee),
		}
	})
}

// --- Transfer Command ---

type transferCmd struct {
	entry
	asset    string
	sent     string
	received string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move an asset between wallets" }
func (*transferCmd) Usage() string {
	return `cbk transfer -o <owner> -a <asset> -sent <amount> [-received <amount>] [-d <date>] [-m <memo>]

  Records a transfer of an asset between two wallets of the same owner. The
  difference between sent and received is the network fee.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	c.entry.setFlags(f)
	f.StringVar(&c.asset, "a", "", "Asset transferred")
	f.StringVar(&c.sent, "sent", "", "Amount sent")
	f.StringVar(&c.received, "received", "", "Amount received (default the amount sent)")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, f, func(b config.Book, n *numbers) cryptobook.Record {
		received := c.received
		if received == "" {
			received = c.sent
		}
		asset := symbol(c.asset, nil)
		return cryptobook.Record{
			Type:           cryptobook.TypeTransfer,
			InputCurrency:  asset,
			InputAmount:    n.quantity("sent", c.sent),
			OutputCurrency: asset,
			OutputAmount:   n.quantity("received", received),
		}
	})
}

// --- Swap Command ---

type swapCmd struct {
	entry
	from  string
	given string
	to    string
	got   string
	fee   string
}

func (*swapCmd) Name() string     { return "swap" }
func (*swapCmd) Synopsis() string { return "exchange a crypto asset for another" }
func (*swapCmd) Usage() string {
	return `cbk swap -o <owner> -from <asset> -give <amount> -to <asset> -get <amount> [-fee <usd>] [-d <date>] [-m <memo>]

  Records the exchange of a crypto asset for another. The asset given is
  disposed of and the asset received acquired. The fee includes the
  slippage between both legs at current prices.
`
}

func (c *swapCmd) SetFlags(f *flag.FlagSet) {
	c.entry.setFlags(f)
	f.StringVar(&c.from, "from", "", "Asset given")
	f.StringVar(&c.given, "give", "", "Amount given")
	f.StringVar(&c.to, "to", "", "Asset received")
	f.StringVar(&c.got, "get", "", "Amount received")
	f.StringVar(&c.fee, "fee", "", "Declared fee in USD")
}

func (c *swapCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, f, func(b config.Book, n *numbers) cryptobook.Record {
		return cryptobook.Record{
			Type:           cryptobook.TypeSwap,
			InputCurrency:  symbol(c.from, nil),
			InputAmount:    n.quantity("give", c.given),
			OutputCurrency: symbol(c.to, nil),
			OutputAmount:   n.quantity("get", c.got),
			ExplicitFee:    n.decimal("fee", c.fee),
		}
	})
}
