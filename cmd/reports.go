package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/etnz/cryptobook/renderer"
	"github.com/google/subcommands"
)

// --- Balance Command ---

type balanceCmd struct {
	owner string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the holdings of every owner" }
func (*balanceCmd) Usage() string {
	return `cbk balance [-o <owner>]

  Shows the quantity of every asset held by every owner. No price is
  fetched.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "o", "", "Only the holdings of this owner")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	txs, err := a.book.Transactions(ctx)
	if txs == nil && err != nil {
		return fail(err)
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("records skipped")
	}
	var lines []cryptobook.Holding
	for _, h := range cryptobook.Holdings(cryptobook.Balances(txs)) {
		if c.owner == "" || strings.EqualFold(c.owner, h.Owner) {
			lines = append(lines, h)
		}
	}
	printMarkdown(renderer.Balances(lines))
	return subcommands.ExitSuccess
}

// --- Report Command ---

type reportCmd struct {
	refresh bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "analyze the ledger at current prices" }
func (*reportCmd) Usage() string {
	return `cbk report [-refresh]

  Shows the positions of every owner valued at current prices, with their
  average cost basis and floating profit or loss, the realized profit or
  loss, the fiat exchange statistics and the fees paid.

  Prices are fetched at most once per refresh interval, unless -refresh is
  set.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Fetch prices even if they are recent")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	e, err := a.engine(ctx, c.refresh)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Report(e.Analyze(), date.Today()))
	return subcommands.ExitSuccess
}

// --- Dashboard Command ---

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the ledger activity" }
func (*dashboardCmd) Usage() string {
	return `cbk dashboard

  Shows the number of transactions, purchases, sales and owners, and the
  transactions of the last 7 days per type.
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	records, err := a.book.Records(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Dashboard(cryptobook.NewDashboard(records, date.Today())))
	return subcommands.ExitSuccess
}

// --- Prices Command ---

type pricesCmd struct {
	refresh bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "show current USD prices" }
func (*pricesCmd) Usage() string {
	return `cbk prices [-refresh] [<symbol>...]

  Shows the USD price of the given symbols, or of every asset of the book.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Fetch prices even if they are recent")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	symbols := f.Args()
	if len(symbols) == 0 {
		symbols = a.cfg.Book.Currencies()
	}
	printMarkdown(renderer.Prices(a.oracle().Prices(ctx, symbols, c.refresh)))
	return subcommands.ExitSuccess
}
