package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/etnz/cryptobook/renderer"
	"github.com/google/subcommands"
)

type editCmd struct {
	owner, date, typ    string
	inCur, outCur       string
	inAmount, outAmount string
	rate, fee, notes    string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change some fields of a transaction" }
func (*editCmd) Usage() string {
	return `cbk edit [-o <owner>] [-d <date>] [-t <type>] [-in-cur <asset>] [-in <amount>] [-out-cur <asset>] [-out <amount>] [-rate <rate>] [-fee <usd>] [-m <memo>] <id>

  Changes the given fields of the transaction <id>. The edited transaction is
  checked against the balances computed without its previous version.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "o", "", "Owner")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD)")
	f.StringVar(&c.typ, "t", "", "Transaction type")
	f.StringVar(&c.inCur, "in-cur", "", "Asset given")
	f.StringVar(&c.inAmount, "in", "", "Amount given")
	f.StringVar(&c.outCur, "out-cur", "", "Asset received")
	f.StringVar(&c.outAmount, "out", "", "Amount received")
	f.StringVar(&c.rate, "rate", "", "Fiat units per stable unit")
	f.StringVar(&c.fee, "fee", "", "Declared fee in USD")
	f.StringVar(&c.notes, "m", "", "Note")
}

// patch returns the patch of the flags actually set.
func (c *editCmd) patch(f *flag.FlagSet) (cryptobook.Patch, error) {
	var p cryptobook.Patch
	var n numbers
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			p.Owner = &c.owner
		case "d":
			var on date.Date
			if on, err = date.Parse(c.date); err == nil {
				p.Date = &on
			}
		case "t":
			var t cryptobook.TxType
			if t, err = cryptobook.ParseTxType(c.typ); err == nil {
				p.Type = &t
			}
		case "in-cur":
			p.InputCurrency = &c.inCur
		case "out-cur":
			p.OutputCurrency = &c.outCur
		case "in":
			q := n.quantity("in", c.inAmount)
			p.InputAmount = &q
		case "out":
			q := n.quantity("out", c.outAmount)
			p.OutputAmount = &q
		case "rate":
			d := n.decimal("rate", c.rate)
			p.Rate = &d
		case "fee":
			d := n.decimal("fee", c.fee)
			p.ExplicitFee = &d
		case "m":
			p.Notes = &c.notes
		}
	})
	return p, errors.Join(err, n.err)
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	p, err := c.patch(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if p.IsEmpty() {
		fmt.Fprintln(os.Stderr, "Error: nothing to change")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	rec, err := a.book.Update(ctx, f.Arg(0), p)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.History([]cryptobook.Record{rec}))
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `cbk rm <id>...

  Deletes the given transactions. Deletions are not balance guarded.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		if err := a.book.Delete(ctx, id); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("Deleted transaction %s\n", id)
	}
	return status
}
