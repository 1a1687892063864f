package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/etnz/cryptobook/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	owner  string
	typ    string
	search string
	start  string
	end    string
	head   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list transactions, newest first" }
func (*historyCmd) Usage() string {
	return `cbk history [-o <owner>] [-t <type>] [-q <term>] [-s <start_date>] [-e <end_date>] [-head <n>]

  Lists the transactions of the ledger, newest first. The search term is
  matched, ignoring case, against notes and currencies.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "o", "", "Only the transactions of this owner")
	f.StringVar(&c.typ, "t", "", "Only the transactions of this type")
	f.StringVar(&c.search, "q", "", "Only the transactions matching this term")
	f.StringVar(&c.start, "s", "", "Start date (YYYY-MM-DD), included")
	f.StringVar(&c.end, "e", "", "End date (YYYY-MM-DD), included")
	f.IntVar(&c.head, "head", 0, "Show only the N newest transactions")
}

// filter returns the history filter of the flags.
func (c *historyCmd) filter() (cryptobook.Filter, error) {
	f := cryptobook.Filter{Owner: c.owner, Search: c.search}
	if c.typ != "" {
		t, err := cryptobook.ParseTxType(c.typ)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	var err error
	if c.start != "" {
		if f.Range.From, err = date.Parse(c.start); err != nil {
			return f, err
		}
	}
	if c.end != "" {
		if f.Range.To, err = date.Parse(c.end); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	records, err := a.book.Records(ctx)
	if err != nil {
		return fail(err)
	}
	selected := cryptobook.History(records, filter)
	if c.head > 0 && len(selected) > c.head {
		selected = selected[:c.head]
	}
	printMarkdown(renderer.History(selected))
	return subcommands.ExitSuccess
}
