package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/etnz/cryptobook"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// --- Import Command ---

type importCmd struct {
	force bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV file" }
func (*importCmd) Usage() string {
	return `cbk import [-force] <file.csv>

  Imports the transactions of a CSV file with a header line. Columns may come
  in any order; the legacy column names person_name, transaction_type,
  transaction_date and fee are accepted.

  Transactions are recorded oldest first, each one validated and balance
  guarded like a manual entry. With -force they are written as they are.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Write records without validation nor balance check")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer file.Close()
	records, err := cryptobook.DecodeCSV(file)
	if err != nil {
		return fail(err)
	}

	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	cryptobook.SortRecords(records)
	slices.Reverse(records)
	imported := 0
	for i, r := range records {
		if c.force {
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			err = a.book.Store().Insert(ctx, r)
		} else {
			_, err = a.book.Insert(ctx, r)
		}
		if err != nil {
			a.log.Warn().Err(err).Int("row", i+1).Str("id", r.ID).Msg("record not imported")
			continue
		}
		imported++
	}
	fmt.Printf("Imported %d of %d transactions\n", imported, len(records))
	if imported < len(records) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Export Command ---

type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions to CSV" }
func (*exportCmd) Usage() string {
	return `cbk export [<file.csv>]

  Writes every transaction, newest first, as CSV to the given file or to the
  standard output.
`
}

func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (*exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	records, err := a.book.Records(ctx)
	if err != nil {
		return fail(err)
	}

	var w io.Writer = os.Stdout
	if f.NArg() > 0 {
		file, err := os.Create(f.Arg(0))
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		w = file
	}
	bw := bufio.NewWriter(w)
	if err := cryptobook.EncodeCSV(bw, records); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
