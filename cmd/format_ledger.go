package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/cryptobook"
	"github.com/google/subcommands"
)

type formatLedgerCmd struct{}

func (*formatLedgerCmd) Name() string     { return "format-ledger" }
func (*formatLedgerCmd) Synopsis() string { return "formats the ledger file into a canonical form" }
func (*formatLedgerCmd) Usage() string {
	return `cbk format-ledger

  Rewrites the JSONL ledger newest first, with fields in canonical order and
  legacy type names replaced. Records without an id are given one.
`
}

func (*formatLedgerCmd) SetFlags(*flag.FlagSet) {}

func (*formatLedgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.Store.Kind != "jsonl" {
		return fail(errors.New("format-ledger only applies to a jsonl store"))
	}
	if err := cryptobook.NewFileStore(cfg.Store.Path).Format(); err != nil {
		return fail(err)
	}
	fmt.Printf("Ledger file '%s' has been formatted.\n", cfg.Store.Path)
	return subcommands.ExitSuccess
}
