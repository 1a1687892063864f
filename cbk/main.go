// Command cbk tracks the crypto and fiat transactions of several owners and
// reports their holdings, cost basis, profit or loss and fees.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cryptobook/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell to complete the command line.
	cmd.Completion(commander, flag.CommandLine).Complete(commander.Name())

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
