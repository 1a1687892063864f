// Package cmd implements the cbk command line application.
//
// Commands open the configured store through a cryptobook.Book, so that every
// write is validated and balance guarded, and print their reports as
// markdown.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/config"
	"github.com/etnz/cryptobook/oracle"
	"github.com/etnz/cryptobook/store/bolt"
	"github.com/etnz/cryptobook/store/sqlite"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyStableCmd{}, "transactions")
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&swapCmd{}, "transactions")
	c.Register(&editCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")
	c.Register(&exportCmd{}, "transactions")
	c.Register(&formatLedgerCmd{}, "transactions")

	c.Register(&historyCmd{}, "reports")
	c.Register(&balanceCmd{}, "reports")
	c.Register(&reportCmd{}, "reports")
	c.Register(&dashboardCmd{}, "reports")
	c.Register(&pricesCmd{}, "reports")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	envFile    = flag.String("config", "", "Path to a .env file setting CBK_* variables (default .env, if present)")
	storeKind  = flag.String("store", "", "Store kind: jsonl, sqlite or bolt (default $CBK_STORE or jsonl)")
	ledgerPath = flag.String("ledger", "", "Path of the transaction store (default $CBK_LEDGER or transactions.jsonl)")
	Verbose    = flag.Bool("v", false, "Verbose logging (default $CBK_VERBOSE)")
)

// loadConfig loads the configuration, global flags overriding the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, err
	}
	if *storeKind != "" {
		cfg.Store.Kind = *storeKind
	}
	if *ledgerPath != "" {
		cfg.Store.Path = *ledgerPath
	}
	if *Verbose {
		cfg.Verbose = true
	}
	return cfg, cfg.Validate()
}

// openStore opens the configured store. The returned function closes it.
func openStore(cfg *config.Config, logger zerolog.Logger) (cryptobook.Store, func() error, error) {
	switch cfg.Store.Kind {
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "bolt":
		s, err := bolt.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return cryptobook.NewFileStore(cfg.Store.Path), func() error { return nil }, nil
	}
}

// app is what a command needs: the configuration, a logger and the book.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	book  *cryptobook.Book
	close func() error
}

// openApp loads the configuration and opens the book.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := newLogger(os.Stderr, cfg.Verbose)
	s, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("store", cfg.Store.Kind).Str("path", cfg.Store.Path).Msg("store opened")
	return &app{cfg: cfg, log: logger, book: cryptobook.NewBook(s), close: closeStore}, nil
}

// Close closes the store.
func (a *app) Close() {
	if err := a.close(); err != nil {
		a.log.Error().Err(err).Msg("failed to close store")
	}
}

func (a *app) oracle() *oracle.Oracle {
	return oracle.New(oracle.Config{
		BaseURL:    a.cfg.Oracle.URL,
		IDs:        a.cfg.Book.IDs,
		Stable:     a.cfg.Book.Stable,
		MinRefresh: a.cfg.Oracle.MinRefresh,
		Timeout:    a.cfg.Oracle.Timeout,
		CacheDir:   a.cfg.Oracle.CacheDir,
	}, a.log)
}

// engine returns an engine over the ledger, priced for its assets.
// Records that are not transactions are skipped with a warning.
func (a *app) engine(ctx context.Context, force bool) (*cryptobook.Engine, error) {
	txs, err := a.book.Transactions(ctx)
	if txs == nil && err != nil {
		return nil, err
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("records skipped")
	}
	e := cryptobook.NewEngine(txs, nil)
	e.Prices = a.oracle().Prices(ctx, e.Assets(), force)
	return e, nil
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
