package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/cryptobook/api"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger as a JSON API" }
func (*serveCmd) Usage() string {
	return `cbk serve [-addr <host:port>]

  Serves the ledger over HTTP until interrupted:

    GET    /transactions
    POST   /transactions
    PATCH  /transactions/{id}
    DELETE /transactions/{id}
    GET    /balances
    GET    /report
    GET    /dashboard
    GET    /prices
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (default $CBK_ADDR or localhost:8080)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()
	if !a.cfg.Verbose {
		// requests are logged at info level.
		a.log = a.log.Level(zerolog.InfoLevel)
	}

	addr := a.cfg.Addr
	if c.addr != "" {
		addr = c.addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.New(a.book, a.oracle(), a.log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	a.log.Info().Str("addr", addr).Msg("server started")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail(err)
		}
	case <-ctx.Done():
		a.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}
