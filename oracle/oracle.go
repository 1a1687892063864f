// Package oracle fetches USD prices of crypto assets from CoinGecko.
//
// The oracle never fails: network problems are logged and the last prices
// successfully fetched are returned instead.
package oracle

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/etnz/cryptobook"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultURL is the CoinGecko public API.
const DefaultURL = "https://api.coingecko.com/api/v3"

// Config configures an Oracle.
type Config struct {
	BaseURL    string            // API root, DefaultURL if empty
	IDs        map[string]string // symbol to CoinGecko coin id
	Stable     []string          // symbols always priced 1 USD
	MinRefresh time.Duration     // prices younger than this are not fetched again, unless forced
	Timeout    time.Duration     // bound of a single fetch
	CacheDir   string            // if set, responses are also cached on disk for MinRefresh
	Rate       rate.Limit        // maximum requests per second, unlimited if zero
}

// Default values.
const (
	DefaultMinRefresh = 5 * time.Minute
	DefaultTimeout    = 10 * time.Second
)

// Oracle is a batched, cached and rate-limited price source.
// It is safe for concurrent use.
type Oracle struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	fresh   *cache.Cache // prices younger than MinRefresh
	known   *cache.Cache // last good price of every symbol
	mu      sync.Mutex   // one fetch at a time
	log     zerolog.Logger
}

// New returns an oracle.
func New(cfg Config, logger zerolog.Logger) *Oracle {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.MinRefresh <= 0 {
		cfg.MinRefresh = DefaultMinRefresh
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	ids := make(map[string]string, len(cfg.IDs))
	for sym, id := range cfg.IDs {
		ids[strings.ToUpper(sym)] = id
	}
	cfg.IDs = ids
	stable := make([]string, len(cfg.Stable))
	for i, sym := range cfg.Stable {
		stable[i] = strings.ToUpper(sym)
	}
	cfg.Stable = stable

	limit := cfg.Rate
	if limit <= 0 {
		limit = rate.Inf
	}
	logger = logger.With().Str("component", "oracle").Logger()

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.CacheDir != "" {
		transport = &diskCache{base: transport, dir: cfg.CacheDir, width: cfg.MinRefresh, now: time.Now, log: logger}
	}
	return &Oracle{
		cfg:     cfg,
		client:  &http.Client{Transport: transport},
		limiter: rate.NewLimiter(limit, 1),
		fresh:   cache.New(cfg.MinRefresh, 2*cfg.MinRefresh),
		known:   cache.New(cache.NoExpiration, 0),
		log:     logger,
	}
}

func (o *Oracle) isStable(symbol string) bool { return slices.Contains(o.cfg.Stable, symbol) }

// Prices returns the USD price of symbols.
//
// Stable symbols are always 1. Symbols without a CoinGecko id are left out.
// Prices fetched less than MinRefresh ago are reused unless force is set.
// When the fetch fails, the last known prices are returned, so the result
// may be partial or empty but is never an error.
func (o *Oracle) Prices(ctx context.Context, symbols []string, force bool) cryptobook.Prices {
	prices := make(cryptobook.Prices, len(symbols))
	var missing []string
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		switch {
		case s == "":
		case o.isStable(s):
			prices[s] = decimal.NewFromInt(1)
		case o.cfg.IDs[s] == "":
			o.log.Debug().Str("symbol", s).Msg("no price source")
		default:
			if v, ok := o.fresh.Get(s); ok && !force {
				prices[s] = v.(decimal.Decimal)
				continue
			}
			if !slices.Contains(missing, s) {
				missing = append(missing, s)
			}
		}
	}
	if len(missing) == 0 {
		return prices
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	fetched, err := o.fetch(ctx, missing, force)
	if err != nil {
		o.log.Warn().Err(err).Strs("symbols", missing).Msg("price fetch failed, using last known prices")
	}
	for _, s := range missing {
		if p, ok := fetched[s]; ok {
			o.fresh.SetDefault(s, p)
			o.known.Set(s, p, cache.NoExpiration)
			prices[s] = p
			continue
		}
		if v, ok := o.known.Get(s); ok {
			prices[s] = v.(decimal.Decimal)
		}
	}
	return prices
}
