package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
fetch reads prices from the simple price endpoint:

	GET /simple/price?ids=bitcoin,ethereum&vs_currencies=usd

	{
	    "bitcoin": {"usd": 67187.34},
	    "ethereum": {"usd": 3456.1}
	}

Coins unknown to CoinGecko are simply missing from the answer.
*/
func (o *Oracle) fetch(ctx context.Context, symbols []string, force bool) (map[string]decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limited: %w", err)
	}

	ids := make([]string, 0, len(symbols))
	for _, s := range symbols {
		ids = append(ids, o.cfg.IDs[s])
	}
	addr := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", strings.TrimSuffix(o.cfg.BaseURL, "/"), url.QueryEscape(strings.Join(ids, ",")))

	var jobj any
	if err := jwget(ctx, o.client, addr, force, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching prices: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(symbols))
	var errs []error
	for _, s := range symbols {
		path := fmt.Sprintf("$[%q].usd", o.cfg.IDs[s])
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			errs = append(errs, fmt.Errorf("no price for %s: %w", s, err))
			continue
		}
		// jsonpath may wrap a single answer in a list.
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		val, ok := jval.(float64)
		if !ok || val <= 0 {
			errs = append(errs, fmt.Errorf("no price for %s: invalid value %v", s, jval))
			continue
		}
		prices[s] = decimal.NewFromFloat(val)
	}
	return prices, errors.Join(errs...)
}
