package api

import (
	"net/http"
	"strconv"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/shopspring/decimal"
)

// Position is a valued position. Money amounts are in USD.
type Position struct {
	Owner          string          `json:"owner"`
	Asset          string          `json:"asset"`
	Quantity       decimal.Decimal `json:"quantity"`
	AvgUnitCost    decimal.Decimal `json:"avg_unit_cost"`
	MarketPrice    decimal.Decimal `json:"market_price"`
	MarketValue    decimal.Decimal `json:"market_value"`
	CostOfHoldings decimal.Decimal `json:"cost_of_holdings"`
	UnrealizedPnL  decimal.Decimal `json:"unrealized_pnl"`
}

// OwnerSummary is the floating profit or loss of an owner.
type OwnerSummary struct {
	Owner       string          `json:"owner"`
	MarketValue decimal.Decimal `json:"market_value"`
	Cost        decimal.Decimal `json:"cost"`
	FloatingPnL decimal.Decimal `json:"floating_pnl"`
	Percent     decimal.Decimal `json:"percent"`
}

// FiatExchangeStat summarizes the purchases of a stable asset with fiat.
// Paid and average cost are in the fiat currency.
type FiatExchangeStat struct {
	Owner               string          `json:"owner"`
	Fiat                string          `json:"fiat"`
	Stable              string          `json:"stable"`
	TotalFiatPaid       decimal.Decimal `json:"total_fiat_paid"`
	TotalStableReceived decimal.Decimal `json:"total_stable_received"`
	AvgCostPerUnit      decimal.Decimal `json:"avg_cost_per_unit"`
	Count               int             `json:"count"`
}

// Realized is the realized profit or loss of an owner, in USD.
type Realized struct {
	Owner       string          `json:"owner"`
	RealizedPnL decimal.Decimal `json:"realized_pnl"`
}

// Fee is the total fee paid by an owner, in USD, for one transaction type
// or, when Type is empty, all types.
type Fee struct {
	Owner  string          `json:"owner"`
	Type   string          `json:"type,omitempty"`
	FeeUSD decimal.Decimal `json:"fee_usd"`
}

// ReportResponse is the body of GET /report.
type ReportResponse struct {
	Date         date.Date          `json:"date"`
	Positions    []Position         `json:"positions"`
	Owners       []OwnerSummary     `json:"owners"`
	FiatExchange []FiatExchangeStat `json:"fiat_exchange"`
	Realized     []Realized         `json:"realized"`
	Fees         []Fee              `json:"fees"`
	FeeTotals    []Fee              `json:"fee_totals"`
	Prices       cryptobook.Prices  `json:"prices"`
	Warnings     []string           `json:"warnings,omitempty"`
}

func newReport(on date.Date, a cryptobook.Analysis, prices cryptobook.Prices) ReportResponse {
	resp := ReportResponse{
		Date:         on,
		Positions:    make([]Position, 0, len(a.Positions)),
		Owners:       make([]OwnerSummary, 0, len(a.Owners)),
		FiatExchange: make([]FiatExchangeStat, 0, len(a.FiatExchange)),
		Realized:     make([]Realized, 0, len(a.Realized)),
		Fees:         make([]Fee, 0, len(a.Fees)),
		FeeTotals:    make([]Fee, 0, len(a.FeeTotals)),
		Prices:       prices,
	}
	for _, p := range a.Positions {
		resp.Positions = append(resp.Positions, Position{
			Owner:          p.Owner,
			Asset:          p.Asset,
			Quantity:       p.Quantity.Decimal(),
			AvgUnitCost:    p.AvgUnitCost.Decimal(),
			MarketPrice:    p.MarketPrice.Decimal(),
			MarketValue:    p.MarketValue.Decimal(),
			CostOfHoldings: p.CostOfHoldings.Decimal(),
			UnrealizedPnL:  p.UnrealizedPnL.Decimal(),
		})
	}
	for _, o := range a.Owners {
		resp.Owners = append(resp.Owners, OwnerSummary{
			Owner:       o.Owner,
			MarketValue: o.MarketValue.Decimal(),
			Cost:        o.Cost.Decimal(),
			FloatingPnL: o.FloatingPnL.Decimal(),
			Percent:     o.Percent,
		})
	}
	for _, s := range a.FiatExchange {
		resp.FiatExchange = append(resp.FiatExchange, FiatExchangeStat{
			Owner:               s.Owner,
			Fiat:                s.Fiat,
			Stable:              s.Stable,
			TotalFiatPaid:       s.TotalFiatPaid.Decimal(),
			TotalStableReceived: s.TotalStableReceived.Decimal(),
			AvgCostPerUnit:      s.AvgCostPerUnit.Decimal(),
			Count:               s.Count,
		})
	}
	for _, r := range a.Realized {
		resp.Realized = append(resp.Realized, Realized{Owner: r.Owner, RealizedPnL: r.RealizedPnL.Decimal()})
	}
	for _, f := range a.Fees {
		resp.Fees = append(resp.Fees, Fee{Owner: f.Owner, Type: string(f.Type), FeeUSD: f.Fee.Decimal()})
	}
	for _, f := range a.FeeTotals {
		resp.FeeTotals = append(resp.FeeTotals, Fee{Owner: f.Owner, FeeUSD: f.Fee.Decimal()})
	}
	return resp
}

// report handles GET /report.
func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	e, warnings, err := s.engine(r.Context(), force)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := newReport(s.today(), e.Analyze(), e.Prices)
	resp.Warnings = warnings
	writeJSON(w, http.StatusOK, resp)
}

// Balance is the quantity of an asset held by an owner.
type Balance struct {
	Owner    string          `json:"owner"`
	Asset    string          `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
}

// BalancesResponse is the body of GET /balances.
type BalancesResponse struct {
	Balances []Balance `json:"balances"`
}

// balances handles GET /balances. No price is needed.
func (s *Server) balances(w http.ResponseWriter, r *http.Request) {
	txs, err := s.book.Transactions(r.Context())
	if txs == nil && err != nil {
		s.writeError(w, err)
		return
	}
	owner := r.URL.Query().Get("owner")
	resp := BalancesResponse{Balances: []Balance{}}
	for _, h := range cryptobook.Holdings(cryptobook.Balances(txs)) {
		if owner != "" && h.Owner != owner {
			continue
		}
		resp.Balances = append(resp.Balances, Balance{Owner: h.Owner, Asset: h.Asset, Quantity: h.Quantity.Decimal()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// DashboardResponse is the body of GET /dashboard.
type DashboardResponse struct {
	Total     int           `json:"total"`
	Purchases int           `json:"purchases"`
	Sales     int           `json:"sales"`
	Owners    int           `json:"owners"`
	Recent    []DayActivity `json:"recent"`
}

// DayActivity counts the transactions of a day per type.
type DayActivity struct {
	Date   date.Date      `json:"date"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// dashboard handles GET /dashboard.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	records, err := s.book.Records(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	d := cryptobook.NewDashboard(records, s.today())
	resp := DashboardResponse{Total: d.Total, Purchases: d.Purchases, Sales: d.Sales, Owners: d.Owners}
	for _, day := range d.Recent {
		counts := make(map[string]int, len(day.Counts))
		for t, n := range day.Counts {
			counts[string(t)] = n
		}
		resp.Recent = append(resp.Recent, DayActivity{Date: day.Date, Counts: counts, Total: day.Total()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// priceSnapshot handles GET /prices.
func (s *Server) priceSnapshot(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	e, _, err := s.engine(r.Context(), force)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Prices)
}
