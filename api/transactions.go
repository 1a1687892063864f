package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// TransactionsResponse is the body of GET /transactions.
type TransactionsResponse struct {
	Transactions []cryptobook.Record `json:"transactions"`
}

// TransactionResponse is the body of a successful write.
type TransactionResponse struct {
	Transaction cryptobook.Record `json:"transaction"`
	FeeUSD      decimal.Decimal   `json:"fee_usd"`
}

// filter reads the history filter from the query.
func filter(r *http.Request) (cryptobook.Filter, error) {
	q := r.URL.Query()
	f := cryptobook.Filter{
		Owner:  q.Get("owner"),
		Search: q.Get("q"),
	}
	if t := q.Get("type"); t != "" {
		typ, err := cryptobook.ParseTxType(t)
		if err != nil {
			return f, err
		}
		f.Type = typ
	}
	for _, bound := range []struct {
		name string
		d    *date.Date
	}{{"from", &f.Range.From}, {"to", &f.Range.To}} {
		if s := q.Get(bound.name); s != "" {
			d, err := date.Parse(s)
			if err != nil {
				return f, err
			}
			*bound.d = d
		}
	}
	return f, nil
}

// listTransactions handles GET /transactions.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := filter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	records, err := s.book.Records(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	selected := cryptobook.History(records, f)
	if selected == nil {
		selected = []cryptobook.Record{}
	}
	writeJSON(w, http.StatusOK, TransactionsResponse{Transactions: selected})
}

// fee returns the normalized fee of r, priced for its two legs.
func (s *Server) fee(r *http.Request, rec cryptobook.Record) decimal.Decimal {
	tx, err := cryptobook.FromRecord(rec)
	if err != nil {
		return decimal.Zero
	}
	var prices cryptobook.Prices
	if s.prices != nil {
		prices = s.prices.Prices(r.Context(), []string{rec.InputCurrency, rec.OutputCurrency}, false)
	}
	return cryptobook.NormalizeFee(tx, prices)
}

// createTransaction handles POST /transactions.
func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var rec cryptobook.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	rec, err := s.book.Insert(r.Context(), rec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info().Str("id", rec.ID).Str("type", string(rec.Type)).Str("owner", rec.Owner).Msg("transaction recorded")
	writeJSON(w, http.StatusCreated, TransactionResponse{Transaction: rec, FeeUSD: s.fee(r, rec)})
}

// updateTransaction handles PATCH /transactions/{id}.
func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var p cryptobook.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	rec, err := s.book.Update(r.Context(), id, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info().Str("id", id).Msg("transaction updated")
	writeJSON(w, http.StatusOK, TransactionResponse{Transaction: rec, FeeUSD: s.fee(r, rec)})
}

// deleteTransaction handles DELETE /transactions/{id}.
func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.book.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info().Str("id", id).Msg("transaction deleted")
	w.WriteHeader(http.StatusNoContent)
}
