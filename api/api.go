// Package api serves a cryptobook over HTTP as a JSON API.
//
//	GET    /transactions        list records, filtered by owner, type, q, from, to
//	POST   /transactions        record a transaction, balance guarded
//	PATCH  /transactions/{id}   partial update, balance guarded
//	DELETE /transactions/{id}
//	GET    /balances            holdings per owner
//	GET    /report              full analysis, refresh=true forces new prices
//	GET    /dashboard           activity overview
//	GET    /prices              price snapshot of the ledger assets
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/cryptobook"
	"github.com/etnz/cryptobook/date"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// PriceSource gives USD prices of assets. Missing prices are omitted.
type PriceSource interface {
	Prices(ctx context.Context, symbols []string, force bool) cryptobook.Prices
}

// Server handles the API requests.
type Server struct {
	book   *cryptobook.Book
	prices PriceSource
	log    zerolog.Logger
	today  func() date.Date
}

// New returns a server over book, valuing assets with prices.
func New(book *cryptobook.Book, prices PriceSource, logger zerolog.Logger) *Server {
	return &Server{
		book:   book,
		prices: prices,
		log:    logger.With().Str("component", "api").Logger(),
		today:  date.Today,
	}
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.listTransactions)
		r.Post("/", s.createTransaction)
		r.Patch("/{id}", s.updateTransaction)
		r.Delete("/{id}", s.deleteTransaction)
	})
	r.Get("/balances", s.balances)
	r.Get("/report", s.report)
	r.Get("/dashboard", s.dashboard)
	r.Get("/prices", s.priceSnapshot)
	return r
}

// logRequests logs every request once it is served.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, error, description string) {
	writeJSON(w, status, ErrorResponse{Error: error, ErrorDescription: description})
}

// writeError maps the book errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cryptobook.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, cryptobook.ErrDuplicateID):
		writeJSONError(w, http.StatusConflict, "duplicate_id", err.Error())
	case errors.Is(err, cryptobook.ErrInsufficientBalance):
		writeJSONError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	case errors.Is(err, cryptobook.ErrInvalidTransaction):
		writeJSONError(w, http.StatusBadRequest, "invalid_transaction", err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeJSONError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

// engine returns an engine over the current ledger, priced for its assets.
// Unsupported records are logged and returned as warnings.
func (s *Server) engine(ctx context.Context, force bool) (*cryptobook.Engine, []string, error) {
	txs, err := s.book.Transactions(ctx)
	if txs == nil && err != nil {
		return nil, nil, err
	}
	var warnings []string
	if err != nil {
		s.log.Warn().Err(err).Msg("records skipped")
		warnings = []string{err.Error()}
	}
	e := cryptobook.NewEngine(txs, nil)
	if s.prices != nil {
		e.Prices = s.prices.Prices(ctx, e.Assets(), force)
	}
	return e, warnings, nil
}
