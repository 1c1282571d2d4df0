package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/quotes"
)

// createQuoteRequest prices a part and saves it with the chosen selection.
type createQuoteRequest struct {
	quoteRequest
	Selection quotes.Selection `json:"selection"`
	Details   quotes.Details   `json:"details"`
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	list, err := s.quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *server) handleQuotesCreate(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	input, settings, err := s.resolveQuote(r.Context(), req.quoteRequest)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	details := req.Details
	if details.Currency == "" {
		details.Currency = s.cfg.Currency
	}

	rec, err := quotes.FromBreakdown(pricing.ComputeCosts(input, settings), settings, req.Selection, details)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	saved, err := s.quotes.Create(r.Context(), rec)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	breakdown, err := rec.Breakdown()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		quotes.Record
		Breakdown pricing.CostBreakdown `json:"breakdown"`
	}{rec, breakdown})
}

func (s *server) handleQuoteDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.quotes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	rec, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	name := "quote-" + rec.PublicID
	if len(rec.PublicID) > 8 {
		name = "quote-" + rec.PublicID[:8]
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.txt"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.TrimRight(quotes.RenderText(rec), "\n") + "\n"))
}
