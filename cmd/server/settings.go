package main

import (
	"net/http"

	"github.com/Simplici0/printdesk/internal/etsy"
	"github.com/Simplici0/printdesk/internal/pricing"
)

func (s *server) handleGetCostSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.rates.GetCostSettings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *server) handlePutCostSettings(w http.ResponseWriter, r *http.Request) {
	var in pricing.CostModelSettings
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.rates.UpdateCostSettings(r.Context(), in); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.handleGetCostSettings(w, r)
}

func (s *server) handleGetEtsySettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.rates.GetEtsySettings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *server) handlePutEtsySettings(w http.ResponseWriter, r *http.Request) {
	var in etsy.FeeSettings
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.rates.UpdateEtsySettings(r.Context(), in); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.handleGetEtsySettings(w, r)
}
