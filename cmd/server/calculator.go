package main

import (
	"context"
	"math"
	"net/http"
	"strings"

	"github.com/Simplici0/printdesk/internal/etsy"
	"github.com/Simplici0/printdesk/internal/inventory"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/validate"
)

// quoteRequest is a part description plus an optional one-off cost model.
// Without Settings the stored cost settings are used.
type quoteRequest struct {
	inventory.QuoteRequest
	Settings *pricing.CostModelSettings `json:"settings,omitempty"`
}

type customPriceRequest struct {
	TotalCost     float64  `json:"total_cost"`
	MarginPercent float64  `json:"margin_percent"`
	VATPercent    *float64 `json:"vat_percent,omitempty"`
	Quantity      int      `json:"quantity"`
}

type customPriceResponse struct {
	MarginPercent float64             `json:"margin_percent"`
	VATPercent    float64             `json:"vat_percent"`
	Quantity      int                 `json:"quantity"`
	Batch         pricing.CustomPrice `json:"batch"`
	PerUnit       pricing.CustomPrice `json:"per_unit"`
}

type etsyFeesRequest struct {
	etsy.ListingInput
	Region   string            `json:"region,omitempty"`
	Settings *etsy.FeeSettings `json:"settings,omitempty"`
}

type etsyFeesResponse struct {
	etsy.FeeBreakdown
	Region               string   `json:"region"`
	BreakevenPrice       *float64 `json:"breakeven_price,omitempty"`
	PriceForTargetProfit *float64 `json:"price_for_target_profit,omitempty"`
}

func (s *server) handleCalculatorQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	input, settings, err := s.resolveQuote(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	breakdown := pricing.ComputeCosts(input, settings)
	if !breakdown.Finite() {
		s.respondError(w, r, validate.TooLarge("quote"))
		return
	}
	respondJSON(w, http.StatusOK, breakdown)
}

// resolveQuote turns inventory references into engine input and picks the
// cost model to price with.
func (s *server) resolveQuote(ctx context.Context, req quoteRequest) (pricing.PartQuoteInput, pricing.CostModelSettings, error) {
	input, err := s.resolver.Resolve(ctx, req.QuoteRequest)
	if err != nil {
		return pricing.PartQuoteInput{}, pricing.CostModelSettings{}, err
	}

	if req.Settings != nil {
		return input, *req.Settings, nil
	}
	settings, err := s.rates.GetCostSettings(ctx)
	if err != nil {
		return pricing.PartQuoteInput{}, pricing.CostModelSettings{}, err
	}
	return input, settings, nil
}

func (s *server) handleCustomPrice(w http.ResponseWriter, r *http.Request) {
	var req customPriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := validate.First(
		validate.NonNegative("total_cost", req.TotalCost),
		validate.Range("margin_percent", req.MarginPercent, pricing.MinCustomMargin, pricing.MaxCustomMargin),
	); err != nil {
		s.respondError(w, r, err)
		return
	}

	var vat float64
	if req.VATPercent != nil {
		if err := validate.Percent("vat_percent", *req.VATPercent); err != nil {
			s.respondError(w, r, err)
			return
		}
		vat = *req.VATPercent
	} else {
		settings, err := s.rates.GetCostSettings(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		vat = settings.VATPercent
	}

	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}

	batch := pricing.ComputeCustomPrice(req.TotalCost, req.MarginPercent, vat)
	if !batch.Finite() {
		s.respondError(w, r, validate.TooLarge("total_cost"))
		return
	}
	respondJSON(w, http.StatusOK, customPriceResponse{
		MarginPercent: req.MarginPercent,
		VATPercent:    vat,
		Quantity:      qty,
		Batch:         batch,
		PerUnit:       batch.PerUnit(qty),
	})
}

func (s *server) handleEtsyFees(w http.ResponseWriter, r *http.Request) {
	var req etsyFeesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	schedule, err := s.feeSchedule(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	fees := etsy.ComputeMarketplaceFees(req.ListingInput, schedule)
	if !fees.Finite() {
		s.respondError(w, r, validate.TooLarge("listing"))
		return
	}
	resp := etsyFeesResponse{FeeBreakdown: fees, Region: schedule.Region}
	if price, ok := etsy.FixedPointBreakeven(req.ListingInput, schedule); ok && !math.IsInf(price, 0) && !math.IsNaN(price) {
		resp.BreakevenPrice = &price
	}
	if req.TargetProfit > 0 {
		if price, ok := etsy.PriceForTargetProfit(req.ListingInput, schedule); ok && !math.IsInf(price, 0) && !math.IsNaN(price) {
			resp.PriceForTargetProfit = &price
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// feeSchedule picks explicit settings first, then a named region, then the
// stored Etsy settings.
func (s *server) feeSchedule(ctx context.Context, req etsyFeesRequest) (etsy.FeeSettings, error) {
	if req.Settings != nil {
		return *req.Settings, nil
	}
	if region := strings.TrimSpace(req.Region); region != "" {
		schedule, ok := etsy.Lookup(s.schedules, region)
		if !ok {
			return etsy.FeeSettings{}, &validate.Error{
				Field:   "region",
				Message: "must be one of " + strings.Join(etsy.Regions(s.schedules), ", "),
			}
		}
		return schedule, nil
	}
	return s.rates.GetEtsySettings(ctx)
}

func (s *server) handleEtsyRegions(w http.ResponseWriter, r *http.Request) {
	regions := etsy.Regions(s.schedules)
	out := make([]etsy.FeeSettings, 0, len(regions))
	for _, region := range regions {
		out = append(out, s.schedules[region])
	}
	respondJSON(w, http.StatusOK, out)
}
