package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Simplici0/printdesk/internal/config"
	"github.com/Simplici0/printdesk/internal/quotes"
)

func createQuote(t *testing.T, ts testServer, title, notes string, sel quotes.Selection) quotes.Record {
	t.Helper()

	rr := ts.do(t, http.MethodPost, "/api/quotes", map[string]any{
		"filaments":   []map[string]any{{"grams": 120, "cost_per_kg": 25}},
		"print_hours": 3,
		"quantity":    2,
		"batch_mode":  true,
		"selection":   sel,
		"details":     map[string]any{"title": title, "notes": notes, "customer": "Ana"},
	})
	expectStatus(t, rr, http.StatusCreated)

	var rec quotes.Record
	decodeBody(t, rr, &rec)
	return rec
}

func setCreatedAt(t *testing.T, ts testServer, publicID, createdAt string) {
	t.Helper()
	if _, err := ts.db.Exec(`UPDATE quotes SET created_at = ? WHERE public_id = ?`, createdAt, publicID); err != nil {
		t.Fatalf("set created_at: %v", err)
	}
}

func TestCreateQuoteWithTierSelection(t *testing.T) {
	ts := newTestServer(t, config.Config{Currency: "EUR"})

	rec := createQuote(t, ts, "Planter", "", quotes.Selection{Mode: quotes.ModeTier, TierLabel: "premium"})
	if rec.PublicID == "" || rec.Quantity != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.PricingMode != quotes.ModeTier || rec.TierLabel != "Premium" || rec.MarginPercent != 60 {
		t.Fatalf("unexpected selection fields: %+v", rec)
	}
	if rec.Currency != "EUR" {
		t.Fatalf("currency = %q, want server default EUR", rec.Currency)
	}
	if rec.FinalPrice <= rec.TotalCost || rec.FinalPriceWithVAT <= rec.FinalPrice {
		t.Fatalf("expected price > cost and VAT on top: %+v", rec)
	}
}

func TestCreateQuoteRejectsBadSelection(t *testing.T) {
	ts := newTestServer(t, config.Config{})

	for _, sel := range []quotes.Selection{
		{Mode: quotes.ModeTier, TierLabel: "Bargain"},
		{Mode: quotes.ModeCustom, MarginPercent: 99},
		{Mode: "auction"},
	} {
		rr := ts.do(t, http.MethodPost, "/api/quotes", map[string]any{
			"print_hours": 1,
			"selection":   sel,
		})
		expectStatus(t, rr, http.StatusBadRequest)
	}
}

func TestListQuotesOrdersByDateDesc(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	custom := quotes.Selection{Mode: quotes.ModeCustom, MarginPercent: 40}

	first := createQuote(t, ts, "First", "note one", custom)
	third := createQuote(t, ts, "Third", "note three", custom)
	second := createQuote(t, ts, "Second", "note two", custom)
	setCreatedAt(t, ts, first.PublicID, "2024-01-01 10:00:00")
	setCreatedAt(t, ts, third.PublicID, "2024-01-03 12:00:00")
	setCreatedAt(t, ts, second.PublicID, "2024-01-02 11:00:00")

	rr := ts.do(t, http.MethodGet, "/api/quotes", nil)
	expectStatus(t, rr, http.StatusOK)

	var list []quotes.Record
	decodeBody(t, rr, &list)
	if len(list) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(list))
	}
	if list[0].Title != "Third" || list[1].Title != "Second" || list[2].Title != "First" {
		t.Fatalf("quotes are not sorted desc by created_at: %s, %s, %s", list[0].Title, list[1].Title, list[2].Title)
	}
}

func TestListQuotesFilterByTitleAndNotes(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	custom := quotes.Selection{Mode: quotes.ModeCustom, MarginPercent: 40}

	createQuote(t, ts, "House", "red print", custom)
	createQuote(t, ts, "Keychains", "vip client", custom)
	createQuote(t, ts, "Prototype", "urgent for the house", custom)

	rr := ts.do(t, http.MethodGet, "/api/quotes?q=Keych", nil)
	expectStatus(t, rr, http.StatusOK)
	var byTitle []quotes.Record
	decodeBody(t, rr, &byTitle)
	if len(byTitle) != 1 || byTitle[0].Title != "Keychains" {
		t.Fatalf("expected 1 quote filtered by title, got %+v", byTitle)
	}

	rr = ts.do(t, http.MethodGet, "/api/quotes?q=house", nil)
	expectStatus(t, rr, http.StatusOK)
	var byNotes []quotes.Record
	decodeBody(t, rr, &byNotes)
	if len(byNotes) != 2 {
		t.Fatalf("expected 2 quotes filtered by notes/title, got %d", len(byNotes))
	}
}

func TestGetQuoteReturnsSnapshot(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	rec := createQuote(t, ts, "Planter", "", quotes.Selection{Mode: quotes.ModeTier, TierLabel: "Standard"})

	// Changing the cost model must not alter a saved quote.
	rr := ts.do(t, http.MethodPut, "/api/settings/cost", map[string]any{
		"labor_rate_per_hour":  90,
		"material_efficiency":  2,
		"estimated_life_years": 5,
		"uptime_percent":       70,
		"buffer_factor":        1,
	})
	expectStatus(t, rr, http.StatusOK)

	rr = ts.do(t, http.MethodGet, "/api/quotes/"+rec.PublicID, nil)
	expectStatus(t, rr, http.StatusOK)

	var got struct {
		quotes.Record
		Breakdown struct {
			MaterialCost float64 `json:"material_cost"`
			TotalCost    float64 `json:"total_cost"`
		} `json:"breakdown"`
	}
	decodeBody(t, rr, &got)
	if got.PublicID != rec.PublicID || got.FinalPrice != rec.FinalPrice {
		t.Fatalf("stored quote changed: got %+v, want %+v", got.Record, rec)
	}
	nearlyEqual(t, "snapshot material", got.Breakdown.MaterialCost, 120*0.025*1.05)
	if got.Breakdown.TotalCost <= 0 {
		t.Fatalf("expected snapshot total cost, got %+v", got.Breakdown)
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/api/quotes/does-not-exist", nil), http.StatusNotFound)
}

func TestQuoteTextReturnsPlainText(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	rec := createQuote(t, ts, "Planter", "Matte black", quotes.Selection{Mode: quotes.ModeCustom, MarginPercent: 45})

	rr := ts.do(t, http.MethodGet, "/api/quotes/"+rec.PublicID+"/text?download=1", nil)
	expectStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("expected attachment disposition, got %q", rr.Header().Get("Content-Disposition"))
	}

	body := rr.Body.String()
	for _, expected := range []string{"Quote: Planter", "Reference: " + rec.PublicID, "Customer: Ana", "Custom margin (45% of price)", "Matte black"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, body)
		}
	}
}

func TestDeleteQuote(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	rec := createQuote(t, ts, "Planter", "", quotes.Selection{Mode: quotes.ModeTier, TierLabel: "Standard"})

	expectStatus(t, ts.do(t, http.MethodDelete, "/api/quotes/"+rec.PublicID, nil), http.StatusNoContent)
	expectStatus(t, ts.do(t, http.MethodGet, "/api/quotes/"+rec.PublicID, nil), http.StatusNotFound)
	expectStatus(t, ts.do(t, http.MethodDelete, "/api/quotes/"+rec.PublicID, nil), http.StatusNotFound)
}
