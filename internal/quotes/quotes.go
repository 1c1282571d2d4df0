// Package quotes turns a cost breakdown and a chosen price into a saved quote.
package quotes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/printdesk/internal/money"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/validate"
)

// Mode records how the final price was chosen.
type Mode string

const (
	ModeTier   Mode = "tier"
	ModeCustom Mode = "custom"
)

// Selection is the user's pricing choice: a preset tier by label, or a
// custom margin-on-price.
type Selection struct {
	Mode          Mode    `json:"mode"`
	TierLabel     string  `json:"tier_label,omitempty"`
	MarginPercent float64 `json:"margin_percent,omitempty"`
}

// Record is a saved quote. Money fields are rounded to two decimals. The
// breakdown and settings used at save time are kept as JSON snapshots so a
// stored quote never needs recalculating.
type Record struct {
	ID                int64   `json:"-" db:"id"`
	PublicID          string  `json:"id" db:"public_id"`
	CreatedAt         string  `json:"created_at" db:"created_at"`
	Title             string  `json:"title" db:"title"`
	Customer          string  `json:"customer" db:"customer"`
	Notes             string  `json:"notes" db:"notes"`
	Quantity          int     `json:"quantity" db:"quantity"`
	PricingMode       Mode    `json:"pricing_mode" db:"pricing_mode"`
	TierLabel         string  `json:"tier_label" db:"tier_label"`
	MarginPercent     float64 `json:"margin_percent" db:"margin_percent"`
	VATPercent        float64 `json:"vat_percent" db:"vat_percent"`
	MaterialCost      float64 `json:"material_cost" db:"material_cost"`
	LaborCost         float64 `json:"labor_cost" db:"labor_cost"`
	MachineCost       float64 `json:"machine_cost" db:"machine_cost"`
	ElectricityCost   float64 `json:"electricity_cost" db:"electricity_cost"`
	HardwareCost      float64 `json:"hardware_cost" db:"hardware_cost"`
	PackagingCost     float64 `json:"packaging_cost" db:"packaging_cost"`
	UnitCost          float64 `json:"unit_cost" db:"unit_cost"`
	TotalCost         float64 `json:"total_cost" db:"total_cost"`
	FinalPrice        float64 `json:"final_price" db:"final_price"`
	FinalPriceWithVAT float64 `json:"final_price_with_vat" db:"final_price_with_vat"`
	Currency          string  `json:"currency" db:"currency"`
	BreakdownJSON     string  `json:"-" db:"breakdown_json"`
	SettingsJSON      string  `json:"-" db:"settings_json"`
}

// Details are the free-text fields a user attaches to a quote.
type Details struct {
	Title    string `json:"title"`
	Customer string `json:"customer"`
	Notes    string `json:"notes"`
	Currency string `json:"currency"`
}

// FromBreakdown builds a new record from a breakdown computed with settings.
// A tier selection must name one of the breakdown's tiers; a custom margin
// must lie within the slider bounds.
func FromBreakdown(b pricing.CostBreakdown, settings pricing.CostModelSettings, sel Selection, d Details) (Record, error) {
	if !b.Finite() {
		return Record{}, validate.TooLarge("quote")
	}
	rec := Record{
		PublicID:        uuid.NewString(),
		Title:           strings.TrimSpace(d.Title),
		Customer:        strings.TrimSpace(d.Customer),
		Notes:           strings.TrimSpace(d.Notes),
		Quantity:        b.Quantity,
		PricingMode:     sel.Mode,
		VATPercent:      settings.VATPercent,
		MaterialCost:    money.Round2(b.MaterialCost),
		LaborCost:       money.Round2(b.LaborCost),
		MachineCost:     money.Round2(b.MachineCost),
		ElectricityCost: money.Round2(b.ElectricityCost),
		HardwareCost:    money.Round2(b.HardwareCost),
		PackagingCost:   money.Round2(b.PackagingCost),
		UnitCost:        money.Round2(b.UnitCost),
		TotalCost:       money.Round2(b.TotalCost),
		Currency:        strings.ToUpper(strings.TrimSpace(d.Currency)),
	}
	if rec.Quantity <= 0 {
		rec.Quantity = 1
	}
	if rec.Currency == "" {
		rec.Currency = "USD"
	}

	switch sel.Mode {
	case ModeTier:
		tier, ok := findTier(b.PricingTiers, sel.TierLabel)
		if !ok {
			return Record{}, &validate.Error{Field: "tier_label", Message: fmt.Sprintf("unknown tier %q", sel.TierLabel)}
		}
		rec.TierLabel = tier.Label
		rec.MarginPercent = tier.MarginPercent
		rec.FinalPrice = money.Round2(tier.Price)
		rec.FinalPriceWithVAT = money.Round2(tier.PriceWithVAT)
	case ModeCustom:
		if err := validate.Range("margin_percent", sel.MarginPercent, pricing.MinCustomMargin, pricing.MaxCustomMargin); err != nil {
			return Record{}, err
		}
		cp := pricing.ComputeCustomPrice(b.TotalCost, sel.MarginPercent, settings.VATPercent)
		if !cp.Finite() {
			return Record{}, validate.TooLarge("quote")
		}
		rec.MarginPercent = sel.MarginPercent
		rec.FinalPrice = money.Round2(cp.Price)
		rec.FinalPriceWithVAT = money.Round2(cp.PriceWithVAT)
	default:
		return Record{}, &validate.Error{Field: "mode", Message: "must be tier or custom"}
	}

	breakdown, err := json.Marshal(b)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown snapshot: %w", err)
	}
	snapshot, err := json.Marshal(settings)
	if err != nil {
		return Record{}, fmt.Errorf("encode settings snapshot: %w", err)
	}
	rec.BreakdownJSON = string(breakdown)
	rec.SettingsJSON = string(snapshot)
	return rec, nil
}

// Breakdown decodes the breakdown snapshot saved with the record.
func (r Record) Breakdown() (pricing.CostBreakdown, error) {
	var b pricing.CostBreakdown
	if r.BreakdownJSON == "" {
		return b, nil
	}
	if err := json.Unmarshal([]byte(r.BreakdownJSON), &b); err != nil {
		return pricing.CostBreakdown{}, fmt.Errorf("decode breakdown snapshot: %w", err)
	}
	return b, nil
}

// Settings decodes the cost-model snapshot saved with the record.
func (r Record) Settings() (pricing.CostModelSettings, error) {
	var s pricing.CostModelSettings
	if r.SettingsJSON == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(r.SettingsJSON), &s); err != nil {
		return pricing.CostModelSettings{}, fmt.Errorf("decode settings snapshot: %w", err)
	}
	return s, nil
}

// UnitPrice is the final price split across the quoted quantity.
func (r Record) UnitPrice() float64 {
	if r.Quantity <= 1 {
		return r.FinalPrice
	}
	return money.Round2(r.FinalPrice / float64(r.Quantity))
}

func findTier(tiers []pricing.PricingTier, label string) (pricing.PricingTier, bool) {
	label = strings.TrimSpace(label)
	for _, t := range tiers {
		if strings.EqualFold(t.Label, label) {
			return t, true
		}
	}
	return pricing.PricingTier{}, false
}
