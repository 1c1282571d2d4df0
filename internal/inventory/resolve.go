package inventory

import (
	"context"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// FilamentRef selects a stored filament by id, or carries a raw cost when
// FilamentID is zero.
type FilamentRef struct {
	FilamentID int64   `json:"filament_id,omitempty"`
	Grams      float64 `json:"grams"`
	CostPerKg  float64 `json:"cost_per_kg,omitempty"`
}

// ItemRef selects a stored hardware or packaging item by id, or carries a
// raw name and unit cost when ItemID is zero.
type ItemRef struct {
	ItemID   int64   `json:"item_id,omitempty"`
	Name     string  `json:"name,omitempty"`
	UnitCost float64 `json:"unit_cost,omitempty"`
	Quantity int     `json:"quantity"`
}

// QuoteRequest is a part description as submitted by a client, before
// inventory identifiers are turned into costs.
type QuoteRequest struct {
	Filaments    []FilamentRef `json:"filaments"`
	PrintHours   float64       `json:"print_hours"`
	PrintMinutes float64       `json:"print_minutes"`
	LaborMinutes float64       `json:"labor_minutes"`
	Hardware     []ItemRef     `json:"hardware"`
	Packaging    []ItemRef     `json:"packaging"`
	Quantity     int           `json:"quantity"`
	BatchMode    bool          `json:"batch_mode"`
}

// Resolver turns a QuoteRequest into engine input by looking up stored costs.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the engine input for req. An id that does not exist yields
// an error wrapping ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, req QuoteRequest) (pricing.PartQuoteInput, error) {
	out := pricing.PartQuoteInput{
		PrintHours:   req.PrintHours,
		PrintMinutes: req.PrintMinutes,
		LaborMinutes: req.LaborMinutes,
		Quantity:     req.Quantity,
		BatchMode:    req.BatchMode,
		Filaments:    make([]pricing.FilamentUsage, 0, len(req.Filaments)),
	}

	for _, ref := range req.Filaments {
		usage := pricing.FilamentUsage{Grams: ref.Grams, CostPerKg: ref.CostPerKg}
		if ref.FilamentID > 0 {
			f, err := r.store.GetFilament(ctx, ref.FilamentID)
			if err != nil {
				return pricing.PartQuoteInput{}, err
			}
			usage.CostPerKg = f.CostPerKg
		}
		out.Filaments = append(out.Filaments, usage)
	}

	var err error
	if out.Hardware, err = r.resolveItems(ctx, KindHardware, req.Hardware); err != nil {
		return pricing.PartQuoteInput{}, err
	}
	if out.Packaging, err = r.resolveItems(ctx, KindPackaging, req.Packaging); err != nil {
		return pricing.PartQuoteInput{}, err
	}
	return out, nil
}

func (r *Resolver) resolveItems(ctx context.Context, kind Kind, refs []ItemRef) ([]pricing.LineItem, error) {
	out := make([]pricing.LineItem, 0, len(refs))
	for _, ref := range refs {
		line := pricing.LineItem{Name: ref.Name, UnitCost: ref.UnitCost, Quantity: ref.Quantity}
		if ref.ItemID > 0 {
			it, err := r.store.GetItem(ctx, kind, ref.ItemID)
			if err != nil {
				return nil, err
			}
			line.Name = it.Name
			line.UnitCost = it.UnitCost
		}
		out = append(out, line)
	}
	return out, nil
}
