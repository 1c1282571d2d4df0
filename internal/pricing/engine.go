package pricing

// FilamentUsage is one filament row of a part: grams used and the
// already-resolved cost per kilogram.
type FilamentUsage struct {
	Grams     float64 `json:"grams"`
	CostPerKg float64 `json:"cost_per_kg"`
}

// LineItem is a resolved hardware or packaging add-on.
type LineItem struct {
	Name     string  `json:"name"`
	UnitCost float64 `json:"unit_cost"`
	Quantity int     `json:"quantity"`
}

// PartQuoteInput represents the physical and production inputs of a single part.
type PartQuoteInput struct {
	Filaments    []FilamentUsage `json:"filaments"`
	PrintHours   float64         `json:"print_hours"`
	PrintMinutes float64         `json:"print_minutes"`
	LaborMinutes float64         `json:"labor_minutes"`
	Hardware     []LineItem      `json:"hardware"`
	Packaging    []LineItem      `json:"packaging"`
	Quantity     int             `json:"quantity"`
	BatchMode    bool            `json:"batch_mode"`
}

// PricingTier is the price of the batch at one fixed margin-on-cost level.
type PricingTier struct {
	Label            string  `json:"label"`
	MarginPercent    float64 `json:"margin_percent"`
	Price            float64 `json:"price"`
	Profit           float64 `json:"profit"`
	PriceWithVAT     float64 `json:"price_with_vat"`
	UnitPrice        float64 `json:"unit_price"`
	UnitPriceWithVAT float64 `json:"unit_price_with_vat"`
	UnitProfit       float64 `json:"unit_profit"`
}

// CostComponent is a labelled nonzero cost share used for charts.
type CostComponent struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// CostBreakdown contains every intermediate and final value of a cost calculation.
//
// MachineCost includes ElectricityCost. ElectricityCost is reported on its
// own for display only and is not added to UnitCost a second time.
type CostBreakdown struct {
	MaterialCost    float64 `json:"material_cost"`
	LaborCost       float64 `json:"labor_cost"`
	MachineCost     float64 `json:"machine_cost"`
	ElectricityCost float64 `json:"electricity_cost"`
	HardwareCost    float64 `json:"hardware_cost"`
	PackagingCost   float64 `json:"packaging_cost"`
	Subtotal        float64 `json:"subtotal"`
	UnitCost        float64 `json:"unit_cost"`
	TotalCost       float64 `json:"total_cost"`
	Quantity        int     `json:"quantity"`

	TotalPrintHours    float64 `json:"total_print_hours"`
	LaborHours         float64 `json:"labor_hours"`
	TotalMaterialGrams float64 `json:"total_material_grams"`

	PricingTiers []PricingTier   `json:"pricing_tiers"`
	Breakdown    []CostComponent `json:"breakdown"`
}

// MarginTier is a fixed preset margin level.
type MarginTier struct {
	Label         string
	MarginPercent float64
}

var marginTiers = [...]MarginTier{
	{Label: "Competitive", MarginPercent: 25},
	{Label: "Standard", MarginPercent: 40},
	{Label: "Premium", MarginPercent: 60},
	{Label: "Luxury", MarginPercent: 80},
}

// MarginTiers returns the preset margin ladder in display order.
func MarginTiers() []MarginTier {
	out := make([]MarginTier, len(marginTiers))
	copy(out, marginTiers[:])
	return out
}

const hoursPerYear = 365 * 24

// ComputeCosts converts part inputs and cost-model settings into a cost
// breakdown with the preset pricing tiers. It never fails: missing or
// non-finite numbers degrade to zero cost.
func ComputeCosts(input PartQuoteInput, settings CostModelSettings) CostBreakdown {
	in := input.normalize()
	s := settings.normalize()

	printHours := in.PrintHours + in.PrintMinutes/60
	laborHours := in.LaborMinutes / 60

	var rawMaterial, grams float64
	for _, f := range in.Filaments {
		rawMaterial += f.Grams * (f.CostPerKg / 1000)
		grams += f.Grams
	}
	materialCost := rawMaterial * s.MaterialEfficiency

	electricityCost := (s.PowerWatts / 1000) * printHours * s.ElectricityPerKWh
	machineCost := machineRatePerHour(s)*printHours + electricityCost
	laborCost := s.LaborRatePerHour * laborHours
	hardwareCost := sumItems(in.Hardware)
	packagingCost := sumItems(in.Packaging)

	unitCost := (materialCost + laborCost + machineCost + hardwareCost + packagingCost) * s.BufferFactor
	totalCost := unitCost * float64(in.Quantity)

	return CostBreakdown{
		MaterialCost:       materialCost,
		LaborCost:          laborCost,
		MachineCost:        machineCost,
		ElectricityCost:    electricityCost,
		HardwareCost:       hardwareCost,
		PackagingCost:      packagingCost,
		Subtotal:           unitCost,
		UnitCost:           unitCost,
		TotalCost:          totalCost,
		Quantity:           in.Quantity,
		TotalPrintHours:    printHours,
		LaborHours:         laborHours,
		TotalMaterialGrams: grams,
		PricingTiers:       computeTiers(totalCost, in.Quantity, s.VATPercent),
		Breakdown: nonZeroComponents(
			CostComponent{Label: "Material", Value: materialCost, Color: "#8b5cf6"},
			CostComponent{Label: "Labor", Value: laborCost, Color: "#6366f1"},
			CostComponent{Label: "Machine", Value: machineCost, Color: "#a78bfa"},
			CostComponent{Label: "Hardware", Value: hardwareCost, Color: "#818cf8"},
			CostComponent{Label: "Packaging", Value: packagingCost, Color: "#c4b5fd"},
		),
	}
}

// machineRatePerHour amortizes purchase and maintenance over productive hours.
// Zero when uptime or lifetime is not positive.
func machineRatePerHour(s CostModelSettings) float64 {
	uptimeHours := (s.UptimePercent / 100) * hoursPerYear
	if uptimeHours <= 0 || s.EstimatedLifeYears <= 0 {
		return 0
	}
	yearly := s.PrinterCost/s.EstimatedLifeYears + s.AnnualMaintenance
	return yearly / uptimeHours
}

func computeTiers(totalCost float64, qty int, vatPct float64) []PricingTier {
	n := float64(qty)
	tiers := make([]PricingTier, 0, len(marginTiers))
	for _, t := range marginTiers {
		profit := tierProfit(totalCost, t.MarginPercent)
		price := totalCost + profit
		withVAT := grossUpVAT(price, vatPct)
		tiers = append(tiers, PricingTier{
			Label:            t.Label,
			MarginPercent:    t.MarginPercent,
			Price:            price,
			Profit:           profit,
			PriceWithVAT:     withVAT,
			UnitPrice:        price / n,
			UnitPriceWithVAT: withVAT / n,
			UnitProfit:       profit / n,
		})
	}
	return tiers
}

func sumItems(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.UnitCost * float64(it.Quantity)
	}
	return total
}

func nonZeroComponents(all ...CostComponent) []CostComponent {
	out := make([]CostComponent, 0, len(all))
	for _, c := range all {
		if c.Value > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (in PartQuoteInput) normalize() PartQuoteInput {
	out := PartQuoteInput{
		PrintHours:   additive(in.PrintHours),
		PrintMinutes: additive(in.PrintMinutes),
		LaborMinutes: additive(in.LaborMinutes),
		Quantity:     count(in.Quantity),
		BatchMode:    in.BatchMode,
	}
	if !in.BatchMode {
		out.Quantity = 1
	}

	out.Filaments = make([]FilamentUsage, len(in.Filaments))
	for i, f := range in.Filaments {
		out.Filaments[i] = FilamentUsage{Grams: additive(f.Grams), CostPerKg: additive(f.CostPerKg)}
	}
	out.Hardware = normalizeItems(in.Hardware)
	out.Packaging = normalizeItems(in.Packaging)
	return out
}

func normalizeItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = LineItem{Name: it.Name, UnitCost: additive(it.UnitCost), Quantity: count(it.Quantity)}
	}
	return out
}

// Finite reports whether every amount in b is a finite number. Extreme but
// finite inputs can overflow to infinity.
func (b CostBreakdown) Finite() bool {
	for _, v := range []float64{
		b.MaterialCost, b.LaborCost, b.MachineCost, b.ElectricityCost,
		b.HardwareCost, b.PackagingCost, b.Subtotal, b.UnitCost, b.TotalCost,
		b.TotalPrintHours, b.LaborHours, b.TotalMaterialGrams,
	} {
		if !finite(v) {
			return false
		}
	}
	for _, c := range b.Breakdown {
		if !finite(c.Value) {
			return false
		}
	}
	for _, t := range b.PricingTiers {
		for _, v := range []float64{t.Price, t.Profit, t.PriceWithVAT, t.UnitPrice, t.UnitPriceWithVAT, t.UnitProfit} {
			if !finite(v) {
				return false
			}
		}
	}
	return true
}
