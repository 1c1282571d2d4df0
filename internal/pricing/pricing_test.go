package pricing

import (
	"math"
	"reflect"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func TestComputeCosts_MaterialEfficiencyAppliedToAggregate(t *testing.T) {
	input := PartQuoteInput{
		Filaments: []FilamentUsage{
			{Grams: 100, CostPerKg: 20},
			{Grams: 50, CostPerKg: 40},
		},
	}
	settings := CostModelSettings{MaterialEfficiency: 1.5, BufferFactor: 1}

	result := ComputeCosts(input, settings)

	nearlyEqual(t, "materialCost", result.MaterialCost, (2+2)*1.5)
	nearlyEqual(t, "totalMaterialGrams", result.TotalMaterialGrams, 150)
	nearlyEqual(t, "unitCost", result.UnitCost, 6)
}

func TestComputeCosts_DefaultSettingsReference(t *testing.T) {
	input := PartQuoteInput{
		Filaments:    []FilamentUsage{{Grams: 200, CostPerKg: 25}},
		PrintHours:   2,
		PrintMinutes: 30,
		LaborMinutes: 12,
	}

	result := ComputeCosts(input, DefaultCostModelSettings())

	nearlyEqual(t, "totalPrintHours", result.TotalPrintHours, 2.5)
	nearlyEqual(t, "laborHours", result.LaborHours, 0.2)
	nearlyEqual(t, "materialCost", result.MaterialCost, 5*1.05)
	nearlyEqual(t, "electricityCost", result.ElectricityCost, 0.2*2.5*0.12)
	nearlyEqual(t, "laborCost", result.LaborCost, 5)

	uptimeHours := 0.7 * 365 * 24
	rate := (500.0/5 + 100) / uptimeHours
	nearlyEqual(t, "machineCost", result.MachineCost, rate*2.5+0.06)

	want := (5.25 + 5 + rate*2.5 + 0.06) * 1.1
	nearlyEqual(t, "unitCost", result.UnitCost, want)
	nearlyEqual(t, "totalCost", result.TotalCost, want)
}

func TestComputeCosts_ElectricityFoldedIntoMachineCost(t *testing.T) {
	settings := CostModelSettings{
		PowerWatts:        1000,
		ElectricityPerKWh: 0.5,
		BufferFactor:      1,
	}
	result := ComputeCosts(PartQuoteInput{PrintHours: 4}, settings)

	nearlyEqual(t, "electricityCost", result.ElectricityCost, 2)
	nearlyEqual(t, "machineCost", result.MachineCost, 2)
	// Counted once, through machine cost.
	nearlyEqual(t, "unitCost", result.UnitCost, 2)
}

func TestComputeCosts_HardwareAndPackagingLineItems(t *testing.T) {
	input := PartQuoteInput{
		Hardware:  []LineItem{{Name: "M3 insert", UnitCost: 0.1, Quantity: 4}, {Name: "magnet", UnitCost: 0.25}},
		Packaging: []LineItem{{Name: "box", UnitCost: 0.8, Quantity: 1}},
	}
	result := ComputeCosts(input, CostModelSettings{})

	nearlyEqual(t, "hardwareCost", result.HardwareCost, 0.65)
	nearlyEqual(t, "packagingCost", result.PackagingCost, 0.8)
	nearlyEqual(t, "unitCost", result.UnitCost, 1.45)
}

func TestComputeCosts_BufferScalesUnitCostLinearly(t *testing.T) {
	input := PartQuoteInput{
		Filaments:    []FilamentUsage{{Grams: 300, CostPerKg: 18}},
		PrintHours:   5,
		LaborMinutes: 20,
		Hardware:     []LineItem{{UnitCost: 1.2}},
	}
	base := DefaultCostModelSettings()
	base.BufferFactor = 1
	doubled := base
	doubled.BufferFactor = 2

	one := ComputeCosts(input, base)
	two := ComputeCosts(input, doubled)

	nearlyEqual(t, "unitCost", two.UnitCost, 2*one.UnitCost)
}

func TestComputeCosts_BufferBelowOneAccepted(t *testing.T) {
	input := PartQuoteInput{Packaging: []LineItem{{UnitCost: 10}}}
	result := ComputeCosts(input, CostModelSettings{BufferFactor: 0.5, MaterialEfficiency: 0.9})

	nearlyEqual(t, "unitCost", result.UnitCost, 5)
}

func TestComputeCosts_BatchTotalIsUnitTimesQuantity(t *testing.T) {
	input := PartQuoteInput{
		Filaments:  []FilamentUsage{{Grams: 80, CostPerKg: 30}},
		PrintHours: 1,
		BatchMode:  true,
	}
	for _, qty := range []int{1, 2, 7, 250} {
		input.Quantity = qty
		result := ComputeCosts(input, DefaultCostModelSettings())
		nearlyEqual(t, "totalCost", result.TotalCost, result.UnitCost*float64(qty))
		if result.Quantity != qty {
			t.Fatalf("quantity = %d, want %d", result.Quantity, qty)
		}
	}
}

func TestComputeCosts_BatchModeOffForcesQuantityOne(t *testing.T) {
	input := PartQuoteInput{
		Filaments: []FilamentUsage{{Grams: 80, CostPerKg: 30}},
		Quantity:  12,
		BatchMode: false,
	}
	result := ComputeCosts(input, DefaultCostModelSettings())

	nearlyEqual(t, "totalCost", result.TotalCost, result.UnitCost)
	if result.Quantity != 1 {
		t.Fatalf("quantity = %d, want 1", result.Quantity)
	}
	for _, tier := range result.PricingTiers {
		nearlyEqual(t, tier.Label+" unitPrice", tier.UnitPrice, tier.Price)
	}
}

func TestComputeCosts_NonPositiveQuantityTreatedAsOne(t *testing.T) {
	input := PartQuoteInput{Packaging: []LineItem{{UnitCost: 3}}, BatchMode: true}
	for _, qty := range []int{0, -4} {
		input.Quantity = qty
		result := ComputeCosts(input, CostModelSettings{})
		nearlyEqual(t, "totalCost", result.TotalCost, 3)
		for _, tier := range result.PricingTiers {
			if !isFiniteNonNegative(tier.UnitPriceWithVAT) {
				t.Fatalf("tier %s unit price not finite: %v", tier.Label, tier.UnitPriceWithVAT)
			}
		}
	}
}

func TestComputeCosts_TiersFixedOrderAndCount(t *testing.T) {
	wantLabels := []string{"Competitive", "Standard", "Premium", "Luxury"}
	wantMargins := []float64{25, 40, 60, 80}

	inputs := []PartQuoteInput{
		{},
		{Filaments: []FilamentUsage{{Grams: 10, CostPerKg: 20}}},
		{PrintHours: 100, LaborMinutes: 600, Quantity: 40, BatchMode: true},
	}
	for _, input := range inputs {
		tiers := ComputeCosts(input, DefaultCostModelSettings()).PricingTiers
		if len(tiers) != 4 {
			t.Fatalf("expected 4 tiers, got %d", len(tiers))
		}
		for i, tier := range tiers {
			if tier.Label != wantLabels[i] || tier.MarginPercent != wantMargins[i] {
				t.Fatalf("tier %d = %s/%v, want %s/%v", i, tier.Label, tier.MarginPercent, wantLabels[i], wantMargins[i])
			}
		}
	}
}

func TestComputeCosts_TiersAreMarginOnCost(t *testing.T) {
	input := PartQuoteInput{
		Filaments:    []FilamentUsage{{Grams: 150, CostPerKg: 22}},
		PrintHours:   3,
		LaborMinutes: 30,
		Quantity:     5,
		BatchMode:    true,
	}
	settings := DefaultCostModelSettings()
	result := ComputeCosts(input, settings)

	for _, tier := range result.PricingTiers {
		nearlyEqual(t, tier.Label+" profit", tier.Profit, tier.MarginPercent/100*result.TotalCost)
		nearlyEqual(t, tier.Label+" price", tier.Price, result.TotalCost+tier.Profit)
		nearlyEqual(t, tier.Label+" priceWithVat", tier.PriceWithVAT, tier.Price*1.15)
		nearlyEqual(t, tier.Label+" unitPrice", tier.UnitPrice, tier.Price/5)
		nearlyEqual(t, tier.Label+" unitPriceWithVat", tier.UnitPriceWithVAT, tier.PriceWithVAT/5)
		nearlyEqual(t, tier.Label+" unitProfit", tier.UnitProfit, tier.Profit/5)
	}

	// 25% on cost is not 25% of price.
	competitive := result.PricingTiers[0]
	if math.Abs(competitive.Profit/competitive.Price-0.25) < 1e-6 {
		t.Fatalf("competitive tier looks like margin-on-price: %+v", competitive)
	}
}

func TestComputeCosts_BreakdownOmitsZeroComponents(t *testing.T) {
	input := PartQuoteInput{
		Filaments: []FilamentUsage{{Grams: 100, CostPerKg: 20}},
		Packaging: []LineItem{{UnitCost: 1}},
	}
	result := ComputeCosts(input, CostModelSettings{})

	want := []CostComponent{
		{Label: "Material", Value: 2, Color: "#8b5cf6"},
		{Label: "Packaging", Value: 1, Color: "#c4b5fd"},
	}
	if len(result.Breakdown) != len(want) {
		t.Fatalf("breakdown = %+v, want %+v", result.Breakdown, want)
	}
	for i, c := range result.Breakdown {
		if c.Label != want[i].Label || c.Color != want[i].Color {
			t.Fatalf("breakdown[%d] = %+v, want %+v", i, c, want[i])
		}
		nearlyEqual(t, c.Label, c.Value, want[i].Value)
	}
}

func TestComputeCosts_ZeroPrintTimeHasNoMachineCost(t *testing.T) {
	result := ComputeCosts(PartQuoteInput{LaborMinutes: 30}, DefaultCostModelSettings())

	nearlyEqual(t, "machineCost", result.MachineCost, 0)
	nearlyEqual(t, "electricityCost", result.ElectricityCost, 0)
}

func TestComputeCosts_ZeroLifetimeOrUptimeIsSafe(t *testing.T) {
	input := PartQuoteInput{PrintHours: 10}

	zeroLife := DefaultCostModelSettings()
	zeroLife.EstimatedLifeYears = 0
	zeroUptime := DefaultCostModelSettings()
	zeroUptime.UptimePercent = 0

	for name, settings := range map[string]CostModelSettings{"life": zeroLife, "uptime": zeroUptime} {
		result := ComputeCosts(input, settings)
		if !isFiniteNonNegative(result.MachineCost) {
			t.Fatalf("%s: machine cost not finite: %v", name, result.MachineCost)
		}
		// Only electricity remains.
		nearlyEqual(t, name+" machineCost", result.MachineCost, result.ElectricityCost)
	}
}

func TestComputeCosts_NonFiniteInputsDegradeToZero(t *testing.T) {
	input := PartQuoteInput{
		Filaments:    []FilamentUsage{{Grams: math.NaN(), CostPerKg: 20}},
		PrintHours:   math.Inf(1),
		LaborMinutes: math.NaN(),
	}
	settings := DefaultCostModelSettings()
	settings.BufferFactor = math.NaN()

	result := ComputeCosts(input, settings)

	for name, v := range map[string]float64{
		"material": result.MaterialCost,
		"labor":    result.LaborCost,
		"machine":  result.MachineCost,
		"unit":     result.UnitCost,
	} {
		if v != 0 {
			t.Fatalf("%s = %v, want 0", name, v)
		}
	}
}

func TestCostBreakdownFinite(t *testing.T) {
	ok := ComputeCosts(PartQuoteInput{PrintHours: 2}, DefaultCostModelSettings())
	if !ok.Finite() {
		t.Fatalf("expected finite breakdown: %+v", ok)
	}

	huge := ComputeCosts(PartQuoteInput{
		Filaments: []FilamentUsage{{Grams: 1e308, CostPerKg: 1e308}},
	}, DefaultCostModelSettings())
	if huge.Finite() {
		t.Fatalf("expected overflow to be reported, material = %v", huge.MaterialCost)
	}

	if ComputeCustomPrice(1.7e308, 50, 0).Finite() {
		t.Fatal("expected custom price overflow to be reported")
	}
}

func TestComputeCosts_NonNegativeForNonNegativeInputs(t *testing.T) {
	values := []float64{0, 0.5, 1, 37, 1000}
	for _, grams := range values {
		for _, hours := range values {
			for _, life := range values {
				settings := DefaultCostModelSettings()
				settings.EstimatedLifeYears = life
				settings.UptimePercent = hours
				result := ComputeCosts(PartQuoteInput{
					Filaments:    []FilamentUsage{{Grams: grams, CostPerKg: 19.99}},
					PrintHours:   hours,
					LaborMinutes: grams,
				}, settings)
				for name, v := range map[string]float64{
					"material":    result.MaterialCost,
					"labor":       result.LaborCost,
					"machine":     result.MachineCost,
					"electricity": result.ElectricityCost,
				} {
					if !isFiniteNonNegative(v) {
						t.Fatalf("%s cost = %v for grams=%v hours=%v life=%v", name, v, grams, hours, life)
					}
				}
			}
		}
	}
}

func TestComputeCosts_Idempotent(t *testing.T) {
	input := PartQuoteInput{
		Filaments:    []FilamentUsage{{Grams: 123, CostPerKg: 27.5}},
		PrintHours:   1,
		PrintMinutes: 45,
		LaborMinutes: 7,
		Hardware:     []LineItem{{Name: "screw", UnitCost: 0.05, Quantity: 6}},
		Quantity:     3,
		BatchMode:    true,
	}
	a := ComputeCosts(input, DefaultCostModelSettings())
	b := ComputeCosts(input, DefaultCostModelSettings())

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestComputeCosts_DoesNotMutateInput(t *testing.T) {
	input := PartQuoteInput{
		Filaments: []FilamentUsage{{Grams: math.NaN(), CostPerKg: 20}},
		Hardware:  []LineItem{{UnitCost: 1, Quantity: 0}},
	}
	_ = ComputeCosts(input, CostModelSettings{})

	if !math.IsNaN(input.Filaments[0].Grams) || input.Hardware[0].Quantity != 0 {
		t.Fatalf("input was mutated: %+v", input)
	}
}

func TestMarginTiersReturnsCopy(t *testing.T) {
	tiers := MarginTiers()
	tiers[0].MarginPercent = 99

	if MarginTiers()[0].MarginPercent != 25 {
		t.Fatal("expected margin tier copy mutation not to affect defaults")
	}
}
