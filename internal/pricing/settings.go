package pricing

import "math"

// CostModelSettings holds the user-editable parameters of the cost model.
// Percentages are stored as 0-100 values; multipliers as ratios.
type CostModelSettings struct {
	VATPercent         float64 `json:"vat_percent" toml:"vat_percent" db:"vat_percent"`
	LaborRatePerHour   float64 `json:"labor_rate_per_hour" toml:"labor_rate_per_hour" db:"labor_rate_per_hour"`
	MaterialEfficiency float64 `json:"material_efficiency" toml:"material_efficiency" db:"material_efficiency"`
	PrinterCost        float64 `json:"printer_cost" toml:"printer_cost" db:"printer_cost"`
	AnnualMaintenance  float64 `json:"annual_maintenance" toml:"annual_maintenance" db:"annual_maintenance"`
	EstimatedLifeYears float64 `json:"estimated_life_years" toml:"estimated_life_years" db:"estimated_life_years"`
	UptimePercent      float64 `json:"uptime_percent" toml:"uptime_percent" db:"uptime_percent"`
	PowerWatts         float64 `json:"power_watts" toml:"power_watts" db:"power_watts"`
	ElectricityPerKWh  float64 `json:"electricity_per_kwh" toml:"electricity_per_kwh" db:"electricity_per_kwh"`
	BufferFactor       float64 `json:"buffer_factor" toml:"buffer_factor" db:"buffer_factor"`
}

// DefaultCostModelSettings returns the stock cost model for a hobby-grade FDM printer.
func DefaultCostModelSettings() CostModelSettings {
	return CostModelSettings{
		VATPercent:         15,
		LaborRatePerHour:   25,
		MaterialEfficiency: 1.05,
		PrinterCost:        500,
		AnnualMaintenance:  100,
		EstimatedLifeYears: 5,
		UptimePercent:      70,
		PowerWatts:         200,
		ElectricityPerKWh:  0.12,
		BufferFactor:       1.1,
	}
}

// normalize replaces non-finite values and treats a zero multiplier as unset.
// Multipliers below 1 are kept as-is.
func (s CostModelSettings) normalize() CostModelSettings {
	return CostModelSettings{
		VATPercent:         additive(s.VATPercent),
		LaborRatePerHour:   additive(s.LaborRatePerHour),
		MaterialEfficiency: multiplier(s.MaterialEfficiency),
		PrinterCost:        additive(s.PrinterCost),
		AnnualMaintenance:  additive(s.AnnualMaintenance),
		EstimatedLifeYears: additive(s.EstimatedLifeYears),
		UptimePercent:      additive(s.UptimePercent),
		PowerWatts:         additive(s.PowerWatts),
		ElectricityPerKWh:  additive(s.ElectricityPerKWh),
		BufferFactor:       multiplier(s.BufferFactor),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func additive(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}

func multiplier(v float64) float64 {
	if !finite(v) || v == 0 {
		return 1
	}
	return v
}

func count(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
