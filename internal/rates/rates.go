// Package rates persists the singleton cost-model and marketplace fee settings.
package rates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/printdesk/internal/etsy"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/validate"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// InsertDefaults writes the stock settings rows through ex, leaving existing
// rows untouched. It lets callers seed inside their own transaction.
func InsertDefaults(ctx context.Context, ex sqlx.ExecerContext) (int, error) {
	inserted := 0

	n, err := insertDefaultCostSettings(ctx, ex)
	if err != nil {
		return 0, err
	}
	inserted += n

	n, err = insertDefaultEtsySettings(ctx, ex)
	if err != nil {
		return 0, err
	}
	inserted += n

	return inserted, nil
}

func insertDefaultCostSettings(ctx context.Context, ex sqlx.ExecerContext) (int, error) {
	d := pricing.DefaultCostModelSettings()
	res, err := ex.ExecContext(ctx, `
		INSERT INTO cost_settings (
			id, vat_percent, labor_rate_per_hour, material_efficiency, printer_cost,
			annual_maintenance, estimated_life_years, uptime_percent, power_watts,
			electricity_per_kwh, buffer_factor
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, d.VATPercent, d.LaborRatePerHour, d.MaterialEfficiency, d.PrinterCost,
		d.AnnualMaintenance, d.EstimatedLifeYears, d.UptimePercent, d.PowerWatts,
		d.ElectricityPerKWh, d.BufferFactor)
	if err != nil {
		return 0, fmt.Errorf("insert default cost settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read cost settings rows affected: %w", err)
	}
	return int(n), nil
}

func insertDefaultEtsySettings(ctx context.Context, ex sqlx.ExecerContext) (int, error) {
	d := etsy.DefaultFeeSettings()
	res, err := ex.ExecContext(ctx, `
		INSERT INTO etsy_settings (
			id, region, listing_fee, transaction_fee_percent, payment_fee_percent,
			payment_fee_fixed, vat_percent, offsite_ads_percent, regulatory_fee_percent
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, d.Region, d.ListingFee, d.TransactionFeePercent, d.PaymentFeePercent,
		d.PaymentFeeFixed, d.VATPercent, d.OffsiteAdsPercent, d.RegulatoryFeePercent)
	if err != nil {
		return 0, fmt.Errorf("insert default etsy settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read etsy settings rows affected: %w", err)
	}
	return int(n), nil
}

// GetCostSettings returns the stored cost model, or the defaults when no row
// has been written yet.
func (s *Store) GetCostSettings(ctx context.Context) (pricing.CostModelSettings, error) {
	var out pricing.CostModelSettings
	err := s.db.GetContext(ctx, &out, `
		SELECT vat_percent, labor_rate_per_hour, material_efficiency, printer_cost,
			annual_maintenance, estimated_life_years, uptime_percent, power_watts,
			electricity_per_kwh, buffer_factor
		FROM cost_settings
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.DefaultCostModelSettings(), nil
	}
	if err != nil {
		return pricing.CostModelSettings{}, fmt.Errorf("query cost settings: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateCostSettings(ctx context.Context, in pricing.CostModelSettings) error {
	if err := ValidateCostSettings(in); err != nil {
		return err
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO cost_settings (
			id, vat_percent, labor_rate_per_hour, material_efficiency, printer_cost,
			annual_maintenance, estimated_life_years, uptime_percent, power_watts,
			electricity_per_kwh, buffer_factor
		) VALUES (
			1, :vat_percent, :labor_rate_per_hour, :material_efficiency, :printer_cost,
			:annual_maintenance, :estimated_life_years, :uptime_percent, :power_watts,
			:electricity_per_kwh, :buffer_factor
		)
		ON CONFLICT(id) DO UPDATE SET
			vat_percent = excluded.vat_percent,
			labor_rate_per_hour = excluded.labor_rate_per_hour,
			material_efficiency = excluded.material_efficiency,
			printer_cost = excluded.printer_cost,
			annual_maintenance = excluded.annual_maintenance,
			estimated_life_years = excluded.estimated_life_years,
			uptime_percent = excluded.uptime_percent,
			power_watts = excluded.power_watts,
			electricity_per_kwh = excluded.electricity_per_kwh,
			buffer_factor = excluded.buffer_factor,
			updated_at = CURRENT_TIMESTAMP
	`, in)
	if err != nil {
		return fmt.Errorf("update cost settings: %w", err)
	}
	return nil
}

// GetEtsySettings returns the stored fee schedule, or the US defaults when no
// row has been written yet.
func (s *Store) GetEtsySettings(ctx context.Context) (etsy.FeeSettings, error) {
	var out etsy.FeeSettings
	err := s.db.GetContext(ctx, &out, `
		SELECT region, listing_fee, transaction_fee_percent, payment_fee_percent,
			payment_fee_fixed, vat_percent, offsite_ads_percent, regulatory_fee_percent
		FROM etsy_settings
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return etsy.DefaultFeeSettings(), nil
	}
	if err != nil {
		return etsy.FeeSettings{}, fmt.Errorf("query etsy settings: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateEtsySettings(ctx context.Context, in etsy.FeeSettings) error {
	if err := ValidateEtsySettings(in); err != nil {
		return err
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO etsy_settings (
			id, region, listing_fee, transaction_fee_percent, payment_fee_percent,
			payment_fee_fixed, vat_percent, offsite_ads_percent, regulatory_fee_percent
		) VALUES (
			1, :region, :listing_fee, :transaction_fee_percent, :payment_fee_percent,
			:payment_fee_fixed, :vat_percent, :offsite_ads_percent, :regulatory_fee_percent
		)
		ON CONFLICT(id) DO UPDATE SET
			region = excluded.region,
			listing_fee = excluded.listing_fee,
			transaction_fee_percent = excluded.transaction_fee_percent,
			payment_fee_percent = excluded.payment_fee_percent,
			payment_fee_fixed = excluded.payment_fee_fixed,
			vat_percent = excluded.vat_percent,
			offsite_ads_percent = excluded.offsite_ads_percent,
			regulatory_fee_percent = excluded.regulatory_fee_percent,
			updated_at = CURRENT_TIMESTAMP
	`, in)
	if err != nil {
		return fmt.Errorf("update etsy settings: %w", err)
	}
	return nil
}

// ValidateCostSettings rejects values the settings form would never produce.
func ValidateCostSettings(s pricing.CostModelSettings) error {
	return validate.First(
		validate.Percent("vat_percent", s.VATPercent),
		validate.NonNegative("labor_rate_per_hour", s.LaborRatePerHour),
		validate.Positive("material_efficiency", s.MaterialEfficiency),
		validate.NonNegative("printer_cost", s.PrinterCost),
		validate.NonNegative("annual_maintenance", s.AnnualMaintenance),
		validate.NonNegative("estimated_life_years", s.EstimatedLifeYears),
		validate.Percent("uptime_percent", s.UptimePercent),
		validate.NonNegative("power_watts", s.PowerWatts),
		validate.NonNegative("electricity_per_kwh", s.ElectricityPerKWh),
		validate.Positive("buffer_factor", s.BufferFactor),
	)
}

func ValidateEtsySettings(s etsy.FeeSettings) error {
	return validate.First(
		validate.Required("region", s.Region),
		validate.NonNegative("listing_fee", s.ListingFee),
		validate.Percent("transaction_fee_percent", s.TransactionFeePercent),
		validate.Percent("payment_fee_percent", s.PaymentFeePercent),
		validate.NonNegative("payment_fee_fixed", s.PaymentFeeFixed),
		validate.Percent("vat_percent", s.VATPercent),
		validate.Percent("offsite_ads_percent", s.OffsiteAdsPercent),
		validate.Percent("regulatory_fee_percent", s.RegulatoryFeePercent),
	)
}
