package seed

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/printdesk/internal/rates"
)

const (
	defaultFilamentName  = "PLA (Generic)"
	defaultHardwareName  = "M3 heat-set insert"
	defaultPackagingName = "Standard box"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sqlx.DB) (Stats, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	n, err := rates.InsertDefaults(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	stats.Inserts += n

	if err := ensureFilament(ctx, tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureItem(ctx, tx, "hardware_items", defaultHardwareName, 0.05, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureItem(ctx, tx, "packaging_items", defaultPackagingName, 0.5, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureFilament(ctx context.Context, tx *sqlx.Tx, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM filaments WHERE name = ? LIMIT 1)`, defaultFilamentName); err != nil {
		return fmt.Errorf("check default filament existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO filaments (name, material, color, cost_per_kg, stock_grams, notes, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, defaultFilamentName, "PLA", "", 20, 0, "", true); err != nil {
		return fmt.Errorf("insert default filament: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureItem(ctx context.Context, tx *sqlx.Tx, table, name string, unitCost float64, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE name = ? LIMIT 1)`, name); err != nil {
		return fmt.Errorf("check default %s existence: %w", table, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO `+table+` (name, unit_cost, stock, notes, active)
		VALUES (?, ?, ?, ?, ?)
	`, name, unitCost, 0, "", true); err != nil {
		return fmt.Errorf("insert default %s: %w", table, err)
	}
	stats.Inserts++
	return nil
}
