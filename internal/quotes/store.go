package quotes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no quote has the requested public id.
var ErrNotFound = errors.New("quote not found")

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `
	id, public_id, created_at, title, customer, notes, quantity, pricing_mode,
	tier_label, margin_percent, vat_percent, material_cost, labor_cost,
	machine_cost, electricity_cost, hardware_cost, packaging_cost, unit_cost,
	total_cost, final_price, final_price_with_vat, currency, breakdown_json,
	settings_json`

// Create inserts rec and returns it as stored.
func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO quotes (
			public_id, title, customer, notes, quantity, pricing_mode, tier_label,
			margin_percent, vat_percent, material_cost, labor_cost, machine_cost,
			electricity_cost, hardware_cost, packaging_cost, unit_cost, total_cost,
			final_price, final_price_with_vat, currency, breakdown_json, settings_json
		) VALUES (
			:public_id, :title, :customer, :notes, :quantity, :pricing_mode, :tier_label,
			:margin_percent, :vat_percent, :material_cost, :labor_cost, :machine_cost,
			:electricity_cost, :hardware_cost, :packaging_cost, :unit_cost, :total_cost,
			:final_price, :final_price_with_vat, :currency, :breakdown_json, :settings_json
		)
	`, rec)
	if err != nil {
		return Record{}, fmt.Errorf("insert quote: %w", err)
	}
	return s.Get(ctx, rec.PublicID)
}

func (s *Store) Get(ctx context.Context, publicID string) (Record, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec, `SELECT `+selectColumns+` FROM quotes WHERE public_id = ?`, publicID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("quote %s: %w", publicID, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get quote %s: %w", publicID, err)
	}
	return rec, nil
}

// List returns quotes newest first. A non-empty query filters on title,
// notes and customer.
func (s *Store) List(ctx context.Context, query string) ([]Record, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"

	out := make([]Record, 0)
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+selectColumns+`
		FROM quotes
		WHERE (? = '' OR title LIKE ? OR notes LIKE ? OR customer LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, publicID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE public_id = ?`, publicID)
	if err != nil {
		return fmt.Errorf("delete quote %s: %w", publicID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete quote %s: %w", publicID, err)
	}
	if affected == 0 {
		return fmt.Errorf("quote %s: %w", publicID, ErrNotFound)
	}
	return nil
}
