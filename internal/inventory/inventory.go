// Package inventory stores the filaments, hardware and packaging a quote can
// draw costs from.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/printdesk/internal/validate"
)

// ErrNotFound is returned when an inventory row does not exist.
var ErrNotFound = errors.New("inventory item not found")

// Kind names an inventory table as it appears in URLs.
type Kind string

const (
	KindFilament  Kind = "filaments"
	KindHardware  Kind = "hardware"
	KindPackaging Kind = "packaging"
)

// ParseKind maps a URL segment to a Kind.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindFilament, KindHardware, KindPackaging:
		return k, nil
	}
	return "", &validate.Error{Field: "kind", Message: "must be filaments, hardware or packaging"}
}

type Filament struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	Material   string  `json:"material" db:"material"`
	Color      string  `json:"color" db:"color"`
	CostPerKg  float64 `json:"cost_per_kg" db:"cost_per_kg"`
	StockGrams float64 `json:"stock_grams" db:"stock_grams"`
	Notes      string  `json:"notes" db:"notes"`
	Active     bool    `json:"active" db:"active"`
	CreatedAt  string  `json:"created_at" db:"created_at"`
	UpdatedAt  string  `json:"updated_at" db:"updated_at"`
}

// Item is a hardware or packaging add-on priced per unit.
type Item struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	UnitCost  float64 `json:"unit_cost" db:"unit_cost"`
	Stock     float64 `json:"stock" db:"stock"`
	Notes     string  `json:"notes" db:"notes"`
	Active    bool    `json:"active" db:"active"`
	CreatedAt string  `json:"created_at" db:"created_at"`
	UpdatedAt string  `json:"updated_at" db:"updated_at"`
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func itemTable(kind Kind) (string, error) {
	switch kind {
	case KindHardware:
		return "hardware_items", nil
	case KindPackaging:
		return "packaging_items", nil
	}
	return "", fmt.Errorf("no item table for kind %q", kind)
}

func stockColumn(kind Kind) (table, column string, err error) {
	if kind == KindFilament {
		return "filaments", "stock_grams", nil
	}
	table, err = itemTable(kind)
	return table, "stock", err
}

func (s *Store) ListFilaments(ctx context.Context, activeOnly bool) ([]Filament, error) {
	out := make([]Filament, 0)
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, name, material, color, cost_per_kg, stock_grams, notes, active, created_at, updated_at
		FROM filaments
		WHERE (? = 0 OR active = TRUE)
		ORDER BY name ASC, id ASC
	`, boolInt(activeOnly))
	if err != nil {
		return nil, fmt.Errorf("list filaments: %w", err)
	}
	return out, nil
}

func (s *Store) GetFilament(ctx context.Context, id int64) (Filament, error) {
	var f Filament
	err := s.db.GetContext(ctx, &f, `
		SELECT id, name, material, color, cost_per_kg, stock_grams, notes, active, created_at, updated_at
		FROM filaments
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Filament{}, fmt.Errorf("filament %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Filament{}, fmt.Errorf("get filament %d: %w", id, err)
	}
	return f, nil
}

// CreateFilament inserts an active filament and returns the stored row.
func (s *Store) CreateFilament(ctx context.Context, f Filament) (Filament, error) {
	f = f.trimmed()
	if err := ValidateFilament(f); err != nil {
		return Filament{}, err
	}
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO filaments (name, material, color, cost_per_kg, stock_grams, notes, active)
		VALUES (:name, :material, :color, :cost_per_kg, :stock_grams, :notes, TRUE)
	`, f)
	if err != nil {
		return Filament{}, fmt.Errorf("insert filament: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Filament{}, fmt.Errorf("read filament id: %w", err)
	}
	return s.GetFilament(ctx, id)
}

func (s *Store) UpdateFilament(ctx context.Context, f Filament) (Filament, error) {
	f = f.trimmed()
	if err := ValidateFilament(f); err != nil {
		return Filament{}, err
	}
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE filaments
		SET
			name = :name,
			material = :material,
			color = :color,
			cost_per_kg = :cost_per_kg,
			stock_grams = :stock_grams,
			notes = :notes,
			active = :active,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, f)
	if err != nil {
		return Filament{}, fmt.Errorf("update filament %d: %w", f.ID, err)
	}
	if err := requireAffected(res, f.ID); err != nil {
		return Filament{}, err
	}
	return s.GetFilament(ctx, f.ID)
}

func (s *Store) ListItems(ctx context.Context, kind Kind, activeOnly bool) ([]Item, error) {
	table, err := itemTable(kind)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0)
	err = s.db.SelectContext(ctx, &out, `
		SELECT id, name, unit_cost, stock, notes, active, created_at, updated_at
		FROM `+table+`
		WHERE (? = 0 OR active = TRUE)
		ORDER BY name ASC, id ASC
	`, boolInt(activeOnly))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

func (s *Store) GetItem(ctx context.Context, kind Kind, id int64) (Item, error) {
	table, err := itemTable(kind)
	if err != nil {
		return Item{}, err
	}
	var it Item
	err = s.db.GetContext(ctx, &it, `
		SELECT id, name, unit_cost, stock, notes, active, created_at, updated_at
		FROM `+table+`
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("%s item %d: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("get %s item %d: %w", kind, id, err)
	}
	return it, nil
}

// CreateItem inserts an active item of kind and returns the stored row.
func (s *Store) CreateItem(ctx context.Context, kind Kind, it Item) (Item, error) {
	table, err := itemTable(kind)
	if err != nil {
		return Item{}, err
	}
	it = it.trimmed()
	if err := ValidateItem(it); err != nil {
		return Item{}, err
	}
	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO `+table+` (name, unit_cost, stock, notes, active)
		VALUES (:name, :unit_cost, :stock, :notes, TRUE)
	`, it)
	if err != nil {
		return Item{}, fmt.Errorf("insert %s item: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, fmt.Errorf("read %s item id: %w", kind, err)
	}
	return s.GetItem(ctx, kind, id)
}

func (s *Store) UpdateItem(ctx context.Context, kind Kind, it Item) (Item, error) {
	table, err := itemTable(kind)
	if err != nil {
		return Item{}, err
	}
	it = it.trimmed()
	if err := ValidateItem(it); err != nil {
		return Item{}, err
	}
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE `+table+`
		SET
			name = :name,
			unit_cost = :unit_cost,
			stock = :stock,
			notes = :notes,
			active = :active,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, it)
	if err != nil {
		return Item{}, fmt.Errorf("update %s item %d: %w", kind, it.ID, err)
	}
	if err := requireAffected(res, it.ID); err != nil {
		return Item{}, err
	}
	return s.GetItem(ctx, kind, it.ID)
}

// AdjustStock adds delta (negative to consume) to the stock of one row.
// Stock may go negative; the shop floor is the source of truth.
func (s *Store) AdjustStock(ctx context.Context, kind Kind, id int64, delta float64) error {
	if err := validate.Finite("delta", delta); err != nil {
		return err
	}
	table, column, err := stockColumn(kind)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE `+table+`
		SET `+column+` = `+column+` + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust %s stock %d: %w", kind, id, err)
	}
	return requireAffected(res, id)
}

func ValidateFilament(f Filament) error {
	return validate.First(
		validate.Required("name", f.Name),
		validate.NonNegative("cost_per_kg", f.CostPerKg),
		validate.Finite("stock_grams", f.StockGrams),
	)
}

func ValidateItem(it Item) error {
	return validate.First(
		validate.Required("name", it.Name),
		validate.NonNegative("unit_cost", it.UnitCost),
		validate.Finite("stock", it.Stock),
	)
}

func (f Filament) trimmed() Filament {
	f.Name = strings.TrimSpace(f.Name)
	f.Material = strings.TrimSpace(f.Material)
	f.Color = strings.TrimSpace(f.Color)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func (it Item) trimmed() Item {
	it.Name = strings.TrimSpace(it.Name)
	it.Notes = strings.TrimSpace(it.Notes)
	return it
}

func requireAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
