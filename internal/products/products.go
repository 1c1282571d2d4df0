// Package products stores the shop catalogue mirrored from external storefronts.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/printdesk/internal/validate"
)

// DefaultCategory is used when a product arrives without one.
const DefaultCategory = "General"

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID            int64   `json:"id" db:"id"`
	SKU           string  `json:"sku" db:"sku"`
	Name          string  `json:"name" db:"name"`
	Category      string  `json:"category" db:"category"`
	Cost          float64 `json:"cost" db:"cost"`
	Price         float64 `json:"price" db:"price"`
	StockQuantity int     `json:"stock_quantity" db:"stock_quantity"`
	Notes         string  `json:"notes" db:"notes"`
	CreatedAt     string  `json:"created_at" db:"created_at"`
	UpdatedAt     string  `json:"updated_at" db:"updated_at"`
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// UpsertBySKU inserts p or overwrites the row with the same SKU. created
// reports which of the two happened.
func (s *Store) UpsertBySKU(ctx context.Context, p Product) (created bool, err error) {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}
	if err := validate.First(
		validate.Required("sku", p.SKU),
		validate.Required("name", p.Name),
		validate.Finite("cost", p.Cost),
		validate.Finite("price", p.Price),
	); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin product upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM products WHERE sku = ? LIMIT 1)`, p.SKU); err != nil {
		return false, fmt.Errorf("check product %s existence: %w", p.SKU, err)
	}

	if exists {
		_, err = tx.NamedExecContext(ctx, `
			UPDATE products
			SET
				name = :name,
				category = :category,
				cost = :cost,
				price = :price,
				stock_quantity = :stock_quantity,
				notes = :notes,
				updated_at = CURRENT_TIMESTAMP
			WHERE sku = :sku
		`, p)
	} else {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO products (sku, name, category, cost, price, stock_quantity, notes)
			VALUES (:sku, :name, :category, :cost, :price, :stock_quantity, :notes)
		`, p)
	}
	if err != nil {
		return false, fmt.Errorf("upsert product %s: %w", p.SKU, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit product upsert: %w", err)
	}
	return !exists, nil
}

func (s *Store) GetBySKU(ctx context.Context, sku string) (Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p, `
		SELECT id, sku, name, category, cost, price, stock_quantity, notes, created_at, updated_at
		FROM products
		WHERE sku = ?
	`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %s: %w", sku, ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %s: %w", sku, err)
	}
	return p, nil
}

func (s *Store) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0)
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, sku, name, category, cost, price, stock_quantity, notes, created_at, updated_at
		FROM products
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// DeleteBySKU removes the product with sku. Deleting a missing SKU is not an
// error; deleted reports whether a row was removed.
func (s *Store) DeleteBySKU(ctx context.Context, sku string) (deleted bool, err error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE sku = ?`, sku)
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", sku, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", sku, err)
	}
	return n > 0, nil
}
