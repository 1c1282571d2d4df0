package products

import (
	"context"
	"errors"
	"testing"

	"github.com/Simplici0/printdesk/internal/dbtest"
	"github.com/Simplici0/printdesk/internal/validate"
)

func TestUpsertBySKU(t *testing.T) {
	ctx := context.Background()
	store := NewStore(dbtest.Open(t))

	created, err := store.UpsertBySKU(ctx, Product{SKU: "SHOPIFY-1", Name: "Vase", Cost: 12, Price: 12, StockQuantity: 4})
	if err != nil {
		t.Fatalf("UpsertBySKU insert: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}

	created, err = store.UpsertBySKU(ctx, Product{SKU: "SHOPIFY-1", Name: "Vase XL", Category: "Decor", Cost: 15, Price: 15, StockQuantity: 2})
	if err != nil {
		t.Fatalf("UpsertBySKU update: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to update")
	}

	got, err := store.GetBySKU(ctx, "SHOPIFY-1")
	if err != nil {
		t.Fatalf("GetBySKU: %v", err)
	}
	if got.Name != "Vase XL" || got.Category != "Decor" || got.StockQuantity != 2 || got.Price != 15 {
		t.Fatalf("unexpected product after update: %+v", got)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 product, got %d", len(all))
	}
}

func TestUpsertBySKUDefaultsCategory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(dbtest.Open(t))

	if _, err := store.UpsertBySKU(ctx, Product{SKU: "A", Name: "Hook"}); err != nil {
		t.Fatalf("UpsertBySKU: %v", err)
	}
	got, err := store.GetBySKU(ctx, "A")
	if err != nil {
		t.Fatalf("GetBySKU: %v", err)
	}
	if got.Category != DefaultCategory {
		t.Fatalf("category = %q, want %q", got.Category, DefaultCategory)
	}
}

func TestUpsertBySKURequiresSKUAndName(t *testing.T) {
	store := NewStore(dbtest.Open(t))

	if _, err := store.UpsertBySKU(context.Background(), Product{Name: "No SKU"}); !validate.IsValidation(err) {
		t.Fatalf("expected validation error for missing sku, got %v", err)
	}
	if _, err := store.UpsertBySKU(context.Background(), Product{SKU: "X"}); !validate.IsValidation(err) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
}

func TestDeleteBySKU(t *testing.T) {
	ctx := context.Background()
	store := NewStore(dbtest.Open(t))

	if _, err := store.UpsertBySKU(ctx, Product{SKU: "B", Name: "Stand"}); err != nil {
		t.Fatalf("UpsertBySKU: %v", err)
	}

	deleted, err := store.DeleteBySKU(ctx, "B")
	if err != nil || !deleted {
		t.Fatalf("DeleteBySKU = %v, %v", deleted, err)
	}
	deleted, err = store.DeleteBySKU(ctx, "B")
	if err != nil || deleted {
		t.Fatalf("second DeleteBySKU = %v, %v", deleted, err)
	}
	if _, err := store.GetBySKU(ctx, "B"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
