package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Simplici0/printdesk/internal/dbtest"
	"github.com/Simplici0/printdesk/internal/products"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"id":1}`)
	good := sign("s3cret", body)

	tests := []struct {
		name      string
		secret    string
		signature string
		want      bool
	}{
		{name: "valid", secret: "s3cret", signature: good, want: true},
		{name: "wrong secret", secret: "other", signature: good, want: false},
		{name: "tampered", secret: "s3cret", signature: sign("s3cret", []byte(`{"id":2}`)), want: false},
		{name: "no secret skips", secret: "", signature: "garbage", want: true},
		{name: "no header skips", secret: "s3cret", signature: "", want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := VerifyWebhook(tc.secret, body, tc.signature); got != tc.want {
				t.Fatalf("VerifyWebhook = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestToProduct(t *testing.T) {
	got := ToProduct(Product{
		ID:          632910392,
		Title:       "Planter",
		Handle:      "planter",
		ProductType: "Home",
		Variants:    []Variant{{Price: "19.99", InventoryQuantity: 7}, {Price: "29.99"}},
	})

	if got.SKU != "SHOPIFY-632910392" || got.Name != "Planter" || got.Category != "Home" {
		t.Fatalf("unexpected identity fields: %+v", got)
	}
	if got.Price != 19.99 || got.Cost != 19.99 || got.StockQuantity != 7 {
		t.Fatalf("unexpected first-variant fields: %+v", got)
	}
	if got.Notes != "Synced from Shopify: planter" {
		t.Fatalf("notes = %q", got.Notes)
	}

	bare := ToProduct(Product{ID: 5, Title: "Blank"})
	if bare.Category != products.DefaultCategory || bare.Price != 0 || bare.StockQuantity != 0 {
		t.Fatalf("unexpected defaults: %+v", bare)
	}

	if ToProduct(Product{ID: 6, Variants: []Variant{{Price: "n/a"}}}).Price != 0 {
		t.Fatal("expected unparsable price to map to 0")
	}
}

func TestNextPageURL(t *testing.T) {
	link := `<https://shop.example/admin/api/2024-01/products.json?limit=250&page_info=prev>; rel="previous", ` +
		`<https://shop.example/admin/api/2024-01/products.json?limit=250&page_info=abc>; rel="next"`
	want := "https://shop.example/admin/api/2024-01/products.json?limit=250&page_info=abc"
	if got := nextPageURL(link); got != want {
		t.Fatalf("nextPageURL = %q, want %q", got, want)
	}
	if got := nextPageURL(`<https://shop.example/x>; rel="previous"`); got != "" {
		t.Fatalf("expected no next page, got %q", got)
	}
	if got := nextPageURL(""); got != "" {
		t.Fatalf("expected no next page for empty header, got %q", got)
	}
}

func TestFetchProductsFollowsPagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderToken) != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/admin/api/2024-01/products.json" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("page_info") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-01/products.json?limit=250&page_info=p2>; rel="next"`, srv.URL))
			fmt.Fprint(w, `{"products":[{"id":1,"title":"One"},{"id":2,"title":"Two"}]}`)
		case "p2":
			fmt.Fprint(w, `{"products":[{"id":3,"title":"Three"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "tok", "", srv.Client()).FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts: %v", err)
	}
	if len(got) != 3 || got[2].Title != "Three" {
		t.Fatalf("unexpected products: %+v", got)
	}
}

func TestFetchProductsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"errors":"forbidden"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok", "2024-01", srv.Client()).FetchProducts(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected APIError 403, got %v", err)
	}
}

type staticSource []Product

func (s staticSource) FetchProducts(context.Context) ([]Product, error) {
	return s, nil
}

func TestSyncCountsCreatedAndUpdated(t *testing.T) {
	ctx := context.Background()
	catalogue := products.NewStore(dbtest.Open(t))

	if _, err := catalogue.UpsertBySKU(ctx, products.Product{SKU: SKU(2), Name: "Old"}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	source := staticSource{
		{ID: 1, Title: "One", Variants: []Variant{{Price: "5.00", InventoryQuantity: 3}}},
		{ID: 2, Title: "Two", Handle: "two"},
	}
	res, err := NewSyncer(source, catalogue, nil).Sync(ctx)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res != (SyncResult{Synced: 2, Created: 1, Updated: 1}) {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, err := catalogue.GetBySKU(ctx, SKU(2))
	if err != nil {
		t.Fatalf("GetBySKU: %v", err)
	}
	if got.Name != "Two" {
		t.Fatalf("expected synced name, got %q", got.Name)
	}
}

func TestSyncWithoutSource(t *testing.T) {
	_, err := NewSyncer(nil, products.NewStore(dbtest.Open(t)), nil).Sync(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	catalogue := products.NewStore(dbtest.Open(t))
	syncer := NewSyncer(nil, catalogue, nil)

	body := []byte(`{"id":9,"title":"Lamp","handle":"lamp","variants":[{"price":"42.00","inventory_quantity":1}]}`)

	action, err := syncer.HandleWebhook(ctx, TopicProductCreate, body)
	if err != nil || action != ActionCreated {
		t.Fatalf("create webhook = %q, %v", action, err)
	}
	action, err = syncer.HandleWebhook(ctx, TopicProductUpdate, body)
	if err != nil || action != ActionUpdated {
		t.Fatalf("update webhook = %q, %v", action, err)
	}
	action, err = syncer.HandleWebhook(ctx, TopicProductDelete, []byte(`{"id":9}`))
	if err != nil || action != ActionDeleted {
		t.Fatalf("delete webhook = %q, %v", action, err)
	}
	if _, err := catalogue.GetBySKU(ctx, SKU(9)); !errors.Is(err, products.ErrNotFound) {
		t.Fatalf("expected product removed, got %v", err)
	}

	action, err = syncer.HandleWebhook(ctx, "orders/create", []byte(`{"id":1}`))
	if err != nil || action != "" {
		t.Fatalf("unhandled topic = %q, %v", action, err)
	}

	if _, err := syncer.HandleWebhook(ctx, TopicProductCreate, []byte(`not json`)); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
	if action, err := syncer.HandleWebhook(ctx, "app/uninstalled", []byte(`not json`)); err != nil || action != "" {
		t.Fatalf("ignored topic should not decode the body: %q, %v", action, err)
	}
}
