// Package shopify mirrors a Shopify store's products into the local catalogue,
// by full sync or by product webhooks.
package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/printdesk/internal/products"
)

const (
	HeaderHmac  = "X-Shopify-Hmac-Sha256"
	HeaderTopic = "X-Shopify-Topic"
	HeaderToken = "X-Shopify-Access-Token"

	TopicProductCreate = "products/create"
	TopicProductUpdate = "products/update"
	TopicProductDelete = "products/delete"
)

// Product is the subset of a Shopify product payload the catalogue uses.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	ProductType string    `json:"product_type"`
	Variants    []Variant `json:"variants"`
}

type Variant struct {
	ID                int64  `json:"id"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// VerifyWebhook checks the base64 HMAC-SHA256 signature Shopify sends with a
// webhook. Verification is skipped, and true returned, when either the secret
// or the signature header is empty.
func VerifyWebhook(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SKU is the catalogue key for a Shopify product id.
func SKU(id int64) string {
	return "SHOPIFY-" + strconv.FormatInt(id, 10)
}

// ToProduct maps a Shopify product onto a catalogue row. Price, cost and
// stock come from the first variant; Shopify carries no cost, so cost is
// set to the price.
func ToProduct(p Product) products.Product {
	out := products.Product{
		SKU:      SKU(p.ID),
		Name:     p.Title,
		Category: p.ProductType,
		Notes:    "Synced from Shopify: " + p.Handle,
	}
	if out.Category == "" {
		out.Category = products.DefaultCategory
	}
	if len(p.Variants) > 0 {
		v := p.Variants[0]
		out.Price = parsePrice(v.Price)
		out.Cost = out.Price
		out.StockQuantity = v.InventoryQuantity
	}
	return out
}

// parsePrice reads Shopify's decimal string prices; anything unparsable is 0.
func parsePrice(raw string) float64 {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
