package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAPIVersion = "2024-01"
	pageLimit         = 250
)

// APIError is a non-2xx response from the Admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api returned %d: %s", e.StatusCode, e.Body)
}

// Client reads products from the Shopify Admin REST API.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	http       *http.Client
}

// NewClient builds a client for storeURL, which may be a bare host such as
// "shop.myshopify.com" or a full URL.
func NewClient(storeURL, token, apiVersion string, httpClient *http.Client) *Client {
	base := strings.TrimRight(strings.TrimSpace(storeURL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base, token: token, apiVersion: apiVersion, http: httpClient}
}

type productsPage struct {
	Products []Product `json:"products"`
}

// FetchProducts returns every product in the store, following the cursor
// pagination Link headers.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	next := fmt.Sprintf("%s/admin/api/%s/products.json?limit=%d", c.baseURL, c.apiVersion, pageLimit)

	out := make([]Product, 0)
	for next != "" {
		page, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		next = nextPageURL(link)
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) ([]Product, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build shopify request: %w", err)
	}
	req.Header.Set(HeaderToken, c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch shopify products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var page productsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode shopify products: %w", err)
	}
	return page.Products, resp.Header.Get("Link"), nil
}

// nextPageURL extracts the rel="next" target from a Link header.
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		sections := strings.Split(part, ";")
		if len(sections) < 2 {
			continue
		}
		target := strings.TrimSpace(sections[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, attr := range sections[1:] {
			if strings.ReplaceAll(strings.TrimSpace(attr), " ", "") == `rel="next"` {
				return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
			}
		}
	}
	return ""
}
