// Package client is the HTTP consumer of the marketplace listing API. The
// backend is a black box to the rest of the code: this package owns the wire
// contract (paths, envelope, status mapping) and nothing else does.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	domcategory "example.com/marketplace/app/internal/domain/category"
	domproduct "example.com/marketplace/app/internal/domain/product"
	"example.com/marketplace/app/internal/listing"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the API at baseURL. A nil httpClient means
// http.DefaultClient; timeouts are the transport's concern.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListProducts executes a derived listing query. A 204 from the backend is an
// empty page, not an error: the result carries the query's page and size with
// a zero total.
func (c *Client) ListProducts(ctx context.Context, q listing.Query) (domproduct.PaginatedResult, error) {
	empty := domproduct.PaginatedResult{Page: q.Page, PageSize: q.PageSize}

	endpoint := c.baseURL + "/api/v1/products?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return empty, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var result domproduct.PaginatedResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return empty, fmt.Errorf("decode products page: %w", err)
		}
		return result, nil
	case http.StatusNoContent:
		return empty, nil
	default:
		return empty, fmt.Errorf("list products: unexpected status %d", resp.StatusCode)
	}
}

// GetProduct fetches a single product. A 404 maps to ErrProductNotFound so
// callers can render "not found" distinctly from a fetch failure.
func (c *Client) GetProduct(ctx context.Context, productId string) (*domproduct.Product, error) {
	endpoint := c.baseURL + "/api/v1/products/" + productId
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var p domproduct.Product
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		return &p, nil
	case http.StatusNotFound:
		return nil, domproduct.ErrProductNotFound
	default:
		return nil, fmt.Errorf("get product %s: unexpected status %d", productId, resp.StatusCode)
	}
}

// ListCategories fetches the filter options. Independent of the product
// query itself.
func (c *Client) ListCategories(ctx context.Context) ([]domcategory.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/categories", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list categories: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data []domcategory.Category `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return payload.Data, nil
}
