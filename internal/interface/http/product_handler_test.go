package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcategory "example.com/marketplace/app/internal/domain/category"
	domproduct "example.com/marketplace/app/internal/domain/product"
	"example.com/marketplace/app/internal/infra/security"
	cartuc "example.com/marketplace/app/internal/usecase/cart"
	categoryuc "example.com/marketplace/app/internal/usecase/category"
	productuc "example.com/marketplace/app/internal/usecase/product"
)

// --- Mock repositories ---

type mockProductRepository struct {
	products   []domproduct.Product
	lastFilter domproduct.Filter
	listErr    error
}

func (m *mockProductRepository) List(ctx context.Context, filter domproduct.Filter) ([]domproduct.Product, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}

	var matched []domproduct.Product
	for _, p := range m.products {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesFilter(p domproduct.Product, f domproduct.Filter) bool {
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == p.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			a, b := h[i+j], n[j]
			if 'A' <= a && a <= 'Z' {
				a += 'a' - 'A'
			}
			if 'A' <= b && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (m *mockProductRepository) GetByID(ctx context.Context, productId string) (*domproduct.Product, error) {
	for _, p := range m.products {
		if p.Id == productId {
			cloned := p
			return &cloned, nil
		}
	}
	return nil, domproduct.ErrProductNotFound
}

type mockCategoryRepository struct {
	categories []domcategory.Category
	listErr    error
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domcategory.Category, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.categories, nil
}

func (m *mockCategoryRepository) GetByName(ctx context.Context, name string) (*domcategory.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			cloned := c
			return &cloned, nil
		}
	}
	return nil, domcategory.ErrCategoryNotFound
}

func testProducts() []domproduct.Product {
	return []domproduct.Product{
		{Id: "1", Name: "Wireless Headphones", Price: 199.99, Category: "Electronics", InStock: true},
		{Id: "2", Name: "Fitness Watch", Price: 299.99, Category: "Electronics", InStock: true},
		{Id: "3", Name: "Cotton T-Shirt", Price: 29.99, Category: "Clothing", InStock: true},
		{Id: "4", Name: "Camera Lens", Price: 899.99, Category: "Photography", InStock: false},
	}
}

func newTestAPI(productRepo *mockProductRepository, categoryRepo *mockCategoryRepository) *API {
	if productRepo == nil {
		productRepo = &mockProductRepository{products: testProducts()}
	}
	if categoryRepo == nil {
		categoryRepo = &mockCategoryRepository{
			categories: []domcategory.Category{
				{Id: "1", Name: "Electronics", Slug: "electronics"},
				{Id: "2", Name: "Clothing", Slug: "clothing"},
			},
		}
	}
	return NewAPI(Dependencies{
		ProductService:  productuc.NewService(productRepo),
		CategoryService: categoryuc.NewService(categoryRepo),
		CartSessions:    cartuc.NewSessions(),
		SessionService:  security.NewSessionService("test-secret", time.Hour),
	})
}

func doRequest(api *API, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestListProducts_ReturnsPaginatedEnvelope(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domproduct.PaginatedResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Data, 4)
	require.Equal(t, 4, result.TotalCount)
	require.Equal(t, 1, result.Page)
	require.Equal(t, 12, result.PageSize)
}

func TestListProducts_AppliesFilters(t *testing.T) {
	repo := &mockProductRepository{products: testProducts()}
	api := newTestAPI(repo, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/products?name=watch&categories=Electronics,Clothing&minPrice=50&maxPrice=500&page=1", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "watch", repo.lastFilter.Name)
	require.Equal(t, []string{"Electronics", "Clothing"}, repo.lastFilter.Categories)
	require.Equal(t, 50.0, repo.lastFilter.MinPrice)
	require.Equal(t, 500.0, repo.lastFilter.MaxPrice)

	var result domproduct.PaginatedResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Data, 1)
	require.Equal(t, "Fitness Watch", result.Data[0].Name)
}

func TestListProducts_EmptyPageIsNoContent(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?name=nomatch", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.Bytes())
}

func TestListProducts_InvalidSortRejected(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?sortBy=bogus", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct_Found(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/3", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var p domproduct.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Cotton T-Shirt", p.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/999", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "product not found", resp.Error)
}

func TestListCategories(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data []domcategory.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 2)
}

func TestGetCategory(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/Electronics", nil)
	rec := doRequest(api, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var c domcategory.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, "Electronics", c.Name)
	require.Equal(t, "electronics", c.Slug)
}

func TestGetCategory_NotFound(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/Furniture", nil)
	rec := doRequest(api, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := doRequest(api, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
