// Package cache adds a Redis read-through layer in front of the product
// repository. Listing pages are keyed by the canonical query parameters with
// a short TTL; a Redis failure falls through to the repository so the cache
// can never take the listing down.
package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domproduct "example.com/marketplace/app/internal/domain/product"
)

type cachedPage struct {
	Products []domproduct.Product `json:"products"`
	Total    int                  `json:"total"`
}

// redisCommands is the slice of the redis client the cache needs.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type ProductRepository struct {
	next   domproduct.Repository
	client redisCommands
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewProductRepository(next domproduct.Repository, client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *ProductRepository {
	return &ProductRepository{next: next, client: client, ttl: ttl, log: log}
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.Filter) ([]domproduct.Product, int, error) {
	key := listKey(filter)

	if raw, err := r.client.Get(ctx, key).Result(); err == nil {
		var page cachedPage
		if err := json.Unmarshal([]byte(raw), &page); err == nil {
			return page.Products, page.Total, nil
		}
	} else if err != redis.Nil {
		r.log.Warnw("listing cache read failed", "key", key, "error", err)
	}

	products, total, err := r.next.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if raw, err := json.Marshal(cachedPage{Products: products, Total: total}); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.log.Warnw("listing cache write failed", "key", key, "error", err)
		}
	}
	return products, total, nil
}

// GetByID is not cached; detail lookups are cheap and staleness there is
// more visible than on listing pages.
func (r *ProductRepository) GetByID(ctx context.Context, productId string) (*domproduct.Product, error) {
	return r.next.GetByID(ctx, productId)
}

// listKey is a canonical serialization of the filter: identical filters
// always produce identical keys. url.Values.Encode sorts by key.
func listKey(filter domproduct.Filter) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(filter.Page))
	values.Set("pageSize", strconv.Itoa(filter.PageSize))
	if filter.Name != "" {
		values.Set("name", filter.Name)
	}
	if len(filter.Categories) > 0 {
		values.Set("categories", strings.Join(filter.Categories, ","))
	}
	if filter.MinPrice > 0 {
		values.Set("minPrice", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		values.Set("maxPrice", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	values.Set("sortBy", filter.SortBy)
	values.Set("sortOrder", filter.SortOrder)
	return "listing:products:" + values.Encode()
}
