package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is the backend request derived from filter state and page. Price
// bounds at their sentinel are zero here and omitted from the encoded
// request. Deriving twice from the same inputs yields structurally equal
// queries with identical keys, so results can be cached and deduplicated by
// query contents.
type Query struct {
	Page       int
	PageSize   int
	Name       string
	Categories []string
	MinPrice   float64
	MaxPrice   float64
	SortBy     string
	SortOrder  string
}

// Derive computes the backend query for the given filter state and page.
func Derive(f FilterState, page int) Query {
	if page < 1 {
		page = 1
	}

	q := Query{
		Page:      page,
		PageSize:  PageSize,
		Name:      f.SearchTerm,
		SortBy:    DefaultSortBy,
		SortOrder: DefaultSortOrder,
	}
	if len(f.Categories) > 0 {
		q.Categories = make([]string, len(f.Categories))
		copy(q.Categories, f.Categories)
	}
	if f.PriceRange.Min != MinPriceDefault {
		q.MinPrice = f.PriceRange.Min
	}
	if f.PriceRange.Max != MaxPriceDefault {
		q.MaxPrice = f.PriceRange.Max
	}
	return q
}

// Values encodes the query as backend request parameters. Zero-valued
// optional fields are omitted.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Name != "" {
		values.Set("name", q.Name)
	}
	if len(q.Categories) > 0 {
		values.Set("categories", strings.Join(q.Categories, ","))
	}
	if q.MinPrice > 0 {
		values.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		values.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	values.Set("sortBy", q.SortBy)
	values.Set("sortOrder", q.SortOrder)
	return values
}

// Key is a canonical string form of the query, stable across derivations
// with equal inputs. url.Values.Encode sorts by key.
func (q Query) Key() string {
	return "products?" + q.Values().Encode()
}
