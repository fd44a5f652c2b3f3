// Package listing keeps three state surfaces consistent for the product
// listing: the shareable URL query string, the local filter/search/page
// state, and the in-flight backend query derived from them.
package listing

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// PageSize is fixed; the backend echoes it back in the envelope.
	PageSize = 12

	// Sentinel price bounds. A bound at its sentinel means "no constraint"
	// and is omitted from outgoing queries and URLs.
	MinPriceDefault = 0
	MaxPriceDefault = 1000

	DefaultSortBy    = "name"
	DefaultSortOrder = "asc"
)

// URL query parameter names. These are shareable and bookmarkable, so they
// are part of the external contract.
const (
	paramName       = "name"
	paramCategories = "categories"
	paramMinPrice   = "minPrice"
	paramMaxPrice   = "maxPrice"
	paramPage       = "page"
)

type PriceRange struct {
	Min float64
	Max float64
}

func DefaultPriceRange() PriceRange {
	return PriceRange{Min: MinPriceDefault, Max: MaxPriceDefault}
}

func (p PriceRange) IsDefault() bool {
	return p.Min == MinPriceDefault && p.Max == MaxPriceDefault
}

// normalized makes degenerate ranges unrepresentable: an upper bound of zero
// means "no upper bound" and becomes the sentinel, and an inverted range
// falls back to the defaults.
func (p PriceRange) normalized() PriceRange {
	if p.Max == 0 {
		p.Max = MaxPriceDefault
	}
	if p.Min > p.Max {
		return DefaultPriceRange()
	}
	return p
}

// FilterState is the user-facing filter selection. Categories preserve the
// order the user toggled them in, for rendering active-filter chips; matching
// treats them as a set.
type FilterState struct {
	SearchTerm string
	Categories []string
	PriceRange PriceRange
}

func DefaultFilters() FilterState {
	return FilterState{PriceRange: DefaultPriceRange()}
}

func (f FilterState) Active() bool {
	return f.SearchTerm != "" || len(f.Categories) > 0 || !f.PriceRange.IsDefault()
}

func (f FilterState) HasCategory(name string) bool {
	for _, c := range f.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ParsePrice coerces raw user or URL input to a price bound. Anything that is
// not a non-negative number falls back to the given sentinel; no invalid
// bound is representable.
func ParsePrice(raw string, sentinel float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return sentinel
	}
	return v
}

// ParseValues reconstructs filter state and page from URL query parameters.
// Absent or invalid parameters mean defaults: the URL is the shareable source
// of truth and must always parse to a usable state.
func ParseValues(values url.Values) (FilterState, int) {
	f := DefaultFilters()

	f.SearchTerm = values.Get(paramName)

	if raw := values.Get(paramCategories); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" && !f.HasCategory(c) {
				f.Categories = append(f.Categories, c)
			}
		}
	}

	if raw := values.Get(paramMinPrice); raw != "" {
		f.PriceRange.Min = ParsePrice(raw, MinPriceDefault)
	}
	if raw := values.Get(paramMaxPrice); raw != "" {
		f.PriceRange.Max = ParsePrice(raw, MaxPriceDefault)
	}
	f.PriceRange = f.PriceRange.normalized()

	page := 1
	if raw := values.Get(paramPage); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p >= 1 {
			page = p
		}
	}

	return f, page
}

// EncodeValues writes filter state and page into values with merge
// semantics: keys owned by the listing are set when non-default and deleted
// when at their default, and keys the listing does not own are left alone.
func EncodeValues(values url.Values, f FilterState, page int) {
	setOrDelete(values, paramName, f.SearchTerm)
	setOrDelete(values, paramCategories, strings.Join(f.Categories, ","))

	pr := f.PriceRange.normalized()
	minStr, maxStr := "", ""
	if pr.Min != MinPriceDefault {
		minStr = strconv.FormatFloat(pr.Min, 'f', -1, 64)
	}
	if pr.Max != MaxPriceDefault {
		maxStr = strconv.FormatFloat(pr.Max, 'f', -1, 64)
	}
	setOrDelete(values, paramMinPrice, minStr)
	setOrDelete(values, paramMaxPrice, maxStr)

	pageStr := ""
	if page > 1 {
		pageStr = strconv.Itoa(page)
	}
	setOrDelete(values, paramPage, pageStr)
}

func setOrDelete(values url.Values, key, value string) {
	if value == "" {
		values.Del(key)
		return
	}
	values.Set(key, value)
}
