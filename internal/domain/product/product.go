package product

type Product struct {
	Id            string  `json:"productId"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	InStock       bool    `json:"inStock"`
	Rating        float64 `json:"rating,omitempty"`
	Reviews       int     `json:"reviews,omitempty"`
}

// Filter carries the listing query the backend understands. Zero values mean
// "no constraint"; Page and PageSize are defaulted by the service.
type Filter struct {
	Name       string   `validate:"omitempty"`
	Categories []string `validate:"omitempty"`
	MinPrice   float64  `validate:"omitempty,gte=0"`
	MaxPrice   float64  `validate:"omitempty,gte=0"`
	Page       int      `validate:"omitempty,min=1"`
	PageSize   int      `validate:"omitempty,min=1,max=100"`
	SortBy     string   `validate:"omitempty,oneof=name price rating"`
	SortOrder  string   `validate:"omitempty,oneof=asc desc"`
}

type PaginatedResult struct {
	Data       []Product `json:"data"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
}

func (r PaginatedResult) TotalPages() int {
	if r.PageSize <= 0 || r.TotalCount <= 0 {
		return 0
	}
	return (r.TotalCount + r.PageSize - 1) / r.PageSize
}
