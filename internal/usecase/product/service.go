package product

import (
	"context"

	"github.com/go-playground/validator/v10"

	dom "example.com/marketplace/app/internal/domain/product"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type Service struct {
	repo     dom.Repository
	validate *validator.Validate
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// List applies pagination defaults, validates the filter and queries the
// repository. The returned envelope always echoes the effective page and
// page size.
func (s *Service) List(ctx context.Context, filter dom.Filter) (dom.PaginatedResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.SortBy == "" {
		filter.SortBy = "name"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}

	if err := s.validate.Struct(filter); err != nil {
		return dom.PaginatedResult{}, err
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dom.PaginatedResult{}, err
	}
	if products == nil {
		products = []dom.Product{}
	}

	return dom.PaginatedResult{
		Data:       products,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, productId string) (*dom.Product, error) {
	return s.repo.GetByID(ctx, productId)
}
