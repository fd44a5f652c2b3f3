package category

import (
	"context"

	dom "example.com/marketplace/app/internal/domain/category"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]dom.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []dom.Category{}
	}
	return categories, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*dom.Category, error) {
	return s.repo.GetByName(ctx, name)
}
