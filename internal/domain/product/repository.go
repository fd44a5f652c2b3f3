package product

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, int, error)
	GetByID(ctx context.Context, productId string) (*Product, error)
}
