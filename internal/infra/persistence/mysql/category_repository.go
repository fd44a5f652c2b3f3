package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcategory "example.com/marketplace/app/internal/domain/category"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domcategory.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, slug, description FROM categories ORDER BY name ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domcategory.Category
	for rows.Next() {
		var c domcategory.Category
		if err := rows.Scan(&c.Id, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domcategory.Category, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, slug, description FROM categories WHERE name = ?
    `, name)

	var c domcategory.Category
	if err := row.Scan(&c.Id, &c.Name, &c.Slug, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcategory.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
