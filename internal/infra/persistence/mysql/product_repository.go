package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	domproduct "example.com/marketplace/app/internal/domain/product"
)

const productColumns = "id, name, description, price, original_price, image, category, in_stock, rating, reviews"

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.Filter) ([]domproduct.Product, int, error) {
	var clauses []string
	var args []any

	if filter.Name != "" {
		clauses = append(clauses, "LOWER(name) LIKE ?")
		args = append(args, fmt.Sprintf("%%%s%%", strings.ToLower(filter.Name)))
	}
	if len(filter.Categories) > 0 {
		clauses = append(clauses, "category IN (?"+strings.Repeat(",?", len(filter.Categories)-1)+")")
		for _, c := range filter.Categories {
			args = append(args, c)
		}
	}
	if filter.MinPrice > 0 {
		clauses = append(clauses, "price >= ?")
		args = append(args, filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		clauses = append(clauses, "price <= ?")
		args = append(args, filter.MaxPrice)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY " + sortColumn(filter.SortBy) + " " + sortDirection(filter.SortOrder) +
		" LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domproduct.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, productId string) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", productId)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domproduct.Product, error) {
	var p domproduct.Product
	var originalPrice, rating sql.NullFloat64
	var reviews sql.NullInt64

	err := row.Scan(&p.Id, &p.Name, &p.Description, &p.Price, &originalPrice,
		&p.Image, &p.Category, &p.InStock, &rating, &reviews)
	if err != nil {
		return domproduct.Product{}, err
	}
	p.OriginalPrice = originalPrice.Float64
	p.Rating = rating.Float64
	p.Reviews = int(reviews.Int64)
	return p, nil
}

// sortColumn whitelists sortable columns; anything else sorts by name.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "price":
		return "price"
	case "rating":
		return "rating"
	default:
		return "name"
	}
}

func sortDirection(order string) string {
	if order == "desc" {
		return "DESC"
	}
	return "ASC"
}
