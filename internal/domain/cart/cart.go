package cart

import domproduct "example.com/marketplace/app/internal/domain/product"

// Line is one product-plus-quantity entry. Identity is the product id; a
// cart never holds two lines for the same product.
type Line struct {
	Product  domproduct.Product `json:"product"`
	Quantity int                `json:"quantity"`
}

func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// State is a point-in-time copy of a cart: the lines in insertion order plus
// the totals derived from them.
type State struct {
	Lines     []Line  `json:"lines"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}
