package cart

import (
	"sync"

	domcart "example.com/marketplace/app/internal/domain/cart"
	domproduct "example.com/marketplace/app/internal/domain/product"
)

// Store holds the cart aggregate for one shopping session. Every consumer
// (header badge, product views, cart page) mutates it through the four
// operations below; the derived totals are recomputed on each mutation so a
// Snapshot is always consistent with its lines.
//
// The store does not check stock. Refusing an out-of-stock product is a
// presentation-layer rule, not a cart invariant.
type Store struct {
	mu        sync.Mutex
	lines     []domcart.Line
	index     map[string]int
	itemCount int
	total     float64
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// AddItem appends a line with quantity 1, or increments the existing line for
// the same product. It never fails.
func (s *Store) AddItem(p domproduct.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[p.Id]; ok {
		s.lines[i].Quantity++
	} else {
		s.index[p.Id] = len(s.lines)
		s.lines = append(s.lines, domcart.Line{Product: p, Quantity: 1})
	}
	s.recompute()
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line; an unknown product id is a no-op.
func (s *Store) UpdateQuantity(productId string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productId]
	if !ok {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
	} else {
		s.lines[i].Quantity = quantity
	}
	s.recompute()
}

// RemoveItem deletes the line for productId if present.
func (s *Store) RemoveItem(productId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productId]
	if !ok {
		return
	}
	s.removeAt(i)
	s.recompute()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.index = make(map[string]int)
	s.recompute()
}

// Snapshot returns a copy of the current state for rendering.
func (s *Store) Snapshot() domcart.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domcart.Line, len(s.lines))
	copy(lines, s.lines)
	return domcart.State{
		Lines:     lines,
		ItemCount: s.itemCount,
		Total:     s.total,
	}
}

func (s *Store) removeAt(i int) {
	delete(s.index, s.lines[i].Product.Id)
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].Product.Id] = j
	}
}

func (s *Store) recompute() {
	s.itemCount = 0
	s.total = 0
	for _, l := range s.lines {
		s.itemCount += l.Quantity
		s.total += l.Subtotal()
	}
}
