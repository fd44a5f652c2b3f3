package cart

import "sync"

// Sessions maps a session id to its cart store. Carts are created on demand
// and live in memory only; a session that never comes back simply leaves an
// empty entry behind until the process restarts.
type Sessions struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewSessions() *Sessions {
	return &Sessions{stores: make(map[string]*Store)}
}

// ForSession returns the cart for sessionID, creating it on first use.
func (s *Sessions) ForSession(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[sessionID]
	if !ok {
		store = NewStore()
		s.stores[sessionID] = store
	}
	return store
}

// Drop discards the cart for sessionID, if any.
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stores, sessionID)
}
