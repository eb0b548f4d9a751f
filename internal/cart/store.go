package cart

import (
	"context"
	"sync"
)

// Store is the persistence capability behind the cart: an opaque snapshot
// blob keyed by session. Load returns (nil, nil) when no usable snapshot
// exists; implementations swallow corrupt blobs rather than surfacing them.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is the in-process Store used in tests and single-node dev.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string]*Cart{}}
}

// Load returns a deep copy of the stored cart, or nil when absent.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[sessionID].clone(), nil
}

// Save stores a deep copy of the cart under the session key.
func (s *MemoryStore) Save(_ context.Context, sessionID string, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart == nil {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = cart.clone()
	return nil
}

// Delete removes the stored cart for the session.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
