// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"sync"
)

// Store keeps one cart per owner key. Update applies fn to the owner's
// current cart and persists the result unless fn fails; concurrent updates
// for the same owner never interleave.
type Store interface {
	Load(ctx context.Context, owner string) (*Cart, error)
	Update(ctx context.Context, owner string, fn func(*Cart) error) (*Cart, error)
	Delete(ctx context.Context, owner string) error
}

// UserOwner is the owner key of an authenticated user's cart
func UserOwner(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// SessionOwner is the owner key of a guest session's cart
func SessionOwner(sessionID string) string {
	return "session:" + sessionID
}

// MemoryStore keeps carts in process memory
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

// Load returns a copy of the owner's cart, empty when none exists
func (s *MemoryStore) Load(ctx context.Context, owner string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[owner]; ok {
		return c.clone(), nil
	}
	return New(), nil
}

// Update runs fn under the store lock
func (s *MemoryStore) Update(ctx context.Context, owner string, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := New()
	if c, ok := s.carts[owner]; ok {
		working = c.clone()
	}

	if err := fn(working); err != nil {
		return nil, err
	}

	if working.Len() == 0 {
		delete(s.carts, owner)
	} else {
		s.carts[owner] = working
	}
	return working.clone(), nil
}

// Delete drops the owner's cart
func (s *MemoryStore) Delete(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, owner)
	return nil
}
