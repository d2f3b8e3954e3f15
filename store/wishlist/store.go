/*
Package wishlist holds the wishlist store: a local-only product list
written through to local storage on every change.
*/
package wishlist

import (
	"fmt"
	"sync"

	"storefront/internal/localstore"
	"storefront/model"
	"storefront/pkg/logger"
	"storefront/store/notify"

	"go.uber.org/zap"
)

// Store owns the wishlist state slice.
type Store struct {
	local    localstore.Store
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.Mutex
	items []model.Product
}

// New builds the store and restores the persisted wishlist.
func New(local localstore.Store, notifier notify.Notifier) *Store {
	s := &Store{
		local:    local,
		notifier: notifier,
		log:      logger.WithStore("wishlist"),
		items:    []model.Product{},
	}
	var items []model.Product
	if found, err := local.Get(localstore.KeyWishlist, &items); err != nil {
		s.log.Warn("failed to restore wishlist", zap.Error(err))
	} else if found && items != nil {
		s.items = items
	}
	return s
}

func (s *Store) persistLocked() {
	if err := s.local.Put(localstore.KeyWishlist, s.items); err != nil {
		s.log.Error("failed to persist wishlist", zap.Error(err))
	}
}

// Add puts a product on the wishlist. Adding a product twice is a no-op.
func (s *Store) Add(product model.Product) {
	s.mu.Lock()
	for _, item := range s.items {
		if item.ID == product.ID {
			s.mu.Unlock()
			notify.Push(s.notifier, fmt.Sprintf("%s is already in your wishlist", product.Name), notify.Info)
			return
		}
	}
	s.items = append(s.items, product)
	s.persistLocked()
	s.mu.Unlock()

	notify.Push(s.notifier, fmt.Sprintf("%s added to wishlist!", product.Name), notify.Success)
}

// Remove takes a product off the wishlist. Unknown ids are silent no-ops.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	var removed *model.Product
	items := s.items[:0]
	for _, item := range s.items {
		if item.ID == productID {
			removed = &item
			continue
		}
		items = append(items, item)
	}
	s.items = items
	if removed != nil {
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed != nil {
		notify.Push(s.notifier, fmt.Sprintf("%s removed from wishlist", removed.Name), notify.Info)
	}
}

// Toggle adds the product if absent, removes it if present.
func (s *Store) Toggle(product model.Product) {
	if s.Contains(product.ID) {
		s.Remove(product.ID)
		return
	}
	s.Add(product)
}

// Contains reports whether the product is wishlisted.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Clear empties the wishlist.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = []model.Product{}
	s.persistLocked()
	s.mu.Unlock()
	notify.Push(s.notifier, "Wishlist cleared", notify.Info)
}

// Items returns a copy of the wishlist.
func (s *Store) Items() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Product(nil), s.items...)
}

// Count returns the number of wishlisted products.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
