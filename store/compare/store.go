/*
Package compare holds the product comparison store: a capped, local-only
product list written through to local storage on every change.
*/
package compare

import (
	"fmt"
	"sync"

	"storefront/config"
	"storefront/internal/localstore"
	"storefront/model"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/store/notify"

	"go.uber.org/zap"
)

// Store owns the comparison state slice.
type Store struct {
	maxItems int
	local    localstore.Store
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.Mutex
	items []model.Product
}

// New builds the store and restores the persisted comparison list. Entries
// beyond the cap (a smaller cap than the one the list was written with)
// are dropped.
func New(cfg config.CompareConfig, local localstore.Store, notifier notify.Notifier) *Store {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 4
	}
	s := &Store{
		maxItems: maxItems,
		local:    local,
		notifier: notifier,
		log:      logger.WithStore("compare"),
		items:    []model.Product{},
	}
	var items []model.Product
	if found, err := local.Get(localstore.KeyComparison, &items); err != nil {
		s.log.Warn("failed to restore comparison list", zap.Error(err))
	} else if found && items != nil {
		if len(items) > maxItems {
			items = items[:maxItems]
		}
		s.items = items
	}
	return s
}

func (s *Store) persistLocked() {
	if err := s.local.Put(localstore.KeyComparison, s.items); err != nil {
		s.log.Error("failed to persist comparison list", zap.Error(err))
	}
}

// Add puts a product in the comparison. A full list rejects the add and
// leaves the list untouched.
func (s *Store) Add(product model.Product) error {
	s.mu.Lock()
	for _, item := range s.items {
		if item.ID == product.ID {
			s.mu.Unlock()
			notify.Push(s.notifier, fmt.Sprintf("%s is already in comparison", product.Name), notify.Info)
			return nil
		}
	}
	if len(s.items) >= s.maxItems {
		maxItems := s.maxItems
		s.mu.Unlock()
		msg := fmt.Sprintf("You can only compare up to %d products", maxItems)
		notify.Push(s.notifier, msg, notify.Warning)
		return errors.ComparisonFull(msg)
	}
	s.items = append(s.items, product)
	s.persistLocked()
	s.mu.Unlock()

	notify.Push(s.notifier, fmt.Sprintf("%s added to comparison!", product.Name), notify.Success)
	return nil
}

// Remove takes a product out of the comparison. Unknown ids are silent
// no-ops.
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
		notify.Push(s.notifier, fmt.Sprintf("%s removed from comparison", removed.Name), notify.Info)
	}
}

// Toggle adds the product if absent, removes it if present.
func (s *Store) Toggle(product model.Product) error {
	if s.Contains(product.ID) {
		s.Remove(product.ID)
		return nil
	}
	return s.Add(product)
}

// Contains reports whether the product is in the comparison.
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

// CanAdd reports whether there is room for another product.
func (s *Store) CanAdd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) < s.maxItems
}

// Clear empties the comparison.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = []model.Product{}
	s.persistLocked()
	s.mu.Unlock()
	notify.Push(s.notifier, "Comparison cleared", notify.Info)
}

// Items returns a copy of the comparison list.
func (s *Store) Items() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Product(nil), s.items...)
}

// Count returns the number of products in the comparison.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
