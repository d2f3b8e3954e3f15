/*
Package cart holds the shopping cart store. Mutations are optimistic: the
in-memory state updates first, then a persistence strategy syncs it — the
cart API for signed-in users, local storage for anonymous ones.
*/
package cart

import (
	"context"
	"fmt"
	"sync"

	"storefront/model"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/store/auth"
	"storefront/store/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthSource is the slice of the auth store the cart observes: which
// persistence mode applies, and the login/logout transitions that switch it.
type AuthSource interface {
	IsAuthenticated() bool
	Subscribe(fn func(auth.Event)) func()
}

// Store owns the cart state slice.
type Store struct {
	authSrc  AuthSource
	remote   Persistence
	local    Persistence
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.Mutex
	state State

	unsubscribe func()
}

// New builds the store, loads the initial cart for the current auth mode,
// and subscribes to auth transitions.
func New(api API, localStore *Local, authSrc AuthSource, notifier notify.Notifier) *Store {
	s := &Store{
		authSrc:  authSrc,
		remote:   NewRemote(api),
		local:    localStore,
		notifier: notifier,
		log:      logger.WithStore("cart"),
		state:    State{Items: []model.CartItem{}},
	}
	if authSrc.IsAuthenticated() {
		s.Refresh(context.Background())
	} else {
		s.loadLocal(context.Background())
	}
	s.unsubscribe = authSrc.Subscribe(s.onAuthEvent)
	return s
}

// Close detaches the store from the auth event stream.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Store) onAuthEvent(e auth.Event) {
	switch e {
	case auth.EventLogin:
		// The server cart replaces whatever was built anonymously. Known
		// gap: local items are not merged into the account cart.
		s.Refresh(context.Background())
	case auth.EventLogout, auth.EventUnauthorized:
		s.loadLocal(context.Background())
	}
}

func (s *Store) persistence() Persistence {
	if s.authSrc.IsAuthenticated() {
		return s.remote
	}
	return s.local
}

func (s *Store) dispatch(a action) State {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	st := s.state
	s.mu.Unlock()
	return st
}

// AddItem adds a product to the cart. Adding a product already present
// merges into the existing line. In remote mode a persistence failure keeps
// the optimistic line and flags offline mode instead of rolling back.
func (s *Store) AddItem(ctx context.Context, product model.Product, quantity int) error {
	if product.ID == "" {
		notify.Push(s.notifier, "Invalid product data", notify.Error)
		return errors.Validation("Invalid product data")
	}
	if quantity < 1 {
		quantity = 1
	}

	item := model.CartItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		Image:     productImage(product),
		Price:     product.Price,
		Quantity:  quantity,
	}
	if item.Name == "" {
		item.Name = "Unknown Product"
	}

	p := s.persistence()
	st := s.dispatch(action{kind: actionAddItem, item: item})

	next, replace, err := p.Add(ctx, st, item)
	switch {
	case err != nil && p == s.remote:
		s.log.Warn("remote cart add failed, keeping optimistic item", zap.Error(err))
		notify.Push(s.notifier, "Item added to cart (offline mode)", notify.Info)
	case err != nil:
		s.log.Error("failed to persist cart", zap.Error(err))
		notify.Push(s.notifier, "Failed to add item to cart", notify.Error)
		return err
	case replace:
		s.dispatch(action{kind: actionSetCart, cart: next})
	}

	notify.Push(s.notifier, fmt.Sprintf("%s added to cart", item.Name), notify.Success)
	return nil
}

// UpdateItemQuantity sets the quantity of a cart line. Quantity below one
// removes the line. On a remote failure the server cart is re-fetched to
// undo the optimistic change.
func (s *Store) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	item, ok := s.findItem(itemID)
	if !ok {
		notify.Push(s.notifier, "Failed to update item - not found in cart", notify.Error)
		return errors.NotFound("cart item not found")
	}

	p := s.persistence()
	st := s.dispatch(action{kind: actionUpdateItem, itemID: itemID, quantity: quantity})

	next, replace, err := p.Update(ctx, st, item.ProductID, quantity)
	if err != nil {
		s.log.Warn("cart update failed, reconciling", zap.String("productId", item.ProductID), zap.Error(err))
		notify.Push(s.notifier, "Failed to update item quantity", notify.Error)
		s.reconcile(ctx, p)
		return err
	}
	if replace {
		s.dispatch(action{kind: actionSetCart, cart: next})
	}
	return nil
}

// RemoveItem removes a cart line.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	item, ok := s.findItem(itemID)
	if !ok {
		notify.Push(s.notifier, "Failed to remove item from cart", notify.Error)
		return errors.NotFound("cart item not found")
	}

	p := s.persistence()
	st := s.dispatch(action{kind: actionRemoveItem, itemID: itemID})

	next, replace, err := p.Remove(ctx, st, item.ProductID)
	if err != nil {
		s.log.Warn("cart remove failed, reconciling", zap.String("productId", item.ProductID), zap.Error(err))
		notify.Push(s.notifier, "Failed to remove item from cart", notify.Error)
		s.reconcile(ctx, p)
		return err
	}
	if replace {
		s.dispatch(action{kind: actionSetCart, cart: next})
	}
	notify.Push(s.notifier, "Item removed from cart", notify.Info)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	p := s.persistence()
	st := s.dispatch(action{kind: actionClearCart})

	if _, _, err := p.Clear(ctx, st); err != nil {
		s.log.Warn("cart clear failed, reconciling", zap.Error(err))
		notify.Push(s.notifier, "Failed to clear cart", notify.Error)
		s.reconcile(ctx, p)
		return err
	}
	notify.Push(s.notifier, "Cart cleared", notify.Info)
	return nil
}

// ClearLocal empties the in-memory and local-storage cart without touching
// the server. The order store uses this after a successful checkout, where
// the server has already consumed the cart.
func (s *Store) ClearLocal(ctx context.Context) {
	st := s.dispatch(action{kind: actionClearCart})
	if _, _, err := s.local.Clear(ctx, st); err != nil {
		s.log.Error("failed to clear persisted cart", zap.Error(err))
	}
}

// Refresh replaces the state with the server cart. No-op when anonymous.
func (s *Store) Refresh(ctx context.Context) {
	if !s.authSrc.IsAuthenticated() {
		return
	}
	s.dispatch(action{kind: actionSetLoading, loading: true})
	st, err := s.remote.Load(ctx)
	if err != nil {
		s.dispatch(action{kind: actionSetError, err: errors.UserMessage(err)})
		notify.Push(s.notifier, "Failed to load cart", notify.Error)
		return
	}
	s.dispatch(action{kind: actionSetCart, cart: st})
}

func (s *Store) loadLocal(ctx context.Context) {
	st, err := s.local.Load(ctx)
	if err != nil {
		s.log.Error("failed to load persisted cart", zap.Error(err))
	}
	s.dispatch(action{kind: actionSetCart, cart: st})
}

// reconcile restores truth after a failed mutation: re-fetch in remote
// mode, reload the persisted copy in local mode.
func (s *Store) reconcile(ctx context.Context, p Persistence) {
	if p == s.remote {
		s.Refresh(ctx)
		return
	}
	s.loadLocal(ctx)
}

func (s *Store) findItem(itemID string) (model.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.state.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return model.CartItem{}, false
}

func productImage(p model.Product) string {
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return p.ImageURL
}

// State returns a copy of the current cart state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = make([]model.CartItem, len(s.state.Items))
	copy(st.Items, s.state.Items)
	return st
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemCount
}

// Total returns the cart total.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total
}

// HasItems reports whether the cart is non-empty.
func (s *Store) HasItems() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Items) > 0
}

// Lines implements the order store's view of the cart at checkout time.
func (s *Store) Lines() ([]model.OrderLine, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]model.OrderLine, 0, len(s.state.Items))
	for _, item := range s.state.Items {
		lines = append(lines, model.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return lines, s.state.Total
}
