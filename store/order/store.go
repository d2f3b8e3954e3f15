/*
Package order holds the order store: the checkout wizard state machine plus
order history. Checkout walks a fixed sequence of steps; placing the order
only clears the cart once the server has accepted it.
*/
package order

import (
	"context"
	"sync"

	"storefront/model"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/store/notify"

	"go.uber.org/zap"
)

// Step is a checkout wizard position.
type Step int

const (
	StepShipping Step = iota
	StepBilling
	StepPayment
	StepReview

	stepFirst = StepShipping
	stepLast  = StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepBilling:
		return "billing"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// API is the slice of the order REST surface the store needs.
type API interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	GetUserOrders(ctx context.Context) (*model.Page[model.Order], error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	CancelOrder(ctx context.Context, id string) (*model.Order, error)
}

// CartSource is the view of the cart the checkout consumes, plus the
// post-checkout cleanup hook.
type CartSource interface {
	Lines() ([]model.OrderLine, float64)
	ClearLocal(ctx context.Context)
}

// Checkout is the in-progress wizard state.
type Checkout struct {
	Step            Step
	ShippingAddress *model.Address
	BillingAddress  *model.Address
	SameAsShipping  bool
	PaymentMethod   *model.PaymentMethod
}

// State is the externally visible order state.
type State struct {
	Orders       []model.Order
	CurrentOrder *model.Order
	Checkout     Checkout
	IsLoading    bool
	Err          string
}

// Store owns the order state slice.
type Store struct {
	api      API
	cart     CartSource
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.Mutex
	state State
}

func New(api API, cart CartSource, notifier notify.Notifier) *Store {
	return &Store{
		api:      api,
		cart:     cart,
		notifier: notifier,
		log:      logger.WithStore("order"),
		state:    State{Orders: []model.Order{}, Checkout: Checkout{SameAsShipping: true}},
	}
}

// NextStep advances the wizard one step. Advancing past review is a no-op.
func (s *Store) NextStep() {
	s.mu.Lock()
	if s.state.Checkout.Step < stepLast {
		s.state.Checkout.Step++
	}
	s.mu.Unlock()
}

// PrevStep moves back one step. Moving before shipping is a no-op.
func (s *Store) PrevStep() {
	s.mu.Lock()
	if s.state.Checkout.Step > stepFirst {
		s.state.Checkout.Step--
	}
	s.mu.Unlock()
}

// SetStep jumps to a step. Only the current step or an earlier one is
// accepted: the wizard never skips forward past unvisited steps.
func (s *Store) SetStep(step Step) error {
	if step < stepFirst || step > stepLast {
		return errors.Validation("unknown checkout step")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if step > s.state.Checkout.Step {
		return errors.Validation("cannot skip ahead in checkout")
	}
	s.state.Checkout.Step = step
	return nil
}

// SetShippingAddress records the shipping address. With SameAsShipping set
// it doubles as the billing address.
func (s *Store) SetShippingAddress(addr model.Address) {
	s.mu.Lock()
	s.state.Checkout.ShippingAddress = &addr
	s.mu.Unlock()
}

// SetBillingAddress records a separate billing address and clears the
// same-as-shipping flag.
func (s *Store) SetBillingAddress(addr model.Address) {
	s.mu.Lock()
	s.state.Checkout.BillingAddress = &addr
	s.state.Checkout.SameAsShipping = false
	s.mu.Unlock()
}

// SetSameAsShipping toggles billing-address reuse.
func (s *Store) SetSameAsShipping(same bool) {
	s.mu.Lock()
	s.state.Checkout.SameAsShipping = same
	if same {
		s.state.Checkout.BillingAddress = nil
	}
	s.mu.Unlock()
}

// SetPaymentMethod records the payment selection.
func (s *Store) SetPaymentMethod(pm model.PaymentMethod) {
	s.mu.Lock()
	s.state.Checkout.PaymentMethod = &pm
	s.mu.Unlock()
}

// CreateOrder submits the checkout. On success the new order is prepended
// to the history, the wizard resets, and the cart is cleared; on failure
// the cart is left untouched.
func (s *Store) CreateOrder(ctx context.Context) (*model.Order, error) {
	s.mu.Lock()
	co := s.state.Checkout
	s.mu.Unlock()

	lines, total := s.cart.Lines()
	if len(lines) == 0 {
		notify.Push(s.notifier, "Your cart is empty", notify.Warning)
		return nil, errors.Validation("cart is empty")
	}
	if co.ShippingAddress == nil {
		notify.Push(s.notifier, "Please provide a shipping address", notify.Warning)
		return nil, errors.Validation("shipping address is required")
	}
	if co.PaymentMethod == nil {
		notify.Push(s.notifier, "Please select a payment method", notify.Warning)
		return nil, errors.Validation("payment method is required")
	}

	billing := co.BillingAddress
	if co.SameAsShipping || billing == nil {
		billing = co.ShippingAddress
	}

	s.setLoading(true)
	order, err := s.api.CreateOrder(ctx, model.CreateOrderRequest{
		Items:           lines,
		Total:           total,
		ShippingAddress: co.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   co.PaymentMethod,
	})
	if err != nil {
		s.setError(errors.UserMessage(err))
		notify.Push(s.notifier, "Failed to place order", notify.Error)
		return nil, err
	}

	s.mu.Lock()
	s.state.Orders = append([]model.Order{*order}, s.state.Orders...)
	s.state.CurrentOrder = order
	s.state.Checkout = Checkout{SameAsShipping: true}
	s.state.IsLoading = false
	s.state.Err = ""
	s.mu.Unlock()

	// The server has consumed the cart; clear the client copy without
	// another round trip.
	s.cart.ClearLocal(ctx)

	s.log.Info("order placed", zap.String("orderId", order.ID))
	notify.Push(s.notifier, "Order placed successfully!", notify.Success)
	return order, nil
}

// FetchOrders loads the order history.
func (s *Store) FetchOrders(ctx context.Context) error {
	s.setLoading(true)
	page, err := s.api.GetUserOrders(ctx)
	if err != nil {
		s.setError(errors.UserMessage(err))
		notify.Push(s.notifier, "Failed to load orders", notify.Error)
		return err
	}
	s.mu.Lock()
	s.state.Orders = page.Content
	if s.state.Orders == nil {
		s.state.Orders = []model.Order{}
	}
	s.state.IsLoading = false
	s.state.Err = ""
	s.mu.Unlock()
	return nil
}

// FetchOrder loads one order and records it as current.
func (s *Store) FetchOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.api.GetOrder(ctx, id)
	if err != nil {
		notify.Push(s.notifier, "Failed to load order", notify.Error)
		return nil, err
	}
	s.mu.Lock()
	s.state.CurrentOrder = order
	s.mu.Unlock()
	return order, nil
}

// CancelOrder cancels an order. Orders already delivered or cancelled are
// rejected locally without a network call.
func (s *Store) CancelOrder(ctx context.Context, id string) error {
	if existing, ok := s.findOrder(id); ok && !existing.Status.CanCancel() {
		msg := "This order can no longer be cancelled"
		notify.Push(s.notifier, msg, notify.Warning)
		return errors.InvalidOrderState(msg)
	}

	order, err := s.api.CancelOrder(ctx, id)
	if err != nil {
		notify.Push(s.notifier, "Failed to cancel order", notify.Error)
		return err
	}

	s.mu.Lock()
	for i := range s.state.Orders {
		if s.state.Orders[i].ID == order.ID {
			s.state.Orders[i] = *order
		}
	}
	if s.state.CurrentOrder != nil && s.state.CurrentOrder.ID == order.ID {
		s.state.CurrentOrder = order
	}
	s.mu.Unlock()

	notify.Push(s.notifier, "Order cancelled", notify.Info)
	return nil
}

func (s *Store) findOrder(id string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.state.Orders {
		if o.ID == id {
			return o, true
		}
	}
	if s.state.CurrentOrder != nil && s.state.CurrentOrder.ID == id {
		return *s.state.CurrentOrder, true
	}
	return model.Order{}, false
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.state.IsLoading = loading
	s.mu.Unlock()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.state.Err = msg
	s.state.IsLoading = false
	s.mu.Unlock()
}

// Step returns the current wizard step.
func (s *Store) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Checkout.Step
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Orders = append([]model.Order(nil), s.state.Orders...)
	if s.state.CurrentOrder != nil {
		o := *s.state.CurrentOrder
		st.CurrentOrder = &o
	}
	return st
}
