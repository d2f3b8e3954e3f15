package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/model"
	"storefront/pkg/errors"
	"storefront/store/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderAPI struct {
	mu          sync.Mutex
	orders      map[string]*model.Order
	createErr   error
	cancelCalls int
	nextID      int
}

func newFakeOrderAPI() *fakeOrderAPI {
	return &fakeOrderAPI{orders: map[string]*model.Order{}}
}

func (f *fakeOrderAPI) CreateOrder(_ context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	order := &model.Order{
		ID:              string(rune('A' + f.nextID - 1)),
		Items:           req.Items,
		Total:           req.Total,
		Status:          model.OrderPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       time.Now(),
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderAPI) GetUserOrders(_ context.Context) (*model.Page[model.Order], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		content = append(content, *o)
	}
	return &model.Page[model.Order]{Content: content, Size: 10, TotalElements: int64(len(content)), TotalPages: 1, Last: true}, nil
}

func (f *fakeOrderAPI) GetOrder(_ context.Context, id string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, errors.NotFound("order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderAPI) CancelOrder(_ context.Context, id string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	o, ok := f.orders[id]
	if !ok {
		return nil, errors.NotFound("order not found")
	}
	if !o.Status.CanCancel() {
		return nil, errors.InvalidOrderState("order cannot be cancelled")
	}
	o.Status = model.OrderCancelled
	cp := *o
	return &cp, nil
}

func (f *fakeOrderAPI) setStatus(id string, status model.OrderStatus) {
	f.mu.Lock()
	f.orders[id].Status = status
	f.mu.Unlock()
}

// fakeCart is a CartSource with fixed lines.
type fakeCart struct {
	mu      sync.Mutex
	lines   []model.OrderLine
	total   float64
	cleared int
}

func (f *fakeCart) Lines() ([]model.OrderLine, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.OrderLine(nil), f.lines...), f.total
}

func (f *fakeCart) ClearLocal(_ context.Context) {
	f.mu.Lock()
	f.cleared++
	f.lines = nil
	f.total = 0
	f.mu.Unlock()
}

func filledCart() *fakeCart {
	return &fakeCart{
		lines: []model.OrderLine{{ProductID: "p1", Name: "Product p1", Price: 10, Quantity: 2}},
		total: 20,
	}
}

func readyCheckout(s *Store) {
	s.SetShippingAddress(model.Address{FirstName: "Jane", Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"})
	s.SetPaymentMethod(model.PaymentMethod{Type: "card", MaskedNumber: "**** 4242"})
}

func newTestStore(cart *fakeCart) (*Store, *fakeOrderAPI, *notify.Recorder) {
	api := newFakeOrderAPI()
	rec := notify.NewRecorder()
	return New(api, cart, rec), api, rec
}

func TestWizardStepsAreLinear(t *testing.T) {
	s, _, _ := newTestStore(filledCart())
	assert.Equal(t, StepShipping, s.Step())

	s.PrevStep()
	assert.Equal(t, StepShipping, s.Step(), "cannot move before the first step")

	s.NextStep()
	s.NextStep()
	assert.Equal(t, StepPayment, s.Step())

	s.NextStep()
	s.NextStep()
	assert.Equal(t, StepReview, s.Step(), "cannot move past the last step")

	s.PrevStep()
	assert.Equal(t, StepPayment, s.Step())
}

func TestSetStepRejectsSkippingForward(t *testing.T) {
	s, _, _ := newTestStore(filledCart())
	s.NextStep() // at billing

	err := s.SetStep(StepReview)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidation))
	assert.Equal(t, StepBilling, s.Step())

	// Jumping backward to a visited step is allowed.
	require.NoError(t, s.SetStep(StepShipping))
	assert.Equal(t, StepShipping, s.Step())
}

func TestCreateOrderSuccess(t *testing.T) {
	cart := filledCart()
	s, _, rec := newTestStore(cart)
	readyCheckout(s)
	s.NextStep()

	order, err := s.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, 20.0, order.Total)

	st := s.State()
	require.Len(t, st.Orders, 1)
	assert.Equal(t, order.ID, st.Orders[0].ID, "new order is prepended to history")
	require.NotNil(t, st.CurrentOrder)
	assert.Equal(t, order.ID, st.CurrentOrder.ID)
	assert.Equal(t, StepShipping, st.Checkout.Step, "wizard resets after checkout")
	assert.Equal(t, 1, cart.cleared, "cart cleared exactly once on success")

	last, _ := rec.Last()
	assert.Equal(t, "Order placed successfully!", last.Message)
}

func TestCreateOrderFailureKeepsCart(t *testing.T) {
	cart := filledCart()
	s, api, _ := newTestStore(cart)
	readyCheckout(s)
	api.createErr = errors.Server()

	_, err := s.CreateOrder(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, cart.cleared, "cart must survive a failed checkout")
	lines, _ := cart.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, errors.MsgServer, s.State().Err)
}

func TestCreateOrderValidation(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		s, _, _ := newTestStore(&fakeCart{})
		readyCheckout(s)
		_, err := s.CreateOrder(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeValidation))
	})

	t.Run("missing shipping address", func(t *testing.T) {
		s, _, _ := newTestStore(filledCart())
		s.SetPaymentMethod(model.PaymentMethod{Type: "card"})
		_, err := s.CreateOrder(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeValidation))
	})

	t.Run("missing payment method", func(t *testing.T) {
		s, _, _ := newTestStore(filledCart())
		s.SetShippingAddress(model.Address{Street: "1 Main St"})
		_, err := s.CreateOrder(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeValidation))
	})
}

func TestBillingAddressDefaultsToShipping(t *testing.T) {
	s, _, _ := newTestStore(filledCart())
	readyCheckout(s)

	order, err := s.CreateOrder(context.Background())
	require.NoError(t, err)
	require.NotNil(t, order.BillingAddress)
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)
}

func TestSeparateBillingAddress(t *testing.T) {
	s, _, _ := newTestStore(filledCart())
	readyCheckout(s)
	s.SetBillingAddress(model.Address{FirstName: "Jane", Street: "9 Billing Rd", City: "Shelbyville", PostalCode: "99999", Country: "US"})

	order, err := s.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9 Billing Rd", order.BillingAddress.Street)
	assert.NotEqual(t, order.ShippingAddress.Street, order.BillingAddress.Street)
}

func TestCancelOrderLifecycle(t *testing.T) {
	s, api, _ := newTestStore(filledCart())
	readyCheckout(s)
	order, err := s.CreateOrder(context.Background())
	require.NoError(t, err)

	// A shipped order can still be cancelled.
	api.setStatus(order.ID, model.OrderShipped)
	require.NoError(t, s.FetchOrders(context.Background()))
	require.NoError(t, s.CancelOrder(context.Background(), order.ID))
	assert.Equal(t, model.OrderCancelled, s.State().Orders[0].Status)

	// A second cancel is rejected locally, without a network call.
	calls := api.cancelCalls
	err = s.CancelOrder(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidOrderState))
	assert.Equal(t, calls, api.cancelCalls)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	s, api, rec := newTestStore(filledCart())
	readyCheckout(s)
	order, err := s.CreateOrder(context.Background())
	require.NoError(t, err)

	api.setStatus(order.ID, model.OrderDelivered)
	require.NoError(t, s.FetchOrders(context.Background()))

	calls := api.cancelCalls
	err = s.CancelOrder(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidOrderState))
	assert.Equal(t, calls, api.cancelCalls, "terminal orders are rejected without a round trip")
	last, _ := rec.Last()
	assert.Equal(t, "This order can no longer be cancelled", last.Message)
}

func TestFetchOrder(t *testing.T) {
	s, _, _ := newTestStore(filledCart())
	readyCheckout(s)
	created, err := s.CreateOrder(context.Background())
	require.NoError(t, err)

	got, err := s.FetchOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.ID, s.State().CurrentOrder.ID)
}
