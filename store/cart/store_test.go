package cart

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/localstore"
	"storefront/model"
	"storefront/pkg/errors"
	"storefront/store/auth"
	"storefront/store/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth is a controllable AuthSource.
type fakeAuth struct {
	mu            sync.Mutex
	authenticated bool
	subs          []func(auth.Event)
}

func (f *fakeAuth) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticated
}

func (f *fakeAuth) Subscribe(fn func(auth.Event)) func() {
	f.mu.Lock()
	f.subs = append(f.subs, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeAuth) fire(authenticated bool, e auth.Event) {
	f.mu.Lock()
	f.authenticated = authenticated
	subs := append([]func(auth.Event){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}

// fakeCartAPI simulates the server cart.
type fakeCartAPI struct {
	mu       sync.Mutex
	snap     model.CartSnapshot
	failNext error
	addCalls int
}

func (f *fakeCartAPI) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeCartAPI) GetCart(_ context.Context) (*model.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	snap := f.snap
	return &snap, nil
}

func (f *fakeCartAPI) AddItem(_ context.Context, productID string, quantity int) (*model.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	for i := range f.snap.Items {
		if f.snap.Items[i].ProductID == productID {
			f.snap.Items[i].Quantity += quantity
			snap := f.snap
			return &snap, nil
		}
	}
	f.snap.Items = append(f.snap.Items, model.CartEntry{
		ID:          "srv-" + productID,
		ProductID:   productID,
		ProductName: "Server " + productID,
		Price:       10,
		Quantity:    quantity,
	})
	snap := f.snap
	return &snap, nil
}

func (f *fakeCartAPI) UpdateItemQuantity(_ context.Context, productID string, quantity int) (*model.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	items := f.snap.Items[:0]
	for _, e := range f.snap.Items {
		if e.ProductID == productID {
			e.Quantity = quantity
		}
		if e.Quantity > 0 {
			items = append(items, e)
		}
	}
	f.snap.Items = items
	snap := f.snap
	return &snap, nil
}

func (f *fakeCartAPI) RemoveItem(_ context.Context, productID string) (*model.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	items := f.snap.Items[:0]
	for _, e := range f.snap.Items {
		if e.ProductID != productID {
			items = append(items, e)
		}
	}
	f.snap.Items = items
	snap := f.snap
	return &snap, nil
}

func (f *fakeCartAPI) Clear(_ context.Context) (*model.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeErr(); err != nil {
		return nil, err
	}
	f.snap = model.CartSnapshot{Items: []model.CartEntry{}}
	snap := f.snap
	return &snap, nil
}

func product(id string, price float64) model.Product {
	return model.Product{ID: id, Name: "Product " + id, Price: price, InStock: true}
}

func newTestStore(t *testing.T, authenticated bool) (*Store, *fakeCartAPI, *fakeAuth, *localstore.Memory, *notify.Recorder) {
	t.Helper()
	api := &fakeCartAPI{snap: model.CartSnapshot{Items: []model.CartEntry{}}}
	src := &fakeAuth{authenticated: authenticated}
	local := localstore.NewMemory()
	rec := notify.NewRecorder()
	s := New(api, NewLocal(local), src, rec)
	t.Cleanup(s.Close)
	return s, api, src, local, rec
}

func TestAddItemAnonymousPersistsLocally(t *testing.T) {
	s, api, _, local, rec := newTestStore(t, false)

	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))
	assert.Equal(t, 0, api.addCalls, "anonymous add must not hit the network")

	st := s.State()
	assert.Equal(t, 2, st.ItemCount)
	assert.Equal(t, 20.0, st.Total)

	var persisted State
	found, err := local.Get(localstore.KeyCart, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, st.Items, persisted.Items)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Product p1 added to cart", last.Message)
	assert.Equal(t, notify.Success, last.Severity)
}

func TestAddItemMergesAndAccumulates(t *testing.T) {
	s, _, _, _, _ := newTestStore(t, false)

	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 1))
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 3, st.Items[0].Quantity)
	assert.Equal(t, 3, st.ItemCount)
	assert.Equal(t, 30.0, st.Total)
}

func TestAddItemRemoteAdoptsServerState(t *testing.T) {
	s, api, _, _, _ := newTestStore(t, true)

	require.NoError(t, s.AddItem(context.Background(), product("p1", 99), 1))
	assert.Equal(t, 1, api.addCalls)

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "srv-p1", st.Items[0].ID, "server line id replaces the optimistic one")
	assert.Equal(t, "Server p1", st.Items[0].Name)
	assert.Equal(t, 10.0, st.Total, "server price wins over the optimistic one")
}

func TestAddItemRemoteFailureKeepsOptimisticState(t *testing.T) {
	s, api, _, _, rec := newTestStore(t, true)
	api.failNext = errors.Network(nil)

	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.ItemCount)

	msgs := rec.All()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Item added to cart (offline mode)", msgs[0].Message)
	assert.Equal(t, notify.Info, msgs[0].Severity)
	assert.Equal(t, "Product p1 added to cart", msgs[1].Message)
}

func TestAddItemInvalidProduct(t *testing.T) {
	s, _, _, _, rec := newTestStore(t, false)

	err := s.AddItem(context.Background(), model.Product{}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidation))
	last, _ := rec.Last()
	assert.Equal(t, "Invalid product data", last.Message)
	assert.False(t, s.HasItems())
}

func TestAddItemQuantityFloor(t *testing.T) {
	s, _, _, _, _ := newTestStore(t, false)

	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 0))
	assert.Equal(t, 1, s.ItemCount(), "quantity below one defaults to one")
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	s, _, _, _, _ := newTestStore(t, false)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))
	itemID := s.State().Items[0].ID

	require.NoError(t, s.UpdateItemQuantity(context.Background(), itemID, 0))
	assert.False(t, s.HasItems())
	assert.Zero(t, s.Total())
}

func TestUpdateUnknownItem(t *testing.T) {
	s, _, _, _, _ := newTestStore(t, false)
	err := s.UpdateItemQuantity(context.Background(), "nope", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestUpdateRemoteFailureReconcilesFromServer(t *testing.T) {
	s, api, _, _, _ := newTestStore(t, true)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))
	itemID := s.State().Items[0].ID

	api.failNext = errors.Server()
	err := s.UpdateItemQuantity(context.Background(), itemID, 5)
	require.Error(t, err)

	// The optimistic quantity was rolled back to the server's copy.
	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	s, _, _, _, rec := newTestStore(t, true)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 1))
	itemID := s.State().Items[0].ID

	rec.Reset()
	require.NoError(t, s.RemoveItem(context.Background(), itemID))
	assert.False(t, s.HasItems())
	last, _ := rec.Last()
	assert.Equal(t, "Item removed from cart", last.Message)
}

func TestLoginReplacesLocalCartWithServerCart(t *testing.T) {
	s, api, src, _, _ := newTestStore(t, false)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 3))

	api.snap = model.CartSnapshot{Items: []model.CartEntry{
		{ID: "srv-1", ProductID: "p9", ProductName: "Server p9", Price: 4, Quantity: 1},
	}}
	src.fire(true, auth.EventLogin)

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "p9", st.Items[0].ProductID)
	assert.Equal(t, 4.0, st.Total)
}

func TestLogoutFallsBackToLocalCart(t *testing.T) {
	s, api, src, local, _ := newTestStore(t, false)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))

	// Sign in, pick up the server cart, then sign out again.
	api.snap = model.CartSnapshot{Items: []model.CartEntry{
		{ID: "srv-1", ProductID: "p9", ProductName: "Server p9", Price: 4, Quantity: 1},
	}}
	src.fire(true, auth.EventLogin)
	require.Equal(t, "p9", s.State().Items[0].ProductID)

	src.fire(false, auth.EventLogout)
	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "p1", st.Items[0].ProductID, "logout restores the anonymous cart")

	var persisted State
	found, err := local.Get(localstore.KeyCart, &persisted)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestClearLocalSkipsServer(t *testing.T) {
	s, api, _, _, _ := newTestStore(t, true)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))

	api.failNext = errors.Server() // would fail a server round trip
	s.ClearLocal(context.Background())
	assert.False(t, s.HasItems())
	api.mu.Lock()
	api.failNext = nil
	api.mu.Unlock()
}

func TestLines(t *testing.T) {
	s, _, _, _, _ := newTestStore(t, false)
	require.NoError(t, s.AddItem(context.Background(), product("p1", 10), 2))
	require.NoError(t, s.AddItem(context.Background(), product("p2", 5), 1))

	lines, total := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 25.0, total)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
}
