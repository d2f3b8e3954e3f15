package cart

import (
	"context"

	"storefront/internal/localstore"
	"storefront/model"
)

// Persistence syncs optimistic cart state with its backing store. Each write
// receives the already-reduced optimistic state; when the backing store
// returns an authoritative replacement, replace is true and next supersedes
// the optimistic state.
type Persistence interface {
	Load(ctx context.Context) (State, error)
	Add(ctx context.Context, current State, item model.CartItem) (next State, replace bool, err error)
	Update(ctx context.Context, current State, productID string, quantity int) (next State, replace bool, err error)
	Remove(ctx context.Context, current State, productID string) (next State, replace bool, err error)
	Clear(ctx context.Context, current State) (next State, replace bool, err error)
}

// API is the slice of the cart REST surface the remote persistence needs.
type API interface {
	GetCart(ctx context.Context) (*model.CartSnapshot, error)
	AddItem(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error)
	UpdateItemQuantity(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error)
	RemoveItem(ctx context.Context, productID string) (*model.CartSnapshot, error)
	Clear(ctx context.Context) (*model.CartSnapshot, error)
}

// Local persists the whole cart state as one value in local storage. Used
// for anonymous sessions; the optimistic state is the truth.
type Local struct {
	store localstore.Store
}

func NewLocal(store localstore.Store) *Local {
	return &Local{store: store}
}

func (l *Local) Load(_ context.Context) (State, error) {
	var st State
	found, err := l.store.Get(localstore.KeyCart, &st)
	if err != nil || !found {
		return State{Items: []model.CartItem{}}, err
	}
	if st.Items == nil {
		st.Items = []model.CartItem{}
	}
	st.ItemCount, st.Total = recompute(st.Items)
	return st, nil
}

func (l *Local) save(current State) (State, bool, error) {
	current.IsLoading = false
	current.Err = ""
	return State{}, false, l.store.Put(localstore.KeyCart, current)
}

func (l *Local) Add(_ context.Context, current State, _ model.CartItem) (State, bool, error) {
	return l.save(current)
}

func (l *Local) Update(_ context.Context, current State, _ string, _ int) (State, bool, error) {
	return l.save(current)
}

func (l *Local) Remove(_ context.Context, current State, _ string) (State, bool, error) {
	return l.save(current)
}

func (l *Local) Clear(_ context.Context, current State) (State, bool, error) {
	return l.save(current)
}

// Remote persists through the cart API. The server response is
// authoritative and replaces the optimistic state whenever it carries items.
type Remote struct {
	api API
}

func NewRemote(api API) *Remote {
	return &Remote{api: api}
}

func (r *Remote) Load(ctx context.Context) (State, error) {
	snap, err := r.api.GetCart(ctx)
	if err != nil {
		return State{Items: []model.CartItem{}}, err
	}
	return stateFromSnapshot(snap), nil
}

func replaceFrom(snap *model.CartSnapshot) (State, bool) {
	// An empty snapshot after a mutation means the server did not echo the
	// cart back; keep the optimistic state in that case.
	if snap == nil || len(snap.Items) == 0 {
		return State{}, false
	}
	return stateFromSnapshot(snap), true
}

func (r *Remote) Add(ctx context.Context, _ State, item model.CartItem) (State, bool, error) {
	snap, err := r.api.AddItem(ctx, item.ProductID, item.Quantity)
	if err != nil {
		return State{}, false, err
	}
	next, replace := replaceFrom(snap)
	return next, replace, nil
}

func (r *Remote) Update(ctx context.Context, _ State, productID string, quantity int) (State, bool, error) {
	snap, err := r.api.UpdateItemQuantity(ctx, productID, quantity)
	if err != nil {
		return State{}, false, err
	}
	next, replace := replaceFrom(snap)
	return next, replace, nil
}

func (r *Remote) Remove(ctx context.Context, _ State, productID string) (State, bool, error) {
	snap, err := r.api.RemoveItem(ctx, productID)
	if err != nil {
		return State{}, false, err
	}
	next, replace := replaceFrom(snap)
	return next, replace, nil
}

func (r *Remote) Clear(ctx context.Context, _ State) (State, bool, error) {
	if _, err := r.api.Clear(ctx); err != nil {
		return State{}, false, err
	}
	return State{}, false, nil
}
