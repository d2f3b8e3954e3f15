package cart

import (
	"storefront/model"
)

// State is the cart state slice. ItemCount and Total are derived from Items
// on every transition and never stored independently.
type State struct {
	Items     []model.CartItem `json:"items"`
	ItemCount int              `json:"itemCount"`
	Total     float64          `json:"total"`
	IsLoading bool             `json:"isLoading"`
	Err       string           `json:"error,omitempty"`
}

type actionKind int

const (
	actionSetLoading actionKind = iota
	actionSetCart
	actionAddItem
	actionUpdateItem
	actionRemoveItem
	actionClearCart
	actionSetError
)

// action is the tagged union processed by reduce. Only the fields relevant
// to the kind are set.
type action struct {
	kind     actionKind
	loading  bool
	cart     State
	item     model.CartItem
	itemID   string
	quantity int
	err      string
}

// reduce is the pure transition function: it never mutates its input and
// recomputes the derived fields on every item change.
func reduce(s State, a action) State {
	switch a.kind {
	case actionSetLoading:
		s.IsLoading = a.loading
		return s

	case actionSetCart:
		next := a.cart
		if next.Items == nil {
			next.Items = []model.CartItem{}
		}
		next.ItemCount, next.Total = recompute(next.Items)
		next.IsLoading = false
		next.Err = ""
		return next

	case actionAddItem:
		items := make([]model.CartItem, len(s.Items))
		copy(items, s.Items)
		merged := false
		for i := range items {
			// Merge by product: adding the same product twice increments
			// quantity instead of creating a second line.
			if items[i].ProductID == a.item.ProductID {
				items[i].Quantity += a.item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, a.item)
		}
		s.Items = items
		s.ItemCount, s.Total = recompute(items)
		return s

	case actionUpdateItem:
		items := make([]model.CartItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.ID == a.itemID {
				item.Quantity = a.quantity
			}
			// Quantity zero (or below) removes the line entirely.
			if item.Quantity > 0 {
				items = append(items, item)
			}
		}
		s.Items = items
		s.ItemCount, s.Total = recompute(items)
		return s

	case actionRemoveItem:
		items := make([]model.CartItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.ID != a.itemID {
				items = append(items, item)
			}
		}
		s.Items = items
		s.ItemCount, s.Total = recompute(items)
		return s

	case actionClearCart:
		s.Items = []model.CartItem{}
		s.ItemCount = 0
		s.Total = 0
		return s

	case actionSetError:
		s.Err = a.err
		s.IsLoading = false
		return s

	default:
		return s
	}
}

func recompute(items []model.CartItem) (count int, total float64) {
	for _, item := range items {
		count += item.Quantity
		total += item.Price * float64(item.Quantity)
	}
	return count, total
}

// stateFromSnapshot normalizes the backend cart representation into client
// state; derived fields are recomputed rather than trusted from the wire.
func stateFromSnapshot(snap *model.CartSnapshot) State {
	items := make([]model.CartItem, 0, len(snap.Items))
	for _, entry := range snap.Items {
		items = append(items, model.CartItem{
			ID:        entry.ID,
			ProductID: entry.ProductID,
			Name:      entry.ProductName,
			Image:     entry.ProductImage,
			Price:     entry.Price,
			Quantity:  entry.Quantity,
		})
	}
	count, total := recompute(items)
	return State{Items: items, ItemCount: count, Total: total}
}
