package httpclient

import (
	"encoding/json"
	"net/http"
	"sync"

	"storefront/model"

	"github.com/google/uuid"
)

// MockTable maps base endpoints (query string stripped) to canned JSON
// responses, letting the client run with no backend at all.
type MockTable struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage
}

// DefaultMocks returns the canned responses for the endpoints the client
// hits on startup: empty orders, an empty cart, a sample profile and an
// empty address book.
func DefaultMocks() *MockTable {
	t := &MockTable{responses: make(map[string]json.RawMessage)}

	emptyCart := model.Envelope[model.CartSnapshot]{
		Data: model.CartSnapshot{Items: []model.CartEntry{}},
	}
	t.put("/cart", emptyCart)
	t.put("/cart/items", emptyCart)
	t.put("/orders", model.Envelope[model.Page[model.Order]]{
		Data: model.Page[model.Order]{Content: []model.Order{}, Size: 10, TotalPages: 1, Last: true},
	})
	t.put("/users/me", model.Envelope[model.Profile]{
		Data: model.Profile{
			ID:        "1",
			Email:     "user@example.com",
			FirstName: "John",
			LastName:  "Doe",
			Phone:     "555-123-4567",
			Roles:     []string{"CUSTOMER"},
		},
	})
	t.put("/users/addresses", model.Envelope[[]model.Address]{Data: []model.Address{}})
	return t
}

func (t *MockTable) put(endpoint string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	t.responses[endpoint] = raw
}

// Set registers or replaces a canned response.
func (t *MockTable) Set(endpoint string, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(endpoint, v)
}

// Lookup resolves a canned response for the request, or reports a miss so
// the caller falls through to the network.
func (t *MockTable) Lookup(method, base string, payload []byte) (json.RawMessage, bool) {
	// Adding a cart item is the one write the mock table answers: it echoes
	// a single-line cart built from the request body.
	if method == http.MethodPost && base == "/cart/items" {
		if snap, ok := mockAddToCart(payload); ok {
			raw, err := json.Marshal(model.Envelope[model.CartSnapshot]{Data: *snap})
			if err == nil {
				return raw, true
			}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	raw, ok := t.responses[base]
	return raw, ok
}

func mockAddToCart(payload []byte) (*model.CartSnapshot, bool) {
	var req model.AddItemRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.ProductID == "" {
		return nil, false
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	item := model.CartEntry{
		ID:           uuid.NewString(),
		ProductID:    req.ProductID,
		ProductName:  "Product " + req.ProductID,
		ProductImage: "https://via.placeholder.com/100x100?text=Product" + req.ProductID,
		Price:        99.99,
		Quantity:     req.Quantity,
	}
	return &model.CartSnapshot{
		Items:      []model.CartEntry{item},
		TotalItems: item.Quantity,
		TotalPrice: item.Price * float64(item.Quantity),
	}, true
}
