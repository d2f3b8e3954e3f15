package service

import (
	"context"
	"fmt"

	"storefront/internal/httpclient"
	"storefront/model"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Cart wraps the /cart endpoints.
type Cart struct {
	client *httpclient.Client
}

func NewCart(client *httpclient.Client) *Cart {
	return &Cart{client: client}
}

// GetCart fetches the authoritative cart. A fetch failure degrades to an
// empty cart rather than an error: the storefront stays usable offline.
func (s *Cart) GetCart(ctx context.Context) (*model.CartSnapshot, error) {
	var resp model.Envelope[model.CartSnapshot]
	if err := s.client.Get(ctx, "/cart", &resp); err != nil {
		logger.Warn("cart fetch failed, returning empty cart", zap.Error(err))
		return &model.CartSnapshot{Items: []model.CartEntry{}}, nil
	}
	if resp.Data.Items == nil {
		resp.Data.Items = []model.CartEntry{}
	}
	return &resp.Data, nil
}

func (s *Cart) AddItem(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error) {
	var resp model.Envelope[model.CartSnapshot]
	req := model.AddItemRequest{ProductID: productID, Quantity: quantity}
	if err := s.client.Post(ctx, "/cart/items", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Cart) UpdateItemQuantity(ctx context.Context, productID string, quantity int) (*model.CartSnapshot, error) {
	var resp model.Envelope[model.CartSnapshot]
	endpoint := fmt.Sprintf("/cart/items/%s?quantity=%d", productID, quantity)
	if err := s.client.Put(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Cart) RemoveItem(ctx context.Context, productID string) (*model.CartSnapshot, error) {
	var resp model.Envelope[model.CartSnapshot]
	if err := s.client.Delete(ctx, "/cart/items/"+productID, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Cart) Clear(ctx context.Context) (*model.CartSnapshot, error) {
	var resp model.Envelope[model.CartSnapshot]
	if err := s.client.Delete(ctx, "/cart", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
