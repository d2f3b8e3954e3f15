package service

import (
	"context"

	"storefront/internal/httpclient"
	"storefront/model"
)

// Order wraps the /orders endpoints.
type Order struct {
	client *httpclient.Client
}

func NewOrder(client *httpclient.Client) *Order {
	return &Order{client: client}
}

func (s *Order) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	var resp model.Envelope[model.Order]
	if err := s.client.Post(ctx, "/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Order) GetUserOrders(ctx context.Context) (*model.Page[model.Order], error) {
	var resp model.Envelope[model.Page[model.Order]]
	if err := s.client.Get(ctx, "/orders", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Order) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var resp model.Envelope[model.Order]
	if err := s.client.Get(ctx, "/orders/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Order) CancelOrder(ctx context.Context, id string) (*model.Order, error) {
	var resp model.Envelope[model.Order]
	if err := s.client.Put(ctx, "/orders/"+id+"/cancel", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
