package service

import (
	"context"

	"storefront/internal/httpclient"
	"storefront/model"
)

// User wraps the /users endpoints.
type User struct {
	client *httpclient.Client
}

func NewUser(client *httpclient.Client) *User {
	return &User{client: client}
}

func (s *User) GetProfile(ctx context.Context) (*model.Profile, error) {
	var resp model.Envelope[model.Profile]
	if err := s.client.Get(ctx, "/users/me", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *User) UpdateProfile(ctx context.Context, profile model.Profile) (*model.Profile, error) {
	var resp model.Envelope[model.Profile]
	if err := s.client.Put(ctx, "/users/me", profile, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *User) GetAddresses(ctx context.Context) ([]model.Address, error) {
	var resp model.Envelope[[]model.Address]
	if err := s.client.Get(ctx, "/users/addresses", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *User) AddAddress(ctx context.Context, address model.Address) (*model.Address, error) {
	var resp model.Envelope[model.Address]
	if err := s.client.Post(ctx, "/users/addresses", address, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
