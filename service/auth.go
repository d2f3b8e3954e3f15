/*
Package service contains the thin REST wrappers the stores talk through.
Each service owns one backend resource family and does nothing beyond
endpoint construction and response unwrapping; state lives in the stores.
*/
package service

import (
	"context"

	"storefront/internal/httpclient"
	"storefront/model"
)

// Auth wraps the /auth endpoints.
type Auth struct {
	client *httpclient.Client
}

func NewAuth(client *httpclient.Client) *Auth {
	return &Auth{client: client}
}

func (s *Auth) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var resp model.Envelope[model.AuthResponse]
	if err := s.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Auth) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.Envelope[model.AuthResponse]
	if err := s.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Auth) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", nil, nil)
}
