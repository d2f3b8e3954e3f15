package auth

import (
	"sync"

	"storefront/internal/localstore"
	"storefront/model"
)

// Credentials is the persisted identity slice: the access token plus the
// user data stored alongside it. It backs the HTTP client's TokenSource.
type Credentials struct {
	mu    sync.Mutex
	local localstore.Store
}

func NewCredentials(local localstore.Store) *Credentials {
	return &Credentials{local: local}
}

// AccessToken returns the stored bearer token, or "" when signed out.
func (c *Credentials) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var token string
	if found, err := c.local.Get(localstore.KeyAccessToken, &token); err != nil || !found {
		return ""
	}
	return token
}

// User returns the stored user. Both token and user data must be present;
// a half-written pair reads as signed out.
func (c *Credentials) User() (*model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var token string
	if found, err := c.local.Get(localstore.KeyAccessToken, &token); err != nil || !found || token == "" {
		return nil, false
	}
	var user model.User
	if found, err := c.local.Get(localstore.KeyUserData, &user); err != nil || !found {
		return nil, false
	}
	return &user, true
}

// Save persists a fresh token/user pair.
func (c *Credentials) Save(token string, user model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.local.Put(localstore.KeyAccessToken, token); err != nil {
		return err
	}
	return c.local.Put(localstore.KeyUserData, user)
}

// ClearCredentials removes the stored pair. Also called by the HTTP client
// when a request comes back 401.
func (c *Credentials) ClearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.local.Delete(localstore.KeyAccessToken)
	_ = c.local.Delete(localstore.KeyUserData)
}
