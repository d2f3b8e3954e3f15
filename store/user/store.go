/*
Package user holds the account store: the profile and saved addresses of
the signed-in user. The whole slice is cleared on logout.
*/
package user

import (
	"context"
	"sync"

	"storefront/model"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/store/auth"
	"storefront/store/notify"

	"go.uber.org/zap"
)

// API is the slice of the user REST surface the store needs.
type API interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile model.Profile) (*model.Profile, error)
	GetAddresses(ctx context.Context) ([]model.Address, error)
	AddAddress(ctx context.Context, address model.Address) (*model.Address, error)
}

// AuthSource is the slice of the auth store the user store observes.
type AuthSource interface {
	IsAuthenticated() bool
	Subscribe(fn func(auth.Event)) func()
}

// State is the externally visible account state.
type State struct {
	Profile   *model.Profile
	Addresses []model.Address
	IsLoading bool
	Err       string
}

// Store owns the account state slice.
type Store struct {
	api      API
	authSrc  AuthSource
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.Mutex
	state State

	unsubscribe func()
}

// New builds the store, loads the profile when a session is already active,
// and subscribes to auth transitions.
func New(api API, authSrc AuthSource, notifier notify.Notifier) *Store {
	s := &Store{
		api:      api,
		authSrc:  authSrc,
		notifier: notifier,
		log:      logger.WithStore("user"),
		state:    State{Addresses: []model.Address{}},
	}
	if authSrc.IsAuthenticated() {
		_ = s.FetchProfile(context.Background())
	}
	s.unsubscribe = authSrc.Subscribe(s.onAuthEvent)
	return s
}

// Close detaches the store from the auth event stream.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Store) onAuthEvent(e auth.Event) {
	switch e {
	case auth.EventLogin:
		_ = s.FetchProfile(context.Background())
	case auth.EventLogout, auth.EventUnauthorized:
		s.mu.Lock()
		s.state = State{Addresses: []model.Address{}}
		s.mu.Unlock()
	}
}

// FetchProfile loads the account profile. No-op when anonymous.
func (s *Store) FetchProfile(ctx context.Context) error {
	if !s.authSrc.IsAuthenticated() {
		return nil
	}
	s.setLoading(true)
	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		s.setError(errors.UserMessage(err))
		notify.Push(s.notifier, "Failed to load profile", notify.Error)
		return err
	}
	s.mu.Lock()
	s.state.Profile = profile
	s.state.IsLoading = false
	s.state.Err = ""
	s.mu.Unlock()
	return nil
}

// UpdateProfile writes profile changes and adopts the server's copy.
func (s *Store) UpdateProfile(ctx context.Context, profile model.Profile) error {
	s.setLoading(true)
	updated, err := s.api.UpdateProfile(ctx, profile)
	if err != nil {
		s.setError(errors.UserMessage(err))
		notify.Push(s.notifier, "Failed to update profile", notify.Error)
		return err
	}
	s.mu.Lock()
	s.state.Profile = updated
	s.state.IsLoading = false
	s.state.Err = ""
	s.mu.Unlock()
	notify.Push(s.notifier, "Profile updated successfully", notify.Success)
	return nil
}

// FetchAddresses loads the saved addresses.
func (s *Store) FetchAddresses(ctx context.Context) error {
	addresses, err := s.api.GetAddresses(ctx)
	if err != nil {
		notify.Push(s.notifier, "Failed to load addresses", notify.Error)
		return err
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	s.mu.Lock()
	s.state.Addresses = addresses
	s.mu.Unlock()
	return nil
}

// AddAddress saves a new address and appends the server's copy.
func (s *Store) AddAddress(ctx context.Context, address model.Address) error {
	saved, err := s.api.AddAddress(ctx, address)
	if err != nil {
		notify.Push(s.notifier, "Failed to save address", notify.Error)
		return err
	}
	s.mu.Lock()
	s.state.Addresses = append(s.state.Addresses, *saved)
	s.mu.Unlock()
	notify.Push(s.notifier, "Address saved", notify.Success)
	return nil
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.state.IsLoading = loading
	s.mu.Unlock()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.state.Err = msg
	s.state.IsLoading = false
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.Profile != nil {
		p := *s.state.Profile
		st.Profile = &p
	}
	st.Addresses = append([]model.Address(nil), s.state.Addresses...)
	return st
}
