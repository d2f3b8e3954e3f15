package user

import (
	"context"
	"sync"
	"testing"

	"storefront/model"
	"storefront/pkg/errors"
	"storefront/store/auth"
	"storefront/store/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserAPI struct {
	mu        sync.Mutex
	profile   model.Profile
	addresses []model.Address
	err       error
	getCalls  int
}

func (f *fakeUserAPI) GetProfile(_ context.Context) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	p := f.profile
	return &p, nil
}

func (f *fakeUserAPI) UpdateProfile(_ context.Context, profile model.Profile) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.profile = profile
	p := f.profile
	return &p, nil
}

func (f *fakeUserAPI) GetAddresses(_ context.Context) ([]model.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Address(nil), f.addresses...), nil
}

func (f *fakeUserAPI) AddAddress(_ context.Context, address model.Address) (*model.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	address.ID = "addr-1"
	f.addresses = append(f.addresses, address)
	return &address, nil
}

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

func TestProfileLoadsOnLogin(t *testing.T) {
	api := &fakeUserAPI{profile: model.Profile{ID: "u1", Email: "a@b.c", FirstName: "Jane"}}
	src := &fakeAuth{}
	s := New(api, src, notify.NewRecorder())
	t.Cleanup(s.Close)

	assert.Nil(t, s.State().Profile)
	assert.Equal(t, 0, api.getCalls, "anonymous startup must not fetch")

	src.fire(true, auth.EventLogin)
	st := s.State()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Jane", st.Profile.FirstName)
}

func TestLogoutClearsState(t *testing.T) {
	api := &fakeUserAPI{profile: model.Profile{ID: "u1", Email: "a@b.c"}}
	src := &fakeAuth{authenticated: true}
	s := New(api, src, notify.NewRecorder())
	t.Cleanup(s.Close)
	require.NotNil(t, s.State().Profile)
	require.NoError(t, s.AddAddress(context.Background(), model.Address{Street: "1 Main St"}))

	src.fire(false, auth.EventLogout)
	st := s.State()
	assert.Nil(t, st.Profile)
	assert.Empty(t, st.Addresses)
}

func TestUpdateProfile(t *testing.T) {
	api := &fakeUserAPI{profile: model.Profile{ID: "u1", FirstName: "Jane"}}
	src := &fakeAuth{authenticated: true}
	rec := notify.NewRecorder()
	s := New(api, src, rec)
	t.Cleanup(s.Close)

	require.NoError(t, s.UpdateProfile(context.Background(), model.Profile{ID: "u1", FirstName: "Janet"}))
	assert.Equal(t, "Janet", s.State().Profile.FirstName)
	last, _ := rec.Last()
	assert.Equal(t, "Profile updated successfully", last.Message)
}

func TestAddresses(t *testing.T) {
	api := &fakeUserAPI{addresses: []model.Address{{ID: "a1", Street: "1 Main St"}}}
	src := &fakeAuth{authenticated: true}
	s := New(api, src, notify.NewRecorder())
	t.Cleanup(s.Close)

	require.NoError(t, s.FetchAddresses(context.Background()))
	assert.Len(t, s.State().Addresses, 1)

	require.NoError(t, s.AddAddress(context.Background(), model.Address{Street: "2 Oak Ave"}))
	st := s.State()
	require.Len(t, st.Addresses, 2)
	assert.Equal(t, "addr-1", st.Addresses[1].ID, "server-assigned id is adopted")
}

func TestFetchProfileErrorSurfaces(t *testing.T) {
	api := &fakeUserAPI{err: errors.Server()}
	src := &fakeAuth{authenticated: true}
	rec := notify.NewRecorder()
	s := New(api, src, rec)
	t.Cleanup(s.Close)

	err := s.FetchProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.MsgServer, s.State().Err)
}
