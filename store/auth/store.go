/*
Package auth holds the authentication store: a small state machine over
anonymous → authenticating → authenticated, with a lockout policy on
repeated failure. Other stores observe it through Subscribe rather than a
global event bus.
*/
package auth

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"storefront/config"
	"storefront/internal/localstore"
	"storefront/model"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/store/notify"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Status of the authentication state machine.
type Status int

const (
	StatusAnonymous Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusLocked
)

// Event broadcast to subscribers on every auth transition.
type Event int

const (
	EventLogin Event = iota
	EventLogout
	EventUnauthorized
)

// API is the slice of the auth REST surface the store needs.
type API interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Transport is the HTTP-client surface the store binds to: the 401 hook and
// the pending-request table cleared on logout.
type Transport interface {
	SetUnauthorizedHook(fn func())
	CancelPending()
}

// State is the externally visible auth state.
type State struct {
	Status        Status
	User          *model.User
	Err           string
	LoginAttempts int
	LockoutUntil  time.Time // zero when no lockout is active
}

// Store owns the auth state slice.
type Store struct {
	cfg      config.AuthConfig
	api      API
	creds    *Credentials
	local    localstore.Store
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     State
	transport Transport

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New builds the store and restores any persisted session and lockout
// counters.
func New(cfg config.AuthConfig, api API, creds *Credentials, local localstore.Store, notifier notify.Notifier) *Store {
	s := &Store{
		cfg:      cfg,
		api:      api,
		creds:    creds,
		local:    local,
		notifier: notifier,
		log:      logger.WithStore("auth"),
		now:      time.Now,
		subs:     make(map[int]func(Event)),
	}
	s.restore()
	return s
}

// BindTransport wires the HTTP client's 401 signal into this store and lets
// logout drop the client's pending-request table.
func (s *Store) BindTransport(t Transport) {
	s.mu.Lock()
	s.transport = t
	s.mu.Unlock()
	t.SetUnauthorizedHook(s.handleUnauthorized)
}

// Subscribe registers an observer for auth events. The returned function
// unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) emit(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Login authenticates. Within an active lockout window the attempt is
// rejected locally with no network call.
func (s *Store) Login(ctx context.Context, req model.LoginRequest) error {
	s.mu.Lock()
	now := s.now()
	if !s.state.LockoutUntil.IsZero() && now.Before(s.state.LockoutUntil) {
		minutesLeft := int(math.Ceil(s.state.LockoutUntil.Sub(now).Minutes()))
		plural := ""
		if minutesLeft > 1 {
			plural = "s"
		}
		msg := fmt.Sprintf("Account locked. Try again in %d minute%s.", minutesLeft, plural)
		s.state.Err = msg
		s.state.Status = StatusLocked
		s.mu.Unlock()
		notify.Push(s.notifier, msg, notify.Error)
		return errors.AccountLocked(msg)
	}
	s.state.Status = StatusAuthenticating
	s.state.Err = ""
	s.mu.Unlock()

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return s.loginFailed(err)
	}
	return s.loginSucceeded(resp, "Login successful!")
}

// Register creates an account and signs in on success.
func (s *Store) Register(ctx context.Context, req model.RegisterRequest) error {
	s.mu.Lock()
	s.state.Status = StatusAuthenticating
	s.state.Err = ""
	s.mu.Unlock()

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		msg := errors.UserMessage(err)
		s.mu.Lock()
		s.state.Status = StatusAnonymous
		s.state.Err = msg
		s.mu.Unlock()
		notify.Push(s.notifier, msg, notify.Error)
		return err
	}
	return s.loginSucceeded(resp, "Registration successful!")
}

func (s *Store) loginSucceeded(resp *model.AuthResponse, message string) error {
	user := model.User{Email: resp.Email, Roles: resp.Roles}
	if err := s.creds.Save(resp.AccessToken, user); err != nil {
		s.log.Error("failed to persist credentials", zap.Error(err))
	}

	s.mu.Lock()
	s.state.Status = StatusAuthenticated
	s.state.User = &user
	s.state.Err = ""
	s.state.LoginAttempts = 0
	s.state.LockoutUntil = time.Time{}
	s.mu.Unlock()

	s.persistAttempts(0)
	s.clearLockout()

	notify.Push(s.notifier, message, notify.Success)
	s.emit(EventLogin)
	return nil
}

func (s *Store) loginFailed(err error) error {
	msg := errors.UserMessage(err)

	s.mu.Lock()
	s.state.LoginAttempts++
	attempts := s.state.LoginAttempts
	if attempts >= s.cfg.MaxLoginAttempts {
		s.state.LockoutUntil = s.now().Add(s.cfg.LockoutDuration)
		s.state.Status = StatusLocked
	} else {
		s.state.Status = StatusAnonymous
	}
	lockout := s.state.LockoutUntil
	s.state.User = nil
	s.state.Err = msg
	s.mu.Unlock()

	s.persistAttempts(attempts)
	if !lockout.IsZero() {
		s.persistLockout(lockout)
	}

	s.log.Warn("login failed", zap.Int("attempts", attempts), zap.Error(err))
	notify.Push(s.notifier, msg, notify.Error)
	return err
}

// Logout signs out. Local cleanup is unconditional: a failed remote logout
// still clears credentials and resets the state machine.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn("remote logout failed, continuing with local cleanup", zap.Error(err))
	}

	s.creds.ClearCredentials()
	s.persistAttempts(0)
	s.clearLockout()

	s.mu.Lock()
	s.state = State{Status: StatusAnonymous}
	t := s.transport
	s.mu.Unlock()

	if t != nil {
		t.CancelPending()
	}

	notify.Push(s.notifier, "Logged out successfully", notify.Info)
	s.emit(EventLogout)
}

// handleUnauthorized reacts to a 401: the HTTP client has already cleared
// the credentials, so only the in-memory state transitions here.
func (s *Store) handleUnauthorized() {
	s.mu.Lock()
	wasAuthenticated := s.state.Status == StatusAuthenticated
	s.state.Status = StatusAnonymous
	s.state.User = nil
	s.mu.Unlock()

	if wasAuthenticated {
		s.log.Info("session expired, forcing logout")
	}
	s.emit(EventUnauthorized)
}

// restore rebuilds state from persisted credentials and lockout counters.
// A stored JWT whose exp claim has passed is discarded.
func (s *Store) restore() {
	token := s.creds.AccessToken()
	if user, ok := s.creds.User(); ok {
		if tokenExpired(token, s.now()) {
			s.log.Info("stored token expired, discarding session")
			s.creds.ClearCredentials()
		} else {
			s.state.Status = StatusAuthenticated
			s.state.User = user
		}
	}

	var attempts int
	if found, err := s.local.Get(localstore.KeyLoginAttempts, &attempts); err == nil && found {
		s.state.LoginAttempts = attempts
	}
	var lockoutMillis int64
	if found, err := s.local.Get(localstore.KeyLockoutUntil, &lockoutMillis); err == nil && found && lockoutMillis > 0 {
		s.state.LockoutUntil = time.UnixMilli(lockoutMillis)
	}
}

// tokenExpired inspects the exp claim without verifying the signature; the
// server remains the authority, this only avoids starting a session that is
// certain to 401. Opaque (non-JWT) tokens never read as expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func (s *Store) persistAttempts(n int) {
	if err := s.local.Put(localstore.KeyLoginAttempts, n); err != nil {
		s.log.Error("failed to persist login attempts", zap.Error(err))
	}
}

func (s *Store) persistLockout(t time.Time) {
	if err := s.local.Put(localstore.KeyLockoutUntil, t.UnixMilli()); err != nil {
		s.log.Error("failed to persist lockout", zap.Error(err))
	}
}

func (s *Store) clearLockout() {
	_ = s.local.Delete(localstore.KeyLockoutUntil)
}

// ClearError resets the error field.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Err = ""
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		user := *st.User
		st.User = &user
	}
	return st
}

// IsAuthenticated reports whether a user session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status == StatusAuthenticated
}

// HasRole reports whether the signed-in user carries the role. Always false
// when anonymous.
func (s *Store) HasRole(role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusAuthenticated || s.state.User == nil {
		return false
	}
	for _, r := range s.state.User.Roles {
		if r == role {
			return true
		}
	}
	return false
}
