// Package auth tracks whether a user identity is currently established.
// Changes to the authenticated flag flowing through Session are the sole
// trigger for remote cart fetches and migration checks; no other component
// decides "the user just logged in" on its own.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/acastellon/shopfront/internal/identity"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/localstore"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

const (
	keyAuthToken     = "auth_token"
	keyUserEmail     = "user_email"
	keyRememberEmail = "remember_email"
)

// State is the snapshot handed to subscribers on every transition.
type State struct {
	Authenticated bool
	Resolved      bool
	User          *types.User
}

// IdentityClient is the slice of the identity collaborator the session needs.
type IdentityClient interface {
	SignIn(ctx context.Context, creds identity.Credentials) (string, *types.User, error)
	SocialSignIn(ctx context.Context, provider, idToken string) (string, *types.User, error)
	CurrentUser(ctx context.Context) (*types.User, error)
	SignOut(ctx context.Context) error
}

type Session struct {
	mu        sync.Mutex
	kv        localstore.Store
	idp       IdentityClient
	logg      *logger.Logger
	now       func() time.Time
	user      *types.User
	authed    bool
	resolved  bool
	listeners []func(State)
}

func NewSession(kv localstore.Store, idp IdentityClient, logg *logger.Logger) (*Session, error) {
	if kv == nil {
		return nil, fmt.Errorf("local store is required")
	}
	if idp == nil {
		return nil, fmt.Errorf("identity client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Session{kv: kv, idp: idp, logg: logg, now: time.Now}, nil
}

// Subscribe registers a listener invoked on every auth-state transition,
// including the initial resolution.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Resolve performs the one-time startup check: no persisted token resolves
// immediately to unauthenticated; a present token is validated locally for
// expiry and then against the backend. Exactly one resolution occurs per
// process; later calls return the settled state.
func (s *Session) Resolve(ctx context.Context) State {
	s.mu.Lock()
	if s.resolved {
		st := s.snapshot()
		s.mu.Unlock()
		return st
	}
	s.mu.Unlock()

	token, ok, err := s.kv.Get(keyAuthToken)
	if err != nil {
		s.logg.Error(ctx, "reading persisted token", err)
	}
	if !ok || strings.TrimSpace(token) == "" {
		return s.settle(ctx, false, nil)
	}

	if tokenExpired(token, s.now()) {
		s.logg.Info(ctx, "persisted token expired, clearing")
		s.clearCredentials()
		return s.settle(ctx, false, nil)
	}

	user, err := s.idp.CurrentUser(ctx)
	if err != nil {
		s.logg.Warn(ctx, "token validation failed: "+err.Error())
		s.clearCredentials()
		return s.settle(ctx, false, nil)
	}
	return s.settle(ctx, true, user)
}

func (s *Session) settle(ctx context.Context, authed bool, user *types.User) State {
	s.mu.Lock()
	if s.resolved {
		st := s.snapshot()
		s.mu.Unlock()
		return st
	}
	s.resolved = true
	s.authed = authed
	s.user = user
	st := s.snapshot()
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	s.logg.Info(ctx, fmt.Sprintf("session resolved (authenticated=%t)", authed))
	for _, fn := range listeners {
		fn(st)
	}
	return st
}

// Login establishes a session with email/password credentials.
func (s *Session) Login(ctx context.Context, email, password string, rememberMe bool) (*types.User, error) {
	token, user, err := s.idp.SignIn(ctx, identity.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, token, user, email, rememberMe)
}

// LoginWithProvider establishes a session from a third-party identity token.
func (s *Session) LoginWithProvider(ctx context.Context, provider, idToken string) (*types.User, error) {
	token, user, err := s.idp.SocialSignIn(ctx, provider, idToken)
	if err != nil {
		return nil, err
	}
	email := ""
	if user != nil {
		email = user.Email
	}
	return s.establish(ctx, token, user, email, false)
}

func (s *Session) establish(ctx context.Context, token string, user *types.User, email string, rememberMe bool) (*types.User, error) {
	// Persist before flipping state so a reload right after login stays
	// authenticated.
	if err := s.kv.Set(keyAuthToken, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist token")
	}
	if email != "" {
		if err := s.kv.Set(keyUserEmail, email); err != nil {
			s.logg.Error(ctx, "persist user email", err)
		}
	}
	if rememberMe {
		_ = s.kv.Set(keyRememberEmail, email)
	} else {
		_ = s.kv.Delete(keyRememberEmail)
	}

	s.mu.Lock()
	s.authed = true
	s.resolved = true
	s.user = user
	st := s.snapshot()
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	s.logg.Info(s.logg.WithUserEmail(ctx, email), "session established")
	for _, fn := range listeners {
		fn(st)
	}
	return user, nil
}

// Logout clears persisted credentials and flips the session to
// unauthenticated. Server-side revocation is best effort.
func (s *Session) Logout(ctx context.Context) {
	if err := s.idp.SignOut(ctx); err != nil {
		s.logg.Warn(ctx, "sign out round-trip failed, clearing local session anyway")
	}
	s.Invalidate(ctx)
}

// Invalidate drops the local session without a server round-trip. The API
// transport calls this when the backend rejects the credential.
func (s *Session) Invalidate(ctx context.Context) {
	s.clearCredentials()

	s.mu.Lock()
	wasAuthed := s.authed
	s.authed = false
	s.user = nil
	st := s.snapshot()
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	if !wasAuthed {
		return
	}
	s.logg.Info(ctx, "session invalidated")
	for _, fn := range listeners {
		fn(st)
	}
}

func (s *Session) clearCredentials() {
	_ = s.kv.Delete(keyAuthToken)
	_ = s.kv.Delete(keyUserEmail)
}

// Token implements the API transport's TokenSource.
func (s *Session) Token() (string, bool) {
	token, ok, err := s.kv.Get(keyAuthToken)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, ok
}

// RememberedEmail returns the email persisted by a remember-me login.
func (s *Session) RememberedEmail() (string, bool) {
	email, ok, err := s.kv.Get(keyRememberEmail)
	if err != nil || email == "" {
		return "", false
	}
	return email, ok
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

func (s *Session) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

func (s *Session) User() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// snapshot assumes s.mu is held.
func (s *Session) snapshot() State {
	return State{Authenticated: s.authed, Resolved: s.resolved, User: s.user}
}

// TokenSource reads the persisted credential straight from the local store.
// It lets the API transport be constructed before the session that manages
// the credential.
type TokenSource struct {
	kv localstore.Store
}

func NewTokenSource(kv localstore.Store) *TokenSource {
	return &TokenSource{kv: kv}
}

func (t *TokenSource) Token() (string, bool) {
	token, ok, err := t.kv.Get(keyAuthToken)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, ok
}
