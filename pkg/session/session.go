// Package session holds the client's authenticated identity and credential.
//
// A Session is constructed explicitly and shared by reference. Its state is
// restored from a storage.Store by Initialize, established by Login or
// Register, and discarded by Logout, Invalidate or a failed validation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/noteguard/pkg/api"
	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/loading"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/storage"
)

// Busy flag keys.
const (
	FlagLogin    = "login"
	FlagRegister = "register"
	FlagLogout   = "logout"
)

// Notices shown by the session itself.
const (
	MsgRegistered = "Registration successful! Welcome to NoteGuard."
	MsgLoggedOut  = "Logged out successfully"
)

// Authenticator is the backend surface the session depends on.
type Authenticator interface {
	Login(ctx context.Context, creds core.Credentials) (core.AuthResult, error)
	Register(ctx context.Context, account core.NewAccount) (core.AuthResult, error)
	ValidateToken(ctx context.Context) (core.TokenValidity, error)
}

// Session is the in-memory record of the current identity.
type Session struct {
	auth     Authenticator
	store    storage.Store
	tracker  *loading.Tracker
	notifier notify.Notifier
	logger   *slog.Logger

	mu           sync.RWMutex
	token        string
	identity     *core.User
	initializing bool
	started      bool
	settled      chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// New creates a Session. It reports Initializing until Initialize settles.
func New(auth Authenticator, store storage.Store, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		auth:         auth,
		store:        store,
		initializing: true,
		settled:      make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = loading.New()
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Initialize restores the persisted session. A restored credential is
// trusted optimistically and validated in the background; Wait observes the
// outcome. Calling Initialize again has no effect.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	token, user, ok := s.restore()
	if !ok {
		s.settle()
		return
	}

	s.mu.Lock()
	s.token = token
	s.identity = user
	s.mu.Unlock()
	s.logger.Debug("session restored", "user", user.Username)

	vctx, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)

	lifecycle.Go(vctx, func(ctx context.Context) error {
		defer s.settle()
		defer cancel()
		defer stop()
		s.validate(ctx, token)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("session validation panic", "error", err)
		s.settle()
	}))
}

// restore reads the persisted pair. A token without a readable identity is
// discarded silently.
func (s *Session) restore() (string, *core.User, bool) {
	token, hasToken := s.store.Get(storage.KeyToken)
	raw, hasUser := s.store.Get(storage.KeyUser)
	if !hasToken && !hasUser {
		return "", nil, false
	}

	var user core.User
	if !hasToken || token == "" || !hasUser || json.Unmarshal([]byte(raw), &user) != nil {
		s.logger.Warn("discarding unreadable persisted session")
		s.clearStore()
		return "", nil, false
	}
	return token, &user, true
}

func (s *Session) validate(ctx context.Context, token string) {
	res, err := s.auth.ValidateToken(ctx)
	if err == nil && res.Valid {
		s.logger.Debug("session token validated")
		return
	}
	if err != nil && ctx.Err() != nil {
		// Aborted by teardown or the caller; the outcome is unknown.
		return
	}

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.identity = nil
	s.mu.Unlock()
	s.clearStore()

	s.logger.Info("persisted session rejected", "error", err)
	if !api.IsNotified(err) {
		s.notifier.Notify(notify.Error(api.MsgSessionExpired))
	}
}

func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initializing {
		return
	}
	s.initializing = false
	close(s.settled)
}

// Wait blocks until initialization has settled or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Initializing reports whether a restored session is still being validated.
func (s *Session) Initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// Login authenticates and establishes the session. On failure the session
// is left as it was.
func (s *Session) Login(ctx context.Context, creds core.Credentials) error {
	return s.tracker.Track(FlagLogin, func() error {
		res, err := s.auth.Login(ctx, creds)
		if err != nil {
			return err
		}
		return s.establish(res)
	})
}

// Register creates an account and establishes the session.
func (s *Session) Register(ctx context.Context, account core.NewAccount) error {
	return s.tracker.Track(FlagRegister, func() error {
		res, err := s.auth.Register(ctx, account)
		if err != nil {
			return err
		}
		if err := s.establish(res); err != nil {
			return err
		}
		s.notifier.Notify(notify.Success(MsgRegistered))
		return nil
	})
}

// establish persists the credential and identity, then adopts them.
func (s *Session) establish(res core.AuthResult) error {
	if res.Token == "" {
		return fmt.Errorf("%w: authentication returned no token", core.ErrMalformedResponse)
	}
	user := res.Identity()
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	if err := s.store.Set(storage.KeyToken, res.Token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.store.Set(storage.KeyUser, string(raw)); err != nil {
		s.clearStore()
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	s.mu.Lock()
	s.token = res.Token
	s.identity = &user
	s.mu.Unlock()

	s.logger.Info("session established", "user", user.Username, "role", user.Role)
	return nil
}

// Logout discards the session locally and in the store. It never fails.
func (s *Session) Logout() {
	_ = s.tracker.Track(FlagLogout, func() error {
		s.Invalidate()
		s.clearStore()
		s.notifier.Notify(notify.Success(MsgLoggedOut))
		return nil
	})
}

// Invalidate drops the in-memory session without touching the store and
// without notifying.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
}

func (s *Session) clearStore() {
	if err := s.store.Remove(storage.KeyToken, storage.KeyUser); err != nil {
		s.logger.Error("failed to clear persisted session", "error", err)
	}
}

// Sync applies changes made to the store by other processes until changes
// is closed or ctx is done.
func (s *Session) Sync(ctx context.Context, changes <-chan storage.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			s.apply(c)
		}
	}
}

func (s *Session) apply(c storage.Change) {
	switch c.Key {
	case storage.KeyToken, storage.KeyUser:
	default:
		return
	}

	if c.Removed {
		s.logger.Debug("session cleared elsewhere", "key", c.Key)
		s.Invalidate()
		return
	}

	token, hasToken := s.store.Get(storage.KeyToken)
	raw, hasUser := s.store.Get(storage.KeyUser)
	if !hasToken || !hasUser || token == "" {
		return
	}
	var user core.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return
	}

	s.mu.Lock()
	s.token = token
	s.identity = &user
	s.mu.Unlock()
	s.logger.Debug("session adopted from store", "user", user.Username)
}

// Teardown stops background validation. It is safe to call more than once.
func (s *Session) Teardown() {
	s.stopOnce.Do(s.cancel)
}

// IsAuthenticated reports whether a credential is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsAdmin reports whether the current identity is an administrator.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.IsAdmin()
}

// IsBusy reports whether any session operation is in flight.
func (s *Session) IsBusy() bool {
	return s.tracker.AnyOf(FlagLogin, FlagRegister, FlagLogout)
}

// Token returns the bearer credential, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the current user.
func (s *Session) Identity() (core.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return core.User{}, false
	}
	return *s.identity, true
}

// Snapshot is the view of the session consumed by the route guard.
func (s *Session) Snapshot() guard.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return guard.Snapshot{
		Authenticated: s.token != "",
		Admin:         s.identity != nil && s.identity.IsAdmin(),
		Initializing:  s.initializing,
	}
}

// State is the introspection view of a Session.
type State struct {
	Authenticated bool   `json:"authenticated"`
	Initializing  bool   `json:"initializing"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
	Busy          bool   `json:"busy"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	busy := s.IsBusy()
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{
		Authenticated: s.token != "",
		Initializing:  s.initializing,
		Busy:          busy,
	}
	if s.identity != nil {
		st.Username = s.identity.Username
		st.Role = string(s.identity.Role)
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
