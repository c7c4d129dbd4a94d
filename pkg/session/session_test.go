package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noteguard/internal/fakebackend"
	"github.com/aretw0/noteguard/pkg/api"
	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/loading"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/session"
	"github.com/aretw0/noteguard/pkg/storage"
)

type stubAuth struct {
	result   core.AuthResult
	err      error
	block    chan struct{}
	validate func(ctx context.Context) (core.TokenValidity, error)
}

func (a *stubAuth) authenticate(ctx context.Context) (core.AuthResult, error) {
	if a.block != nil {
		<-a.block
	}
	return a.result, a.err
}

func (a *stubAuth) Login(ctx context.Context, _ core.Credentials) (core.AuthResult, error) {
	return a.authenticate(ctx)
}

func (a *stubAuth) Register(ctx context.Context, _ core.NewAccount) (core.AuthResult, error) {
	return a.authenticate(ctx)
}

func (a *stubAuth) ValidateToken(ctx context.Context) (core.TokenValidity, error) {
	if a.validate == nil {
		return core.TokenValidity{Valid: true}, nil
	}
	return a.validate(ctx)
}

var alice = core.AuthResult{Token: "abc", UserID: 1, Username: "alice", Email: "a@x.com", Role: core.RoleStandard}

type fixture struct {
	auth    *stubAuth
	store   *storage.MemoryStore
	notes   *notify.Recorder
	tracker *loading.Tracker
	sess    *session.Session
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:    &stubAuth{result: alice},
		store:   storage.NewMemoryStore(),
		notes:   &notify.Recorder{},
		tracker: loading.New(),
	}
	f.sess = session.New(f.auth, f.store, session.WithNotifier(f.notes), session.WithTracker(f.tracker))
	t.Cleanup(f.sess.Teardown)
	return f
}

func (f *fixture) persist(t *testing.T, token string, user core.User) {
	t.Helper()
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(storage.KeyToken, token))
	require.NoError(t, f.store.Set(storage.KeyUser, string(raw)))
}

func waitSettled(t *testing.T, s *session.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestLogin_EstablishesSession(t *testing.T) {
	f := setup(t)

	err := f.sess.Login(context.Background(), core.Credentials{EmailOrUsername: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, f.sess.IsAuthenticated())
	assert.False(t, f.sess.IsAdmin())
	assert.Equal(t, "abc", f.sess.Token())

	token, ok := f.store.Get(storage.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	raw, ok := f.store.Get(storage.KeyUser)
	require.True(t, ok)
	var user core.User
	require.NoError(t, json.Unmarshal([]byte(raw), &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(1), user.ID)

	identity, ok := f.sess.Identity()
	require.True(t, ok)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.False(t, f.tracker.IsBusy(session.FlagLogin))
	assert.Empty(t, f.notes.All())
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	f := setup(t)
	f.auth.err = errors.New("bad credentials")

	err := f.sess.Login(context.Background(), core.Credentials{EmailOrUsername: "alice", Password: "nope"})
	require.Error(t, err)

	assert.False(t, f.sess.IsAuthenticated())
	assert.False(t, f.sess.IsBusy())
	assert.Empty(t, f.store.Keys())
}

func TestLogin_RejectsEmptyToken(t *testing.T) {
	f := setup(t)
	f.auth.result = core.AuthResult{Username: "alice"}

	err := f.sess.Login(context.Background(), core.Credentials{})
	require.ErrorIs(t, err, core.ErrMalformedResponse)
	assert.False(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.store.Keys())
}

func TestLogin_BusyWhileInFlight(t *testing.T) {
	f := setup(t)
	f.auth.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- f.sess.Login(context.Background(), core.Credentials{})
	}()

	require.Eventually(t, f.sess.IsBusy, time.Second, 5*time.Millisecond)
	assert.True(t, f.tracker.IsBusy(session.FlagLogin))
	assert.False(t, f.tracker.IsBusy(session.FlagRegister))

	close(f.auth.block)
	require.NoError(t, <-done)
	assert.False(t, f.sess.IsBusy())
}

func TestRegister_NotifiesWelcome(t *testing.T) {
	f := setup(t)
	f.auth.result.Role = core.RoleAdministrator

	err := f.sess.Register(context.Background(), core.NewAccount{Username: "alice", Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, f.sess.IsAuthenticated())
	assert.True(t, f.sess.IsAdmin())
	assert.Equal(t, []string{session.MsgRegistered}, f.notes.Messages())
	assert.False(t, f.tracker.IsBusy(session.FlagRegister))
}

func TestRegister_FailureDoesNotNotify(t *testing.T) {
	f := setup(t)
	f.auth.err = errors.New("username taken")

	require.Error(t, f.sess.Register(context.Background(), core.NewAccount{}))
	assert.False(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.notes.All())
}

func TestLogout_AlwaysClears(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.sess.Login(context.Background(), core.Credentials{}))

	f.sess.Logout()
	assert.False(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.store.Keys())
	_, ok := f.sess.Identity()
	assert.False(t, ok)

	f.sess.Logout()
	assert.False(t, f.sess.IsAuthenticated())
	assert.Equal(t, []string{session.MsgLoggedOut, session.MsgLoggedOut}, f.notes.Messages())
	assert.False(t, f.tracker.IsBusy(session.FlagLogout))
}

func TestInitialize_NothingPersisted(t *testing.T) {
	f := setup(t)
	assert.True(t, f.sess.Initializing())

	f.sess.Initialize(context.Background())
	waitSettled(t, f.sess)

	assert.False(t, f.sess.Initializing())
	assert.False(t, f.sess.IsAuthenticated())
}

func TestInitialize_ValidTokenKeepsSession(t *testing.T) {
	f := setup(t)
	f.persist(t, "abc", alice.Identity())

	release := make(chan struct{})
	f.auth.validate = func(ctx context.Context) (core.TokenValidity, error) {
		<-release
		return core.TokenValidity{Valid: true}, nil
	}

	f.sess.Initialize(context.Background())

	snap := f.sess.Snapshot()
	assert.True(t, snap.Initializing)
	assert.True(t, snap.Authenticated, "restored session is trusted optimistically")

	close(release)
	waitSettled(t, f.sess)

	assert.Equal(t, guard.Snapshot{Authenticated: true}, f.sess.Snapshot())
	assert.Empty(t, f.notes.All())
}

func TestInitialize_InvalidTokenClears(t *testing.T) {
	f := setup(t)
	f.persist(t, "abc", alice.Identity())
	f.auth.validate = func(ctx context.Context) (core.TokenValidity, error) {
		return core.TokenValidity{Valid: false}, nil
	}

	f.sess.Initialize(context.Background())
	waitSettled(t, f.sess)

	assert.False(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.store.Keys())
	assert.Equal(t, []string{api.MsgSessionExpired}, f.notes.Messages())
}

func TestInitialize_DecodeFailureClears(t *testing.T) {
	f := setup(t)
	f.persist(t, "abc", alice.Identity())
	f.auth.validate = func(ctx context.Context) (core.TokenValidity, error) {
		return core.TokenValidity{}, &api.Error{Kind: api.KindMalformed}
	}

	f.sess.Initialize(context.Background())
	waitSettled(t, f.sess)

	assert.False(t, f.sess.IsAuthenticated())
	assert.Equal(t, []string{api.MsgSessionExpired}, f.notes.Messages())
}

func TestInitialize_CorruptIdentityClearedSilently(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.store.Set(storage.KeyToken, "abc"))
	require.NoError(t, f.store.Set(storage.KeyUser, "{not json"))

	called := false
	f.auth.validate = func(ctx context.Context) (core.TokenValidity, error) {
		called = true
		return core.TokenValidity{Valid: true}, nil
	}

	f.sess.Initialize(context.Background())
	waitSettled(t, f.sess)

	assert.False(t, called)
	assert.False(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.store.Keys())
	assert.Empty(t, f.notes.All())
}

func TestInitialize_TeardownAbortsValidation(t *testing.T) {
	f := setup(t)
	f.persist(t, "abc", alice.Identity())
	f.auth.validate = func(ctx context.Context) (core.TokenValidity, error) {
		<-ctx.Done()
		return core.TokenValidity{}, ctx.Err()
	}

	f.sess.Initialize(context.Background())
	f.sess.Teardown()
	f.sess.Teardown()
	waitSettled(t, f.sess)

	assert.True(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.notes.All())
}

// A rejected token during initialization is reported once, by the HTTP layer.
func TestInitialize_UnauthorizedNotifiesOnce(t *testing.T) {
	backend := fakebackend.New()
	t.Cleanup(backend.Close)

	store := storage.NewMemoryStore()
	notes := &notify.Recorder{}

	g, err := guard.New(guard.DefaultRoutes())
	require.NoError(t, err)
	nav := guard.NewNavigator(g, nil)

	client, err := api.New(backend.BaseURL(),
		api.WithStore(store),
		api.WithNotifier(notes),
		api.WithRedirector(nav),
	)
	require.NoError(t, err)

	sess := session.New(client, store, session.WithNotifier(notes))
	t.Cleanup(sess.Teardown)
	nav.OnForced(sess.Invalidate)

	raw, err := json.Marshal(alice.Identity())
	require.NoError(t, err)
	require.NoError(t, store.Set(storage.KeyToken, "stale"))
	require.NoError(t, store.Set(storage.KeyUser, string(raw)))

	sess.Initialize(context.Background())
	waitSettled(t, sess)

	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, store.Keys())
	assert.Equal(t, []string{api.MsgSessionExpired}, notes.Messages())
	assert.True(t, nav.IsForced())
	assert.Equal(t, guard.PathLogin, nav.Current())
}

func TestInitialize_AgainstBackend(t *testing.T) {
	backend := fakebackend.New()
	t.Cleanup(backend.Close)
	user := backend.AddUser("bob", "b@x.com", "pw", core.RoleAdministrator)

	store := storage.NewMemoryStore()
	client, err := api.New(backend.BaseURL(), api.WithStore(store))
	require.NoError(t, err)

	sess := session.New(client, store)
	t.Cleanup(sess.Teardown)

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, store.Set(storage.KeyToken, backend.IssueToken(user.ID)))
	require.NoError(t, store.Set(storage.KeyUser, string(raw)))

	sess.Initialize(context.Background())
	waitSettled(t, sess)

	assert.True(t, sess.IsAuthenticated())
	assert.True(t, sess.IsAdmin())
}

func TestSync_FollowsOtherProcesses(t *testing.T) {
	f := setup(t)
	changes := make(chan storage.Change)
	done := make(chan struct{})

	go func() {
		defer close(done)
		f.sess.Sync(context.Background(), changes)
	}()

	f.persist(t, "xyz", alice.Identity())
	changes <- storage.Change{Key: storage.KeyToken, New: "xyz"}
	require.Eventually(t, f.sess.IsAuthenticated, time.Second, 5*time.Millisecond)
	assert.Equal(t, "xyz", f.sess.Token())

	require.NoError(t, f.store.Remove(storage.KeyToken, storage.KeyUser))
	changes <- storage.Change{Key: storage.KeyToken, Old: "xyz", Removed: true}
	require.Eventually(t, func() bool { return !f.sess.IsAuthenticated() }, time.Second, 5*time.Millisecond)

	close(changes)
	<-done
}

func TestState(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.sess.Login(context.Background(), core.Credentials{}))

	st, ok := f.sess.State().(session.State)
	require.True(t, ok)
	assert.True(t, st.Authenticated)
	assert.Equal(t, "alice", st.Username)
	assert.Equal(t, "USER", st.Role)
	assert.Equal(t, "session", f.sess.ComponentType())
}
