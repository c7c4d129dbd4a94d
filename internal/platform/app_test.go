package platform_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/internal/fakebackend"
	"github.com/aretw0/noteguard/internal/platform"
	"github.com/aretw0/noteguard/pkg/api"
	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/guard"
	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/storage"
)

type fixture struct {
	backend *fakebackend.Server
	notes   *notify.Recorder
	app     *platform.App
}

func setup(t *testing.T, opts ...platform.Option) *fixture {
	t.Helper()

	backend := fakebackend.New()
	t.Cleanup(backend.Close)
	backend.AddUser("alice", "a@x.com", "secret", core.RoleStandard)

	cfg := config.Default()
	cfg.APIURL = backend.BaseURL()
	cfg.SessionFile = filepath.Join(t.TempDir(), "session.json")

	notes := &notify.Recorder{}
	base := []platform.Option{
		platform.WithConfig(cfg),
		platform.WithNotifier(notes),
	}
	app, err := platform.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	return &fixture{backend: backend, notes: notes, app: app}
}

func TestApp_LoginPersistsToSessionFile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.app.Ready(ctx))

	assert.Equal(t, guard.RedirectLogin, f.app.Visit("/dashboard").Action)

	require.NoError(t, f.app.Session.Login(ctx, core.Credentials{EmailOrUsername: "alice", Password: "secret"}))
	assert.Equal(t, guard.Render, f.app.Visit("/dashboard").Action)

	// A second process sharing the file starts authenticated.
	second, err := platform.New(platform.WithConfig(f.app.Config), platform.WithNotifier(notify.Discard))
	require.NoError(t, err)
	t.Cleanup(second.Close)
	require.NoError(t, second.Ready(ctx))

	assert.True(t, second.Session.IsAuthenticated())
	identity, ok := second.Session.Identity()
	require.True(t, ok)
	assert.Equal(t, "alice", identity.Username)
}

func TestApp_UnauthorizedForcesNavigation(t *testing.T) {
	f := setup(t, platform.WithStore(storage.NewMemoryStore()))
	ctx := context.Background()
	require.NoError(t, f.app.Ready(ctx))
	require.NoError(t, f.app.Session.Login(ctx, core.Credentials{EmailOrUsername: "alice", Password: "secret"}))

	f.backend.RevokeToken(f.app.Session.Token())

	_, err := f.app.Client.ListOwnNotes(ctx)
	require.ErrorIs(t, err, core.ErrNotAuthenticated)

	assert.False(t, f.app.Session.IsAuthenticated())
	assert.True(t, f.app.Navigator.IsForced())
	assert.Equal(t, guard.PathLogin, f.app.Navigator.Current())
	assert.Error(t, f.app.Navigator.Context().Err())
	assert.Equal(t, []string{api.MsgSessionExpired}, f.notes.Messages())

	_, ok := f.app.Store.Get(storage.KeyToken)
	assert.False(t, ok)
}

func TestApp_Metrics(t *testing.T) {
	f := setup(t, platform.WithStore(storage.NewMemoryStore()))
	ctx := context.Background()
	require.NoError(t, f.app.Ready(ctx))

	_, err := f.app.Client.GetSharedNote(ctx, "missing")
	require.Error(t, err)

	count, err := testutil.GatherAndCount(f.app.Registry, "noteguard_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApp_WatchFollowsOtherProcesses(t *testing.T) {
	f := setup(t, platform.WithWatch(true))
	ctx := context.Background()
	require.NoError(t, f.app.Ready(ctx))
	require.False(t, f.app.Session.IsAuthenticated())

	other := storage.NewFileStore(f.app.Config.SessionFile, nil)
	raw, err := json.Marshal(core.User{ID: 1, Username: "alice", Role: core.RoleStandard})
	require.NoError(t, err)
	require.NoError(t, other.Set(storage.KeyUser, string(raw)))
	require.NoError(t, other.Set(storage.KeyToken, f.backend.IssueToken(1)))

	require.Eventually(t, f.app.Session.IsAuthenticated, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, other.Remove(storage.KeyToken, storage.KeyUser))
	require.Eventually(t, func() bool { return !f.app.Session.IsAuthenticated() }, 3*time.Second, 20*time.Millisecond)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestApp_StartIsIdempotent(t *testing.T) {
	logs := &lockedBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := setup(t, platform.WithWatch(true), platform.WithLogger(logger))
	ctx := context.Background()

	require.NoError(t, f.app.Start(ctx))
	require.NoError(t, f.app.Start(ctx))
	require.NoError(t, f.app.Ready(ctx))
	assert.Equal(t, 1, strings.Count(logs.String(), "watching session file"))

	// The single loop still follows the file and stops on Close.
	other := storage.NewFileStore(f.app.Config.SessionFile, nil)
	raw, err := json.Marshal(core.User{ID: 1, Username: "alice", Role: core.RoleStandard})
	require.NoError(t, err)
	require.NoError(t, other.Set(storage.KeyUser, string(raw)))
	require.NoError(t, other.Set(storage.KeyToken, f.backend.IssueToken(1)))
	require.Eventually(t, f.app.Session.IsAuthenticated, 3*time.Second, 20*time.Millisecond)

	f.app.Close()
	f.app.Close()
}

func TestApp_StartAfterClose(t *testing.T) {
	f := setup(t, platform.WithWatch(true))
	f.app.Close()
	assert.ErrorIs(t, f.app.Start(context.Background()), platform.ErrClosed)
	assert.ErrorIs(t, f.app.Ready(context.Background()), platform.ErrClosed)
}

func TestApp_Components(t *testing.T) {
	f := setup(t)
	types := map[string]bool{}
	for _, c := range f.app.Components() {
		types[c.ComponentType()] = true
		assert.NotNil(t, c.State())
	}
	for _, want := range []string{"session", "navigator", "loading-tracker", "api-client", "file-store"} {
		assert.True(t, types[want], want)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Timeout = 0
	_, err := platform.New(platform.WithConfig(cfg))
	assert.Error(t, err)
}
