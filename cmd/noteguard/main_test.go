package main

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noteguard/internal/config"
	"github.com/aretw0/noteguard/internal/fakebackend"
	"github.com/aretw0/noteguard/pkg/api"
	"github.com/aretw0/noteguard/pkg/core"
	"github.com/aretw0/noteguard/pkg/storage"
)

type exitCode int

type result struct {
	stdout string
	stderr string
	code   int
}

type cli struct {
	t           *testing.T
	backend     *fakebackend.Server
	alice       core.User
	sessionFile string
	configFile  string
	envFile     string
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	backend := fakebackend.New()
	t.Cleanup(backend.Close)

	dir := t.TempDir()
	c := &cli{
		t:           t,
		backend:     backend,
		alice:       backend.AddUser("alice", "a@x.com", "secret", core.RoleStandard),
		sessionFile: filepath.Join(dir, "session.json"),
		configFile:  filepath.Join(dir, "config.yaml"),
		envFile:     filepath.Join(dir, ".env"),
	}
	t.Setenv(config.EnvSessionFile, c.sessionFile)
	t.Setenv(config.EnvAPIURL, backend.BaseURL())
	return c
}

// run executes the root command with args, turning exit calls into a code.
func (c *cli) run(args ...string) (res result) {
	c.t.Helper()

	var out, errOut bytes.Buffer
	prevOut, prevErr, prevExit := stdout, stderr, exit
	stdout, stderr = &out, &errOut
	exit = func(code int) { panic(exitCode(code)) }
	defer func() {
		stdout, stderr, exit = prevOut, prevErr, prevExit
		if r := recover(); r != nil {
			code, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			res.code = int(code)
		}
		res.stdout = out.String()
		res.stderr = errOut.String()
	}()

	rootCmd.SetArgs(append([]string{"--config", c.configFile, "--env-file", c.envFile}, args...))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		exit(1)
	}
	return res
}

func (c *cli) storedToken() string {
	token, _ := storage.NewFileStore(c.sessionFile, nil).Get(storage.KeyToken)
	return token
}

func (c *cli) login() {
	c.t.Helper()
	res := c.run("login", "-u", "alice", "-p", "secret")
	require.Equal(c.t, 0, res.code, res.stderr)
	assert.Contains(c.t, res.stdout, "Logged in as alice")
	assert.Contains(c.t, res.stderr, "Login successful!")
	require.NotEmpty(c.t, c.storedToken())
}

func TestCLI_LoginThenListNotes(t *testing.T) {
	c := newCLI(t)
	c.backend.AddNote(core.Note{Title: "Groceries", Content: "milk", OwnerID: c.alice.ID})

	c.login()

	res := c.run("notes", "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Groceries")
	assert.Contains(t, res.stdout, "1 notes, 0 shared, 0 expiring")

	req, ok := c.backend.LastRequest(http.MethodGet, "/notes/user")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+c.storedToken(), req.Authorization)
}

func TestCLI_NotLoggedInIsRedirected(t *testing.T) {
	c := newCLI(t)

	res := c.run("notes", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Not logged in. Run 'noteguard login' first.")
	_, ok := c.backend.LastRequest(http.MethodGet, "/notes/user")
	assert.False(t, ok, "the guard stops the command before any request")
}

func TestCLI_UnauthorizedRequestNotifiesOnce(t *testing.T) {
	c := newCLI(t)
	c.login()

	c.backend.Fail(http.MethodGet, "/notes/user", http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
	res := c.run("notes", "list")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, 1, strings.Count(res.stderr, api.MsgSessionExpired), res.stderr)
	assert.NotContains(t, res.stderr, "Failed to load notes")
	assert.Empty(t, c.storedToken())

	c.backend.Recover()
	res = c.run("notes", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Not logged in.")
	assert.NotContains(t, res.stderr, api.MsgSessionExpired)
}

func TestCLI_RevokedSessionStopsAtTheGuard(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.backend.RevokeToken(c.storedToken())

	res := c.run("notes", "list")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, 1, strings.Count(res.stderr, api.MsgSessionExpired), res.stderr)
	assert.NotContains(t, res.stderr, "Not logged in.")
	assert.Empty(t, res.stdout)
	assert.Empty(t, c.storedToken())
	_, ok := c.backend.LastRequest(http.MethodGet, "/notes/user")
	assert.False(t, ok)
}
