package api

import (
	"context"
	"net/http"

	"github.com/aretw0/noteguard/pkg/core"
)

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, creds core.Credentials) (core.AuthResult, error) {
	env, err := call[core.AuthResult](ctx, c, request{method: http.MethodPost, path: "/auth/login", body: creds})
	return payload(env, err, "Login failed")
}

// Register creates an account and authenticates it.
func (c *Client) Register(ctx context.Context, account core.NewAccount) (core.AuthResult, error) {
	env, err := call[core.AuthResult](ctx, c, request{method: http.MethodPost, path: "/auth/register", body: account})
	return payload(env, err, "Registration failed")
}

// ValidateToken asks the backend whether the stored token is still accepted.
func (c *Client) ValidateToken(ctx context.Context) (core.TokenValidity, error) {
	env, err := call[core.TokenValidity](ctx, c, request{method: http.MethodGet, path: "/auth/validate"})
	return payload(env, err, "Token validation failed")
}
