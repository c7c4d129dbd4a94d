// Package api is the HTTP boundary to the NoteGuard backend. Every request
// goes through Client, which attaches the bearer token, decodes the response
// envelope and maps failing statuses onto notifications exactly once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/noteguard/pkg/notify"
	"github.com/aretw0/noteguard/pkg/storage"
)

// Notification texts shown by the client.
const (
	MsgSessionExpired = "Session expired. Please login again."
	MsgForbidden      = "You don't have permission to access this resource."
	MsgNotFound       = "Resource not found."
	MsgServerError    = "Server error. Please try again later."
	MsgNetworkError   = "Network error. Please check your connection."
	MsgUnexpected     = "An unexpected error occurred"
)

const maxBodySize = 4 << 20

// Client issues requests to the backend.
type Client struct {
	base       *url.URL
	http       *http.Client
	timeout    time.Duration
	store      storage.Store
	notifier   notify.Notifier
	redirector Redirector
	logger     *slog.Logger
	metrics    *Metrics
	userAgent  string
	loginPath  string
}

// request describes one call. Public requests never carry the bearer token.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	public bool
}

// New creates a Client talking to baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	base, err := absoluteBase(baseURL, o.origin)
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:       base,
		http:       httpClient,
		timeout:    o.timeout,
		store:      o.store,
		notifier:   o.notifier,
		redirector: o.redirector,
		logger:     logger,
		metrics:    o.metrics,
		userAgent:  o.userAgent,
		loginPath:  o.loginPath,
	}, nil
}

// BaseURL returns the absolute backend address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do performs an authenticated call and returns the raw envelope.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Envelope[json.RawMessage], error) {
	return c.do(ctx, request{method: method, path: path, body: body})
}

func (c *Client) do(ctx context.Context, req request) (Envelope[json.RawMessage], error) {
	var env Envelope[json.RawMessage]

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return env, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, req.method, c.endpoint(req.path, req.query), body)
	if err != nil {
		return env, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.public && c.store != nil {
		if token, ok := c.store.Get(storage.KeyToken); ok && token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("request", "method", req.method, "path", req.path, "request_id", httpReq.Header.Get("X-Request-ID"))

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.observe(req.method, 0, time.Since(start))
		return env, c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.metrics.observe(req.method, resp.StatusCode, time.Since(start))
	if err != nil {
		return env, c.transportFailure(ctx, err)
	}

	c.logger.Debug("response", "method", req.method, "path", req.path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return env, c.statusFailure(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return env, &Error{Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return env, nil
}

// transportFailure covers requests that never produced a response. A call
// abandoned because the caller's context ended is not notified.
func (c *Client) transportFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &Error{Kind: KindTransport, Message: "request aborted", Err: ctx.Err()}
	}
	c.logger.Warn("backend unreachable", "error", err)
	c.notifier.Notify(notify.Error(MsgNetworkError))
	return &Error{Kind: KindTransport, Err: err, notified: true}
}

// statusFailure maps a non-2xx status onto notifications and an *Error.
func (c *Client) statusFailure(status int, data []byte) error {
	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	message := eb.Message
	if message == "" {
		message = eb.Error
	}

	e := &Error{
		Status:      status,
		Message:     message,
		Code:        eb.ErrorCode,
		FieldErrors: eb.FieldErrors,
		notified:    true,
	}

	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		c.expireSession()
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
		c.notifier.Notify(notify.Error(MsgForbidden))
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
		c.notifier.Notify(notify.Error(MsgNotFound))
	case status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
		if len(eb.FieldErrors) > 0 {
			fields := make([]string, 0, len(eb.FieldErrors))
			for f := range eb.FieldErrors {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				c.notifier.Notify(notify.Error(eb.FieldErrors[f]))
			}
		} else {
			c.notifier.Notify(notify.Error(orDefault(message, MsgUnexpected)))
		}
	case status == http.StatusInternalServerError:
		e.Kind = KindServer
		c.notifier.Notify(notify.Error(MsgServerError))
	default:
		e.Kind = KindRejected
		if status >= 500 {
			e.Kind = KindServer
		}
		c.notifier.Notify(notify.Error(orDefault(message, MsgUnexpected)))
	}

	c.logger.Debug("request failed", "status", status, "message", message)
	return e
}

// expireSession discards the persisted credential and forces the client
// back to the login page.
func (c *Client) expireSession() {
	c.notifier.Notify(notify.Error(MsgSessionExpired))
	if c.store != nil {
		if err := c.store.Remove(storage.KeyToken, storage.KeyUser); err != nil {
			c.logger.Error("failed to clear persisted session", "error", err)
		}
	}
	if c.redirector != nil {
		c.redirector.ForceNavigate(c.loginPath)
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// call runs req and decodes the envelope payload into T.
func call[T any](ctx context.Context, c *Client, req request) (Envelope[T], error) {
	raw, err := c.do(ctx, req)
	out := Envelope[T]{
		Success:   raw.Success,
		Message:   raw.Message,
		ErrorCode: raw.ErrorCode,
		Timestamp: raw.Timestamp,
	}
	if err != nil {
		return out, err
	}
	if len(raw.Data) > 0 && !bytes.Equal(raw.Data, []byte("null")) {
		if err := json.Unmarshal(raw.Data, &out.Data); err != nil {
			return out, &Error{Kind: KindMalformed, Err: err}
		}
	}
	return out, nil
}

// payload unwraps a successful envelope, turning success=false into a
// caller-local rejection that has not been notified.
func payload[T any](env Envelope[T], err error, fallback string) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if !env.Success {
		return zero, &Error{Kind: KindRejected, Message: orDefault(env.Message, fallback), Code: env.ErrorCode}
	}
	return env.Data, nil
}

// ClientState is the introspection view of a Client.
type ClientState struct {
	BaseURL  string `json:"base_url"`
	Timeout  string `json:"timeout"`
	HasToken bool   `json:"has_token"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	hasToken := false
	if c.store != nil {
		_, hasToken = c.store.Get(storage.KeyToken)
	}
	return ClientState{BaseURL: c.BaseURL(), Timeout: c.timeout.String(), HasToken: hasToken}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "api-client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
