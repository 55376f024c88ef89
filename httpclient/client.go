// Package httpclient is the shared request pipeline for all DigiSol backend
// calls. It attaches the stored access token as a bearer credential, decodes
// the backend's JSON error envelope, and evicts the session on
// session-affecting unauthorized responses.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

const defaultTimeout = 30 * time.Second

// Client wraps a single http.Client for all backend calls. Safe for
// concurrent use.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	store            tokenstore.Store
	onSessionExpired func()
	logger           zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (primarily for tests
// and embedders with their own transport configuration).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithOnSessionExpired registers a hook invoked after a session-affecting
// 401 has cleared the token store. The web client navigates to the login
// view here; library consumers typically re-prompt for credentials.
func WithOnSessionExpired(hook func()) Option {
	return func(c *Client) {
		c.onSessionExpired = hook
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, store tokenstore.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[httpclient.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[httpclient.New] token store is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Store returns the token store the client reads its bearer credential from.
func (c *Client) Store() tokenstore.Store {
	return c.store
}

type requestSettings struct {
	noEviction bool
}

type RequestOption func(*requestSettings)

// WithoutEviction disables the session-eviction policy for a single request.
// The session manager uses this for its own restore/login chain, where a 401
// is handled by the refresh-and-retry logic (or surfaced to the caller as a
// credential error) rather than by evicting the session mid-flight.
func WithoutEviction() RequestOption {
	return func(rs *requestSettings) {
		rs.noEviction = true
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, options ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, options...)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any, options ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, options...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, options ...RequestOption) error {
	var settings requestSettings
	for _, opt := range options {
		opt(&settings)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachBearer(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] read response body %s %s", method, path)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrapf(err, "[Client.do] decode response %s %s", method, path)
		}
		return nil
	}

	apiErr := decodeAPIError(resp.StatusCode, respBody)
	if resp.StatusCode == http.StatusUnauthorized && !settings.noEviction {
		return c.handleUnauthorized(path, apiErr)
	}
	return apiErr
}

func (c *Client) attachBearer(req *http.Request) {
	accessToken, err := c.store.AccessToken()
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			c.logger.Warn().Err(err).Msg("token store read failed, sending unauthenticated request")
		}
		return
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
}

// handleUnauthorized applies the session-eviction policy: 401s from auth
// endpoints or with an authentication-flavoured payload clear both tokens
// and fire the expiry hook; any other 401 is a resource-level error and
// passes through untouched.
func (c *Client) handleUnauthorized(path string, apiErr *APIError) error {
	if !sessionAffecting(path, apiErr) {
		return apiErr
	}

	if err := tokenstore.Clear(c.store); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear token store after session-affecting 401")
	}
	c.logger.Debug().Str("path", path).Str("code", apiErr.Code).Msg("session evicted after unauthorized response")
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return &sessionExpiredError{apiErr: apiErr}
}
