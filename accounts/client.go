// Package accounts is the typed surface over the backend's account routes:
// token issuance, token refresh, the current-user profile, and registration.
package accounts

import (
	"context"

	"github.com/pkg/errors"

	"github.com/digisolai/digisol.ai-sub000/httpclient"
)

const (
	TokenPath        = "/accounts/token/"
	TokenRefreshPath = "/accounts/token/refresh/"
	CurrentUserPath  = "/accounts/me/"
	RegisterPath     = "/accounts/register/"
)

// Client calls the account endpoints through the shared pipeline. All calls
// opt out of the pipeline's session eviction: a 401 here is either handled
// by the session manager's refresh chain or surfaced to the caller as a
// credential error, never by evicting the session mid-flight.
type Client struct {
	http *httpclient.Client
}

func NewClient(http *httpclient.Client) (*Client, error) {
	if http == nil {
		return nil, errors.New("[accounts.NewClient] http client is required")
	}
	return &Client{http: http}, nil
}

// ObtainToken exchanges credentials for a token pair.
func (c *Client) ObtainToken(ctx context.Context, email, password string) (*TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	var pair TokenPair
	if err := c.http.Post(ctx, TokenPath, body, &pair, httpclient.WithoutEviction()); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.http.Post(ctx, TokenRefreshPath, body, &resp, httpclient.WithoutEviction()); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// CurrentUser fetches the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.http.Get(ctx, CurrentUserPath, &user, httpclient.WithoutEviction()); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new account. The endpoint issues no tokens; the session
// manager follows a successful registration with an automatic login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.http.Post(ctx, RegisterPath, req, nil, httpclient.WithoutEviction())
}
