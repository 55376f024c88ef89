package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var ErrMalformedToken = errors.New("malformed access token")

// Claims carries the subset of access-token claims useful to the client:
// identity, tenant scoping, and timing. The client holds no verification
// key, so these values are informational only; token validity is always
// decided by the server (a 401 on use), never locally.
type Claims struct {
	Subject   string    // Users unique ID
	Email     string    // User's email, when the backend includes it
	TenantID  string    // Tenant the token is scoped to
	Scope     string    // Granted scopes
	TokenID   string    // jti claim
	IssuedAt  time.Time // Zero when the claim is absent
	ExpiresAt time.Time // Zero when the claim is absent
}

// Expired reports whether the token's exp claim has passed at time now.
// A token without an exp claim is never reported expired.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}

// Inspect parses the raw access token without verifying its signature and
// extracts the identity and timing claims.
func Inspect(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrMalformedToken
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(ErrMalformedToken, err.Error())
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(ErrMalformedToken, "error extracting claims")
	}

	out := &Claims{}
	out.Subject, _ = claims["sub"].(string)
	out.Email, _ = claims["email"].(string)
	out.TenantID, _ = claims["tenant"].(string)
	out.Scope, _ = claims["scope"].(string)
	out.TokenID, _ = claims["jti"].(string)

	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return out, nil
}
