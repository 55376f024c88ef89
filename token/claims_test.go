package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/digisolai/digisol.ai-sub000/token"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestInspect(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("extracts identity and timing claims", func(t *testing.T) {
		raw := signedToken(t, jwtlib.MapClaims{
			"sub":    "user-1",
			"email":  "john.doe@example.com",
			"tenant": "tenant-1",
			"scope":  "read write",
			"jti":    "token-1",
			"iat":    now.Unix(),
			"exp":    now.Add(15 * time.Minute).Unix(),
		})

		claims, err := token.Inspect(raw)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, "john.doe@example.com", claims.Email)
		require.Equal(t, "tenant-1", claims.TenantID)
		require.Equal(t, "read write", claims.Scope)
		require.Equal(t, "token-1", claims.TokenID)
		require.Equal(t, now.Unix(), claims.IssuedAt.Unix())
		require.Equal(t, now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("signature is not verified", func(t *testing.T) {
		raw := signedToken(t, jwtlib.MapClaims{"sub": "user-1"})
		// Clip the signature; the header and claims remain parseable.
		claims, err := token.Inspect(raw[:len(raw)-4] + "AAAA")
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
	})

	t.Run("missing timing claims stay zero", func(t *testing.T) {
		raw := signedToken(t, jwtlib.MapClaims{"sub": "user-1"})
		claims, err := token.Inspect(raw)
		require.NoError(t, err)
		require.True(t, claims.IssuedAt.IsZero())
		require.True(t, claims.ExpiresAt.IsZero())
		require.False(t, claims.Expired(time.Now()))
	})

	t.Run("empty token is malformed", func(t *testing.T) {
		_, err := token.Inspect("   ")
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("opaque string is malformed", func(t *testing.T) {
		_, err := token.Inspect("not-a-jwt")
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})
}

func TestClaims_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	claims := token.Claims{ExpiresAt: now}

	require.False(t, claims.Expired(now.Add(-time.Second)))
	require.True(t, claims.Expired(now.Add(time.Second)))
}
