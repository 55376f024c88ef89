package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digisolai/digisol.ai-sub000/httpclient"
	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

// Classifier table driven through the exported client surface: each case
// serves a 401 with the given payload and asserts whether the session was
// evicted.
func TestClient_UnauthorizedClassification(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		path        string
		code        string
		detail      string
		wantEvicted bool
	}{
		{
			name:        "current user endpoint",
			path:        "/accounts/me/",
			wantEvicted: true,
		},
		{
			name:        "token endpoint under an api prefix",
			path:        "/api/v1/accounts/token/",
			wantEvicted: true,
		},
		{
			name:        "structured token error code",
			path:        "/campaigns/",
			code:        "token_not_valid",
			wantEvicted: true,
		},
		{
			name:        "authentication keyword in detail",
			path:        "/campaigns/",
			detail:      "Authentication credentials were not provided.",
			wantEvicted: true,
		},
		{
			name:        "resource permission error",
			path:        "/client-portals/42/",
			detail:      "You do not have permission to view this resource.",
			wantEvicted: false,
		},
		{
			name:        "empty payload on a non-auth path",
			path:        "/analytics/",
			wantEvicted: false,
		},
		{
			name:        "unknown code without auth keywords",
			path:        "/designs/7/",
			code:        "quota_exceeded",
			detail:      "Plan limit reached.",
			wantEvicted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tokenstore.NewInMemoryStore()
			require.NoError(t, store.SetAccessToken("abc123"))
			require.NoError(t, store.SetRefreshToken("def456"))

			expired := false
			client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body := map[string]string{}
				if tt.code != "" {
					body["code"] = tt.code
				}
				if tt.detail != "" {
					body["detail"] = tt.detail
				}
				writeJSON(w, http.StatusUnauthorized, body)
			}), store, httpclient.WithOnSessionExpired(func() { expired = true }))

			err := client.Get(ctx, tt.path, nil)
			require.True(t, httpclient.IsUnauthorized(err))
			require.Equal(t, tt.wantEvicted, errors.Is(err, httpclient.ErrSessionExpired))
			require.Equal(t, tt.wantEvicted, expired)

			_, storeErr := store.AccessToken()
			if tt.wantEvicted {
				require.ErrorIs(t, storeErr, tokenstore.ErrNotFound)
			} else {
				require.NoError(t, storeErr)
			}
		})
	}
}
