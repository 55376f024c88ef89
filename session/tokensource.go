package session

import (
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/digisolai/digisol.ai-sub000/token"
	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

// TokenSource exposes the session's access token as an oauth2.TokenSource,
// so oauth2-aware HTTP stacks can consume the session directly. The source
// performs no refreshing of its own (refresh stays reactive, driven by the
// manager) and returns ErrNotAuthenticated when no token is stored.
func (m *Manager) TokenSource() oauth2.TokenSource {
	return &managerTokenSource{manager: m}
}

type managerTokenSource struct {
	manager *Manager
}

func (ts *managerTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := ts.manager.store.AccessToken()
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, "[TokenSource] read access token")
	}

	t := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	// Best effort: surface the exp claim so callers see a meaningful Expiry.
	if claims, err := token.Inspect(accessToken); err == nil {
		t.Expiry = claims.ExpiresAt
	}
	return t, nil
}
