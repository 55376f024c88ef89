package sessionctx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digisolai/digisol.ai-sub000/accounts"
	"github.com/digisolai/digisol.ai-sub000/httpclient"
	"github.com/digisolai/digisol.ai-sub000/session"
	"github.com/digisolai/digisol.ai-sub000/sessionctx"
	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	hc, err := httpclient.New("http://localhost", tokenstore.NewInMemoryStore())
	require.NoError(t, err)
	api, err := accounts.NewClient(hc)
	require.NoError(t, err)
	manager, err := session.NewManager(tokenstore.NewInMemoryStore(), api)
	require.NoError(t, err)
	return manager
}

func TestFromContext(t *testing.T) {
	manager := newManager(t)
	ctx := sessionctx.NewContext(context.Background(), manager)

	got, ok := sessionctx.FromContext(ctx)
	require.True(t, ok)
	require.Same(t, manager, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := sessionctx.FromContext(context.Background())
	require.False(t, ok)
}

func TestMustFromContext(t *testing.T) {
	manager := newManager(t)
	ctx := sessionctx.NewContext(context.Background(), manager)
	require.Same(t, manager, sessionctx.MustFromContext(ctx))

	require.Panics(t, func() {
		sessionctx.MustFromContext(context.Background())
	})
}
