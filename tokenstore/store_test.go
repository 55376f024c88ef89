package tokenstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

func TestInMemoryStore(t *testing.T) {
	t.Run("absent tokens report ErrNotFound", func(t *testing.T) {
		store := tokenstore.NewInMemoryStore()
		_, err := store.AccessToken()
		require.ErrorIs(t, err, tokenstore.ErrNotFound)
		_, err = store.RefreshToken()
		require.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("set and get round trip", func(t *testing.T) {
		store := tokenstore.NewInMemoryStore()
		require.NoError(t, store.SetAccessToken("access"))
		require.NoError(t, store.SetRefreshToken("refresh"))

		access, err := store.AccessToken()
		require.NoError(t, err)
		require.Equal(t, "access", access)
		refresh, err := store.RefreshToken()
		require.NoError(t, err)
		require.Equal(t, "refresh", refresh)
	})

	t.Run("empty string counts as absent", func(t *testing.T) {
		store := tokenstore.NewInMemoryStore()
		require.NoError(t, store.SetAccessToken(""))
		_, err := store.AccessToken()
		require.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("clearing an empty store is not an error", func(t *testing.T) {
		store := tokenstore.NewInMemoryStore()
		require.NoError(t, store.ClearAccessToken())
		require.NoError(t, store.ClearRefreshToken())
	})
}

func TestClear(t *testing.T) {
	store := tokenstore.NewInMemoryStore()
	require.NoError(t, store.SetAccessToken("access"))
	require.NoError(t, store.SetRefreshToken("refresh"))

	require.NoError(t, tokenstore.Clear(store))

	_, err := store.AccessToken()
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
	_, err = store.RefreshToken()
	require.ErrorIs(t, err, tokenstore.ErrNotFound)

	// Clearing twice stays clean.
	require.NoError(t, tokenstore.Clear(store))
}
