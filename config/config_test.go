package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/digisolai/digisol.ai-sub000/config"
	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

// chdir is equivalent to t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "https://api.digisol.ai", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, config.BackendMemory, cfg.TokenStore.Backend)
	require.Equal(t, "digisol:session", cfg.Redis.KeyPrefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DIGISOL_API_BASEURL", "https://staging.digisol.ai")
	t.Setenv("DIGISOL_API_TIMEOUT", "5s")
	t.Setenv("DIGISOL_TOKENSTORE_BACKEND", "file")
	t.Setenv("DIGISOL_TOKENSTORE_PATH", "/tmp/tokens.json")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "https://staging.digisol.ai", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, config.BackendFile, cfg.TokenStore.Backend)
	require.Equal(t, "/tmp/tokens.json", cfg.TokenStore.Path)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte("environment: production\napi:\n  baseurl: https://api.example.com\n  timeout: 10s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "digisol.yaml"), yaml, 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
}

func TestBuildStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{TokenStore: config.TokenStoreConfig{Backend: config.BackendMemory}}
		store, err := cfg.BuildStore()
		require.NoError(t, err)
		require.IsType(t, &tokenstore.InMemoryStore{}, store)
	})

	t.Run("empty backend defaults to memory", func(t *testing.T) {
		cfg := &config.Config{}
		store, err := cfg.BuildStore()
		require.NoError(t, err)
		require.IsType(t, &tokenstore.InMemoryStore{}, store)
	})

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{TokenStore: config.TokenStoreConfig{
			Backend: config.BackendFile,
			Path:    filepath.Join(t.TempDir(), "tokens.json"),
		}}
		store, err := cfg.BuildStore()
		require.NoError(t, err)
		require.NoError(t, store.SetAccessToken("access"))
		access, err := store.AccessToken()
		require.NoError(t, err)
		require.Equal(t, "access", access)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config.Config{TokenStore: config.TokenStoreConfig{Backend: "s3"}}
		_, err := cfg.BuildStore()
		require.Error(t, err)
	})
}
