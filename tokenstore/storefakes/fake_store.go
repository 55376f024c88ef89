package storefakes

import (
	"sync"

	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

var _ tokenstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory token store with injectable failures for
// exercising error paths. The zero error fields make it behave like a
// plain working store.
type FakeStore struct {
	GetErr   error // returned from AccessToken/RefreshToken
	SetErr   error // returned from SetAccessToken/SetRefreshToken
	ClearErr error // returned from ClearAccessToken/ClearRefreshToken

	tokens map[string]string
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{tokens: make(map[string]string)}
}

// Seed stores both tokens without going through the Set error injection.
func (f *FakeStore) Seed(access, refresh string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.tokens[tokenstore.AccessTokenKey] = access
	f.tokens[tokenstore.RefreshTokenKey] = refresh
}

func (f *FakeStore) AccessToken() (string, error) {
	return f.get(tokenstore.AccessTokenKey)
}

func (f *FakeStore) RefreshToken() (string, error) {
	return f.get(tokenstore.RefreshTokenKey)
}

func (f *FakeStore) SetAccessToken(token string) error {
	return f.set(tokenstore.AccessTokenKey, token)
}

func (f *FakeStore) SetRefreshToken(token string) error {
	return f.set(tokenstore.RefreshTokenKey, token)
}

func (f *FakeStore) ClearAccessToken() error {
	return f.clear(tokenstore.AccessTokenKey)
}

func (f *FakeStore) ClearRefreshToken() error {
	return f.clear(tokenstore.RefreshTokenKey)
}

func (f *FakeStore) get(key string) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	f.lock.RLock()
	defer f.lock.RUnlock()
	token, ok := f.tokens[key]
	if !ok || token == "" {
		return "", tokenstore.ErrNotFound
	}
	return token, nil
}

func (f *FakeStore) set(key, token string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.tokens[key] = token
	return nil
}

func (f *FakeStore) clear(key string) error {
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.tokens, key)
	return nil
}
