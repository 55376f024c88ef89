package tokenstore

import (
	"errors"
	"sync"
)

// Fixed storage keys, matching what the web client persists.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

var ErrNotFound = errors.New("token not found")

// Store persists the session's token pair. Implementations perform no
// validation of the token contents; an absent token is reported via
// ErrNotFound. If either token is absent the session is unauthenticated,
// regardless of any cached user data held elsewhere.
type Store interface {
	AccessToken() (string, error)
	RefreshToken() (string, error)
	SetAccessToken(token string) error
	SetRefreshToken(token string) error
	ClearAccessToken() error
	ClearRefreshToken() error
}

// Clear removes both tokens from the store. Clearing an already-empty store
// is not an error.
func Clear(s Store) error {
	if err := s.ClearAccessToken(); err != nil {
		return err
	}
	return s.ClearRefreshToken()
}

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore keeps the token pair in process memory. It is the default
// store for tests and short-lived processes.
type InMemoryStore struct {
	tokens map[string]string
	lock   sync.RWMutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tokens: make(map[string]string)}
}

func (s *InMemoryStore) AccessToken() (string, error) {
	return s.get(AccessTokenKey)
}

func (s *InMemoryStore) RefreshToken() (string, error) {
	return s.get(RefreshTokenKey)
}

func (s *InMemoryStore) SetAccessToken(token string) error {
	return s.set(AccessTokenKey, token)
}

func (s *InMemoryStore) SetRefreshToken(token string) error {
	return s.set(RefreshTokenKey, token)
}

func (s *InMemoryStore) ClearAccessToken() error {
	return s.clear(AccessTokenKey)
}

func (s *InMemoryStore) ClearRefreshToken() error {
	return s.clear(RefreshTokenKey)
}

func (s *InMemoryStore) get(key string) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	token, ok := s.tokens[key]
	if !ok || token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

func (s *InMemoryStore) set(key, token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tokens[key] = token
	return nil
}

func (s *InMemoryStore) clear(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.tokens, key)
	return nil
}
