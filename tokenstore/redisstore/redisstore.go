// Package redisstore provides a redis-backed token store for server-side
// embedders of the SDK, e.g. a backend-for-frontend holding a session per
// end user.
package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

const defaultOpTimeout = 3 * time.Second

var _ tokenstore.Store = (*Store)(nil)

// Store persists the token pair in redis under a caller-supplied key prefix,
// so multiple principals can share one redis database. A zero TTL keeps
// tokens until explicitly cleared.
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	opTimeout time.Duration
}

type Option func(*Store)

// WithTTL expires stored tokens after d. Useful when the embedder cannot
// guarantee an explicit logout.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

// WithOpTimeout bounds each redis round trip.
func WithOpTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.opTimeout = d
	}
}

func New(client *redis.Client, keyPrefix string, options ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.New("[redisstore.New] client is required")
	}
	if keyPrefix == "" {
		return nil, errors.New("[redisstore.New] keyPrefix is required")
	}
	s := &Store{
		client:    client,
		keyPrefix: keyPrefix,
		opTimeout: defaultOpTimeout,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Store) AccessToken() (string, error) {
	return s.get(tokenstore.AccessTokenKey)
}

func (s *Store) RefreshToken() (string, error) {
	return s.get(tokenstore.RefreshTokenKey)
}

func (s *Store) SetAccessToken(token string) error {
	return s.set(tokenstore.AccessTokenKey, token)
}

func (s *Store) SetRefreshToken(token string) error {
	return s.set(tokenstore.RefreshTokenKey, token)
}

func (s *Store) ClearAccessToken() error {
	return s.clear(tokenstore.AccessTokenKey)
}

func (s *Store) ClearRefreshToken() error {
	return s.clear(tokenstore.RefreshTokenKey)
}

func (s *Store) get(key string) (string, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	token, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", tokenstore.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "[redisstore.get] redis GET")
	}
	if token == "" {
		return "", tokenstore.ErrNotFound
	}
	return token, nil
}

func (s *Store) set(key, token string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.client.Set(ctx, s.key(key), token, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "[redisstore.set] redis SET")
	}
	return nil
}

func (s *Store) clear(key string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrap(err, "[redisstore.clear] redis DEL")
	}
	return nil
}

func (s *Store) key(key string) string {
	return s.keyPrefix + ":" + key
}

func (s *Store) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}
