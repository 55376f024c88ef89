// Package session coordinates the client-side authentication lifecycle:
// login, registration, logout, silent token refresh, and session restoration
// on startup. The Manager is the sole authority for what "authenticated"
// means: a session is authenticated if and only if the most recent profile
// fetch succeeded with valid tokens present.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/digisolai/digisol.ai-sub000/accounts"
	"github.com/digisolai/digisol.ai-sub000/token"
	"github.com/digisolai/digisol.ai-sub000/tokenstore"
)

// Status is the session's lifecycle state. Unknown and Restoring occur only
// before the initial restore completes; afterwards the session moves between
// the two terminal states via explicit Login/Logout/Register calls.
type Status string

const (
	StatusUnknown         Status = "unknown"
	StatusRestoring       Status = "restoring"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Snapshot is the session state exposed to consumers.
type Snapshot struct {
	User            *accounts.User
	Status          Status
	IsAuthenticated bool
	Loading         bool // true only until the initial restore completes
}

// Manager orchestrates the session lifecycle over the token store and the
// account endpoints. Safe for concurrent use.
type Manager struct {
	store            tokenstore.Store
	api              *accounts.Client
	logger           zerolog.Logger
	nowTime          func() time.Time
	onSessionExpired func()

	lock   sync.RWMutex
	user   *accounts.User
	status Status

	restoreOnce sync.Once
	ready       chan struct{}

	subsLock  sync.Mutex
	subs      map[int]chan Snapshot
	nextSubID int
}

type ManagerOption func(*Manager)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithOnSessionExpired registers a hook invoked whenever the session ends
// outside an explicit user action: logout and irrecoverable authentication
// failure. The web client navigates to the login view here.
func WithOnSessionExpired(hook func()) ManagerOption {
	return func(m *Manager) {
		m.onSessionExpired = hook
	}
}

func NewManager(store tokenstore.Store, api *accounts.Client, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] token store is required")
	}
	if api == nil {
		return nil, errors.New("[NewManager] accounts client is required")
	}

	m := &Manager{
		store:   store,
		api:     api,
		logger:  zerolog.Nop(),
		nowTime: time.Now,
		status:  StatusUnknown,
		ready:   make(chan struct{}),
		subs:    make(map[int]chan Snapshot),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Restore determines the authentication state from the persisted tokens.
// Call it once, at startup. Authentication failures are downgraded to an
// unauthenticated session and not returned, since an unauthenticated state
// on load is an expected outcome, not an error. Subsequent calls are no-ops.
//
// The chain is a single attempt-and-fallback, not a retry loop: fetch the
// profile; on failure refresh the access token exactly once and retry the
// fetch exactly once; on any further failure clear both tokens.
func (m *Manager) Restore(ctx context.Context) error {
	m.restoreOnce.Do(func() {
		defer close(m.ready)
		m.setStatus(StatusRestoring, nil)
		m.restore(ctx)
	})
	return ctx.Err()
}

func (m *Manager) restore(ctx context.Context) {
	_, accessErr := m.store.AccessToken()
	refreshToken, refreshErr := m.store.RefreshToken()
	if accessErr != nil || refreshErr != nil {
		m.logger.Debug().Msg("no stored session to restore")
		m.setStatus(StatusUnauthenticated, nil)
		return
	}

	user, err := m.api.CurrentUser(ctx)
	if err == nil {
		m.setStatus(StatusAuthenticated, user)
		return
	}
	m.logger.Debug().Err(err).Msg("stored access token rejected, attempting refresh")

	newAccessToken, err := m.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		m.logger.Debug().Err(err).Msg("token refresh failed, ending session")
		m.clearSession()
		return
	}
	if err := m.store.SetAccessToken(newAccessToken); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist refreshed access token")
		m.clearSession()
		return
	}

	user, err = m.api.CurrentUser(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("profile fetch failed after refresh, ending session")
		m.clearSession()
		return
	}
	m.setStatus(StatusAuthenticated, user)
}

// Login exchanges credentials for a token pair, persists it, and fetches the
// profile. Unlike Restore there is no refresh fallback: a fresh login is
// expected to yield a working token immediately. The raw token payload is
// returned so the caller can decide navigation; credential errors propagate
// unchanged with the backend payload intact.
func (m *Manager) Login(ctx context.Context, email, password string) (*accounts.TokenPair, error) {
	pair, err := m.api.ObtainToken(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.SetAccessToken(pair.Access); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] persist access token")
	}
	if err := m.store.SetRefreshToken(pair.Refresh); err != nil {
		return nil, errors.Wrap(err, "[Manager.Login] persist refresh token")
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		// Tokens stayed valid long enough to persist but the profile fetch
		// failed; the session stays unauthenticated until a later restore.
		m.setStatus(StatusUnauthenticated, nil)
		return nil, errors.Wrap(err, "[Manager.Login] profile fetch")
	}

	m.setStatus(StatusAuthenticated, user)
	m.logger.Info().Str("user", user.Email).Msg("login succeeded")
	return pair, nil
}

// Register creates the account and, on success, immediately logs in with the
// same credentials, returning the login's token payload. Failures, including
// per-field validation errors from the backend, propagate unchanged.
func (m *Manager) Register(ctx context.Context, req accounts.RegisterRequest) (*accounts.TokenPair, error) {
	if err := m.api.Register(ctx, req); err != nil {
		return nil, err
	}
	return m.Login(ctx, req.Email, req.Password)
}

// Logout clears both tokens and the user, and invokes the session-expired
// hook. Idempotent, safe to call when already logged out.
func (m *Manager) Logout(ctx context.Context) error {
	if err := tokenstore.Clear(m.store); err != nil {
		return errors.Wrap(err, "[Manager.Logout] clear token store")
	}
	m.setStatus(StatusUnauthenticated, nil)
	m.logger.Info().Msg("logged out")
	if m.onSessionExpired != nil {
		m.onSessionExpired()
	}
	return nil
}

// HandleSessionExpired is the hook to hand to the HTTP client's
// WithOnSessionExpired option: when the pipeline evicts the session after a
// session-affecting 401, the manager's state follows.
func (m *Manager) HandleSessionExpired() {
	m.setStatus(StatusUnauthenticated, nil)
	if m.onSessionExpired != nil {
		m.onSessionExpired()
	}
}

// WaitReady blocks until the initial Restore has completed, so no caller
// ever observes an indeterminate session state.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.snapshotLocked()
}

// User returns the current user, or nil when unauthenticated.
func (m *Manager) User() *accounts.User {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.user
}

func (m *Manager) IsAuthenticated() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.status == StatusAuthenticated
}

// Loading reports whether the initial restore is still in flight.
func (m *Manager) Loading() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.status == StatusUnknown || m.status == StatusRestoring
}

// TokenClaims inspects the stored access token's claims without verifying
// its signature. Informational only; validity is decided by the server.
func (m *Manager) TokenClaims() (*token.Claims, error) {
	accessToken, err := m.store.AccessToken()
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, "[Manager.TokenClaims] read access token")
	}
	return token.Inspect(accessToken)
}

// TokenExpired reports whether the stored access token's exp claim has
// passed. This is a display hint only; expiry is authoritative only via a
// rejected request, never decided locally.
func (m *Manager) TokenExpired() (bool, error) {
	claims, err := m.TokenClaims()
	if err != nil {
		return false, err
	}
	return claims.Expired(m.nowTime()), nil
}

func (m *Manager) clearSession() {
	if err := tokenstore.Clear(m.store); err != nil {
		m.logger.Error().Err(err).Msg("failed to clear token store")
	}
	m.setStatus(StatusUnauthenticated, nil)
}

func (m *Manager) setStatus(status Status, user *accounts.User) {
	m.lock.Lock()
	m.status = status
	m.user = user
	snapshot := m.snapshotLocked()
	m.lock.Unlock()

	m.publish(snapshot)
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:            m.user,
		Status:          m.status,
		IsAuthenticated: m.status == StatusAuthenticated,
		Loading:         m.status == StatusUnknown || m.status == StatusRestoring,
	}
}
