package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/keystore"
	"github.com/five82/pocketspice/internal/spice"
)

// Snapshot is a point-in-time copy of the auth state.
type Snapshot struct {
	User          *spice.User
	Authenticated bool
	Loading       bool
	Err           string
}

// AuthError carries the message shown to the user alongside the underlying
// error, which stays available through errors.As and httpclient.StatusOf.
type AuthError struct {
	Op      Op
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Manager tracks the signed-in user on top of an API whose token it drives.
type Manager struct {
	api    spice.API
	store  keystore.Store
	logger zerolog.Logger

	mu      sync.RWMutex
	user    *spice.User
	loading bool
	lastErr string
}

// New returns a Manager. store holds the refresh token; the access token is
// owned by api.
func New(api spice.API, store keystore.Store, logger zerolog.Logger) *Manager {
	if store == nil {
		store = keystore.NewMemory(nil)
	}
	return &Manager{
		api:    api,
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Initialize loads the user behind a persisted token. A token the backend
// rejects is cleared; that is not an error for the caller.
func (m *Manager) Initialize(ctx context.Context) {
	if m.api.Token() == "" {
		return
	}
	m.fetchUser(ctx)
}

// CheckAuth fetches the user when a token is held but no user is loaded. A
// user whose token has been cleared (after a 401, say) is dropped.
func (m *Manager) CheckAuth(ctx context.Context) {
	if m.api.Token() == "" {
		m.setUser(nil)
		return
	}
	m.mu.RLock()
	loaded := m.user != nil
	m.mu.RUnlock()
	if loaded {
		return
	}
	m.fetchUser(ctx)
}

func (m *Manager) fetchUser(ctx context.Context) {
	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to load user from token")
		m.api.SetToken("")
		m.setUser(nil)
		return
	}
	m.setUser(&user)
}

// Login exchanges credentials for tokens and records the user. Failures are
// returned as *AuthError with a user-facing message.
func (m *Manager) Login(ctx context.Context, req spice.LoginRequest) error {
	m.begin()
	resp, err := m.api.Login(ctx, req)
	if err != nil {
		return m.fail(OpLogin, err)
	}
	m.accept(resp)
	m.logger.Info().Str("username", resp.User.Username).Msg("logged in")
	return nil
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, req spice.RegisterRequest) error {
	m.begin()
	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return m.fail(OpRegister, err)
	}
	m.accept(resp)
	m.logger.Info().Str("username", resp.User.Username).Msg("registered")
	return nil
}

// Logout tells the backend to drop the refresh token when one is held. The
// local session is always cleared, even when that call fails.
func (m *Manager) Logout(ctx context.Context) {
	m.begin()
	defer m.finish("")

	refresh, ok, err := m.store.Get(keystore.RefreshTokenKey)
	if err != nil {
		m.logger.Warn().Err(err).Msg("read refresh token")
	}
	if ok && refresh != "" {
		if _, err := m.api.Logout(ctx, spice.LogoutRequest{Refresh: refresh}); err != nil {
			m.logger.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
		}
	}

	m.api.SetToken("")
	if err := m.store.Remove(keystore.RefreshTokenKey); err != nil {
		m.logger.Error().Err(err).Msg("remove refresh token")
	}
	m.setUser(nil)
	m.logger.Info().Msg("logged out")
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Authenticated: m.user != nil,
		Loading:       m.loading,
		Err:           m.lastErr,
	}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// AccessExpiry returns the exp claim of the access token. The token is not
// verified; opaque tokens such as the mock ones report ok=false.
func (m *Manager) AccessExpiry() (time.Time, bool) {
	return TokenExpiry(m.api.Token())
}

// TokenExpiry decodes the exp claim of a JWT without verifying it.
func TokenExpiry(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (m *Manager) accept(resp spice.AuthResponse) {
	m.api.SetToken(resp.Access)
	var err error
	if resp.Refresh != "" {
		err = m.store.Set(keystore.RefreshTokenKey, resp.Refresh)
	} else {
		err = m.store.Remove(keystore.RefreshTokenKey)
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("persist refresh token")
	}
	user := resp.User
	m.mu.Lock()
	m.user = &user
	m.loading = false
	m.lastErr = ""
	m.mu.Unlock()
}

func (m *Manager) fail(op Op, err error) error {
	msg := UserMessage(op, err)
	m.logger.Warn().Err(err).Str("op", string(op)).Msg("auth request failed")
	m.finish(msg)
	return &AuthError{Op: op, Message: msg, Err: fmt.Errorf("%s: %w", op, err)}
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()
}

func (m *Manager) finish(errMsg string) {
	m.mu.Lock()
	m.loading = false
	m.lastErr = errMsg
	m.mu.Unlock()
}

func (m *Manager) setUser(u *spice.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

// IsAuthError reports whether err came from a failed login or registration.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
