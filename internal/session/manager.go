// Package session owns the client's authentication state: the bearer
// token and the cached user profile, persisted together in the local
// store. Token validity is checked locally from the token's embedded
// expiry; no network call is ever made for a session predicate.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/gamestore/internal/store"
	"github.com/me/gamestore/pkg/model"
	"github.com/me/gamestore/pkg/storefront"
)

// Manager is the single owner of persisted auth state. It implements
// storefront.TokenSource and registers itself as the client's 401
// handler, so a rejected token clears the session immediately.
type Manager struct {
	client *storefront.Client
	store  store.Store
	logger *slog.Logger

	mu       sync.Mutex
	onLogout []func()
}

// NewManager creates a session manager bound to the given client and
// store, and wires the client's token source and 401 handling to it.
func NewManager(client *storefront.Client, st store.Store, logger *slog.Logger) *Manager {
	m := &Manager{
		client: client,
		store:  st,
		logger: logger.With("component", "session"),
	}
	client.SetTokenSource(storefront.TokenSourceFunc(m.token))
	client.SetUnauthorizedHandler(func() {
		if err := m.Logout(context.Background()); err != nil {
			m.logger.Warn("clearing session after 401 failed", "error", err)
		}
	})
	return m
}

// OnLogout registers a callback invoked whenever the session is cleared,
// whether by an explicit Logout, a 401, token expiry or a malformed
// persisted blob. Callbacks run after the state is gone.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// token returns the persisted bearer token, or empty string.
func (m *Manager) token() string {
	raw, ok, err := m.store.Get(context.Background(), store.KeyAuthToken)
	if err != nil {
		m.logger.Warn("reading token failed", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return raw
}

// Login authenticates with the backend and persists the session.
func (m *Manager) Login(ctx context.Context, username, password string) (*model.User, error) {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	user := resp.Profile()
	if err := m.persist(ctx, resp.Token, user); err != nil {
		return nil, err
	}

	m.logger.Info("logged in", "username", user.Username)
	return user, nil
}

// Register creates an account after probing username and email
// availability. A 409 from either probe fails fast with ErrUsernameTaken
// or ErrEmailTaken; probe failures for any other reason are swallowed and
// the authoritative register call decides.
func (m *Manager) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := m.client.CheckUsername(ctx, req.Username); err != nil {
		if storefront.IsConflict(err) {
			return nil, storefront.ErrUsernameTaken
		}
		m.logger.Debug("username pre-flight check failed, proceeding", "error", err)
	}
	if err := m.client.CheckEmail(ctx, req.Email); err != nil {
		if storefront.IsConflict(err) {
			return nil, storefront.ErrEmailTaken
		}
		m.logger.Debug("email pre-flight check failed, proceeding", "error", err)
	}

	resp, err := m.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	user := resp.Profile()
	if err := m.persist(ctx, resp.Token, user); err != nil {
		return nil, err
	}

	m.logger.Info("registered", "username", user.Username)
	return user, nil
}

// Logout clears the persisted token and profile and notifies listeners.
// Safe to call when already unauthenticated.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, store.KeyAuthToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := m.store.Delete(ctx, store.KeyAuthUser); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}

	m.mu.Lock()
	listeners := append([]func(){}, m.onLogout...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
	return nil
}

// IsAuthenticated reports whether a locally valid session exists. A
// missing token, a token without three dot-separated segments or a token
// whose embedded expiry has passed all count as unauthenticated, and the
// latter two clear the persisted session as a side effect.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	raw := m.token()
	if raw == "" {
		return false
	}

	claims, err := storefront.ParseToken(raw)
	if err != nil {
		m.logger.Debug("malformed token, clearing session", "error", err)
		m.forceLogout(ctx)
		return false
	}
	if claims.IsExpired() {
		m.logger.Debug("token expired, clearing session", "expired_at", claims.ExpiresAt())
		m.forceLogout(ctx)
		return false
	}
	return true
}

// IsAdmin reports whether the current profile carries the admin role.
// False, not an error, when unauthenticated.
func (m *Manager) IsAdmin(ctx context.Context) bool {
	user := m.CurrentUser(ctx)
	return user != nil && user.IsAdmin()
}

// CurrentUser returns the persisted profile, or nil. A profile blob that
// fails to parse, or one present without a token, clears the session.
func (m *Manager) CurrentUser(ctx context.Context) *model.User {
	raw, ok, err := m.store.Get(ctx, store.KeyAuthUser)
	if err != nil {
		m.logger.Warn("reading profile failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	// A profile without a token is not a valid authenticated state.
	if m.token() == "" {
		m.logger.Debug("profile present without token, clearing session")
		m.forceLogout(ctx)
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Debug("unparseable profile blob, clearing session", "error", err)
		m.forceLogout(ctx)
		return nil
	}
	return &user
}

// persist writes token and profile together. If the profile write fails
// the token is removed again so the two keys never diverge.
func (m *Manager) persist(ctx context.Context, token string, user *model.User) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := m.store.Put(ctx, store.KeyAuthToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := m.store.Put(ctx, store.KeyAuthUser, string(blob)); err != nil {
		_ = m.store.Delete(ctx, store.KeyAuthToken)
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

func (m *Manager) forceLogout(ctx context.Context) {
	if err := m.Logout(ctx); err != nil {
		m.logger.Warn("implicit logout failed", "error", err)
	}
}
