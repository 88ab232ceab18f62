package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/gamestore/internal/fakeserver"
	"github.com/me/gamestore/internal/logging"
	"github.com/me/gamestore/internal/store"
	"github.com/me/gamestore/pkg/model"
	"github.com/me/gamestore/pkg/storefront"
)

type env struct {
	backend *fakeserver.Server
	store   store.Store
	mgr     *Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := logging.Discard()

	backend := fakeserver.New()
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	st, err := store.NewSQLiteStore(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	client := storefront.NewClient(storefront.DefaultConfig().WithBaseURL(ts.URL), logger)
	return &env{
		backend: backend,
		store:   st,
		mgr:     NewManager(client, st, logger),
	}
}

func TestLoginPersistsSession(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("alice", "alice@example.com", "pw")
	ctx := context.Background()

	user, err := e.mgr.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, []string{model.RoleUser}, user.Roles)

	_, ok, err := e.store.Get(ctx, store.KeyAuthToken)
	require.NoError(t, err)
	assert.True(t, ok, "token not persisted")
	_, ok, err = e.store.Get(ctx, store.KeyAuthUser)
	require.NoError(t, err)
	assert.True(t, ok, "profile not persisted")

	assert.True(t, e.mgr.IsAuthenticated(ctx))
	current := e.mgr.CurrentUser(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "alice@example.com", current.Email)
}

func TestLoginThenLogout(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("alice", "alice@example.com", "pw")
	ctx := context.Background()

	_, err := e.mgr.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.True(t, e.mgr.IsAuthenticated(ctx))

	require.NoError(t, e.mgr.Logout(ctx))
	assert.False(t, e.mgr.IsAuthenticated(ctx))

	_, ok, _ := e.store.Get(ctx, store.KeyAuthToken)
	assert.False(t, ok, "token still in storage after logout")
	_, ok, _ = e.store.Get(ctx, store.KeyAuthUser)
	assert.False(t, ok, "profile still in storage after logout")
}

func TestLoginBadCredentials(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("alice", "alice@example.com", "pw")

	_, err := e.mgr.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, storefront.IsUnauthorized(err))
}

func TestLogoutIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.mgr.Logout(ctx))
	require.NoError(t, e.mgr.Logout(ctx))
}

func TestOnLogoutListener(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("alice", "alice@example.com", "pw")
	ctx := context.Background()

	fired := 0
	e.mgr.OnLogout(func() { fired++ })

	_, err := e.mgr.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, e.mgr.Logout(ctx))
	assert.Equal(t, 1, fired)
}

func TestIsAuthenticated_MalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"one segment", "justonechunk"},
		{"two segments", "two.chunks"},
		{"four segments", "a.b.c.d"},
		{"garbage payload", "head.???.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()
			require.NoError(t, e.store.Put(ctx, store.KeyAuthToken, tt.token))
			require.NoError(t, e.store.Put(ctx, store.KeyAuthUser, `{"id":1,"username":"x"}`))

			assert.False(t, e.mgr.IsAuthenticated(ctx))

			_, ok, _ := e.store.Get(ctx, store.KeyAuthToken)
			assert.False(t, ok, "malformed token must be cleared")
			_, ok, _ = e.store.Get(ctx, store.KeyAuthUser)
			assert.False(t, ok, "profile must be cleared with the token")
		})
	}
}

func TestIsAuthenticated_ExpiredToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	expired := fakeserver.IssueToken("alice", time.Now().Add(-time.Hour))
	require.NoError(t, e.store.Put(ctx, store.KeyAuthToken, expired))
	require.NoError(t, e.store.Put(ctx, store.KeyAuthUser, `{"id":1,"username":"alice"}`))

	assert.False(t, e.mgr.IsAuthenticated(ctx))
	_, ok, _ := e.store.Get(ctx, store.KeyAuthToken)
	assert.False(t, ok, "expired token must be cleared")
}

func TestIsAuthenticated_NoToken(t *testing.T) {
	e := newEnv(t)
	assert.False(t, e.mgr.IsAuthenticated(context.Background()))
}

func TestCurrentUser_GarbageBlob(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.Put(ctx, store.KeyAuthToken, fakeserver.IssueToken("alice", time.Now().Add(time.Hour))))
	require.NoError(t, e.store.Put(ctx, store.KeyAuthUser, "{{{not json"))

	assert.Nil(t, e.mgr.CurrentUser(ctx))
	_, ok, _ := e.store.Get(ctx, store.KeyAuthToken)
	assert.False(t, ok, "session must be cleared after unparseable profile")
}

func TestCurrentUser_ProfileWithoutToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.Put(ctx, store.KeyAuthUser, `{"id":1,"username":"ghost"}`))

	assert.Nil(t, e.mgr.CurrentUser(ctx))
	_, ok, _ := e.store.Get(ctx, store.KeyAuthUser)
	assert.False(t, ok, "orphan profile must be cleared")
}

func TestIsAdmin(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("root", "root@example.com", "pw", model.RoleUser, model.RoleAdmin)
	e.backend.SeedUser("alice", "alice@example.com", "pw")
	ctx := context.Background()

	assert.False(t, e.mgr.IsAdmin(ctx), "unauthenticated must not be admin")

	_, err := e.mgr.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.False(t, e.mgr.IsAdmin(ctx))

	_, err = e.mgr.Login(ctx, "root", "pw")
	require.NoError(t, err)
	assert.True(t, e.mgr.IsAdmin(ctx))
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.mgr.Register(ctx, &model.RegisterRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", user.Username)
	assert.True(t, e.mgr.IsAuthenticated(ctx))
}

func TestRegister_UsernameTaken(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("taken", "taken@example.com", "pw")

	_, err := e.mgr.Register(context.Background(), &model.RegisterRequest{
		Username: "taken",
		Email:    "fresh@example.com",
		Password: "pw",
	})
	assert.ErrorIs(t, err, storefront.ErrUsernameTaken)
}

func TestRegister_EmailTaken(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("somebody", "taken@example.com", "pw")

	_, err := e.mgr.Register(context.Background(), &model.RegisterRequest{
		Username: "fresh",
		Email:    "taken@example.com",
		Password: "pw",
	})
	assert.ErrorIs(t, err, storefront.ErrEmailTaken)
}

// A pre-flight availability check failing for any reason other than a
// conflict must not block registration; the register call decides.
func TestRegister_PreflightFailuresSwallowed(t *testing.T) {
	logger := logging.Discard()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/check-username/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "probe broken", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/auth/check-email/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "probe broken", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"` + fakeserver.IssueToken("newbie", time.Now().Add(time.Hour)) + `","id":1,"username":"newbie","email":"n@example.com"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	st, err := store.NewSQLiteStore(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	client := storefront.NewClient(storefront.DefaultConfig().WithBaseURL(ts.URL), logger)
	mgr := NewManager(client, st, logger)

	user, err := mgr.Register(context.Background(), &model.RegisterRequest{
		Username: "newbie",
		Email:    "n@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", user.Username)
}

func TestServer401ClearsSession(t *testing.T) {
	e := newEnv(t)
	e.backend.SeedUser("alice", "alice@example.com", "pw")
	ctx := context.Background()

	_, err := e.mgr.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	// Replace the token with one the backend rejects but that still
	// parses locally: valid shape, unknown subject.
	stranger := fakeserver.IssueToken("stranger", time.Now().Add(time.Hour))
	require.NoError(t, e.store.Put(ctx, store.KeyAuthToken, stranger))

	err = e.mgr.client.Get(ctx, "/api/cart", nil)
	assert.True(t, storefront.IsUnauthorized(err))

	_, ok, _ := e.store.Get(ctx, store.KeyAuthToken)
	assert.False(t, ok, "session must be cleared after a 401")
}
