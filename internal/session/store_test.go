package session_test

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/api/apitest"
	"english_admin/internal/session"
	"english_admin/internal/util"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, kv session.KV) (*session.Store, *api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.APIConfig())
	require.NoError(t, err)
	store := session.NewStore(kv, client)
	client.Bind(store, store.Expire)
	return store, client, srv
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInitWithoutStoredStateIsUnauthenticated(t *testing.T) {
	store, _, _ := newStore(t, session.NewMemoryKV())
	require.NoError(t, store.Init(context.Background()))
	assert.False(t, store.Authenticated())
	assert.Nil(t, store.User())
	assert.Empty(t, store.Token())
}

func TestInitRequiresBothKeys(t *testing.T) {
	ctx := context.Background()
	kv := session.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, util.KeyAdminToken, "opaque"))

	store, _, _ := newStore(t, kv)
	require.NoError(t, store.Init(ctx))
	assert.False(t, store.Authenticated())

	_, ok, _ := kv.Get(ctx, util.KeyAdminToken)
	assert.False(t, ok, "half-written session should be cleared")
}

func TestInitRestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	kv := session.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, util.KeyAdminToken, signed(t, time.Now().Add(time.Hour))))
	require.NoError(t, kv.Set(ctx, util.KeyAdminUser, `{"userId":"u1","username":"admin","email":"admin@example.com"}`))

	store, _, _ := newStore(t, kv)
	require.NoError(t, store.Init(ctx))
	require.True(t, store.Authenticated())
	assert.Equal(t, "admin", store.User().Username)
}

func TestInitDiscardsExpiredToken(t *testing.T) {
	ctx := context.Background()
	kv := session.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, util.KeyAdminToken, signed(t, time.Now().Add(-time.Hour))))
	require.NoError(t, kv.Set(ctx, util.KeyAdminUser, `{"userId":"u1","username":"admin"}`))

	store, _, _ := newStore(t, kv)
	require.NoError(t, store.Init(ctx))
	assert.False(t, store.Authenticated())

	_, ok, _ := kv.Get(ctx, util.KeyAdminUser)
	assert.False(t, ok)
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	ctx := context.Background()
	kv, err := session.NewFileKV(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	store, _, srv := newStore(t, kv)
	require.NoError(t, store.Init(ctx))

	var seen []bool
	store.Subscribe(func(s session.State) { seen = append(seen, s.Authenticated()) })

	state, err := store.Login(ctx, srv.Email, srv.Password)
	require.NoError(t, err)
	assert.True(t, state.Authenticated())
	assert.Equal(t, srv.Token, store.Token())

	token, ok, err := kv.Get(ctx, util.KeyAdminToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, srv.Token, token)

	// 新实例从同一文件恢复
	restored, _, _ := newStore(t, kv)
	require.NoError(t, restored.Init(ctx))
	assert.True(t, restored.Authenticated())
	assert.Equal(t, srv.Email, restored.User().Email)

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.Authenticated())
	_, ok, err = kv.Get(ctx, util.KeyAdminUser)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []bool{true, false}, seen)
}

func TestFailedLoginKeepsState(t *testing.T) {
	ctx := context.Background()
	store, _, srv := newStore(t, session.NewMemoryKV())

	_, err := store.Login(ctx, srv.Email, "nope")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, store.Authenticated())
}

func TestUnauthorizedResponseExpiresSession(t *testing.T) {
	ctx := context.Background()
	store, client, srv := newStore(t, session.NewMemoryKV())
	_, err := store.Login(ctx, srv.Email, srv.Password)
	require.NoError(t, err)

	srv.SetToken("rotated")
	_, err = client.Exams().List(ctx, "")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, store.Authenticated())
}
