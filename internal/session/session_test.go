package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hirechat/internal/api"
	"github.com/jonathan/hirechat/internal/types"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewStore(path)

	user := &types.User{ID: 1, Email: "ada@example.com", FullName: "Ada", Role: types.RoleApplicant, IsActive: true}
	require.NoError(t, store.Save(&Session{Token: "tok", User: user}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"access_token": "tok"`)
	assert.Contains(t, string(data), `"auth_user"`)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, types.RoleApplicant, sess.Role())

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse session file")
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, TokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, TokenExpired(signedToken(t, now.Add(-time.Minute)), now))
	assert.False(t, TokenExpired("opaque-token", now))
	assert.False(t, TokenExpired("", now))
}

func TestParseClaims(t *testing.T) {
	claims, err := ParseClaims(signedToken(t, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)

	_, err = ParseClaims("a.b")
	assert.Error(t, err)
}

func TestSession_NilSafe(t *testing.T) {
	var sess *Session
	assert.False(t, sess.Authenticated())
	assert.False(t, sess.Expired(time.Now()))
	assert.Equal(t, types.Role(""), sess.Role())
}

type fakeAuthAPI struct {
	token      string
	user       *types.User
	loginErr   error
	currentErr error
	registered []types.RegisterRequest
}

func (f *fakeAuthAPI) Login(_ context.Context, _, _ string) (*types.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &types.TokenResponse{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeAuthAPI) Register(_ context.Context, req types.RegisterRequest) (*types.User, error) {
	f.registered = append(f.registered, req)
	return &types.User{ID: 2, Email: req.Email, FullName: req.FullName, Role: req.Role}, nil
}

func (f *fakeAuthAPI) CurrentUser(_ context.Context, token string) (*types.User, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	if token != f.token {
		return nil, &api.Error{StatusCode: 401, Detail: "Not authenticated"}
	}
	return f.user, nil
}

func TestManager_LoginRestoreLogout(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	authAPI := &fakeAuthAPI{token: token, user: &types.User{ID: 1, Email: "ada@example.com", Role: types.RoleHiringManager}}
	manager := NewManager(NewStore(filepath.Join(t.TempDir(), "session.json")), authAPI)
	ctx := context.Background()

	_, err := manager.Restore(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	sess, err := manager.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, types.RoleHiringManager, sess.Role())

	restored, err := manager.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, restored.Token)
	assert.Equal(t, int64(1), restored.User.ID)

	require.NoError(t, manager.Logout())
	_, err = manager.Restore(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestManager_LoginFailureSavesNothing(t *testing.T) {
	authAPI := &fakeAuthAPI{loginErr: &api.Error{StatusCode: 401, Detail: "Incorrect email or password"}}
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	manager := NewManager(store, authAPI)

	_, err := manager.Login(context.Background(), "ada@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestManager_RestoreExpiredClears(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&Session{Token: signedToken(t, time.Now().Add(-time.Hour))}))
	manager := NewManager(store, &fakeAuthAPI{})

	_, err := manager.Restore(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestManager_RestoreRejectedTokenClears(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&Session{Token: "revoked"}))
	manager := NewManager(store, &fakeAuthAPI{token: "other"})

	_, err := manager.Restore(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestManager_RestoreNetworkErrorKeepsSession(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&Session{Token: "tok"}))
	manager := NewManager(store, &fakeAuthAPI{token: "tok", currentErr: errors.New("connection refused")})

	_, err := manager.Restore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	sess, err := store.Load()
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
}

func TestManager_Register(t *testing.T) {
	authAPI := &fakeAuthAPI{}
	manager := NewManager(NewStore(filepath.Join(t.TempDir(), "session.json")), authAPI)

	user, err := manager.Register(context.Background(), types.RegisterRequest{
		FullName: "Grace", Email: "grace@example.com", Password: "pw", Role: types.RoleApplicant,
	})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Len(t, authAPI.registered, 1)
}
