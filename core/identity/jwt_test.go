package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediation-api/core/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	return f.revoked[token], f.err
}

func (f *fakeBlacklist) AddToTokenBlacklist(_ context.Context, token string, _ time.Duration) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeBlacklist) Ping(context.Context) error { return nil }
func (f *fakeBlacklist) Close() error               { return nil }

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestJWTResolverResolvesCaller(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateToken("secret", "test", userID, time.Hour)
	require.NoError(t, err)

	caller, err := NewJWTResolver("secret", nil).Resolve(requestWithToken(token))
	require.NoError(t, err)
	assert.Equal(t, userID, caller.UserID)
}

func TestJWTResolverRejects(t *testing.T) {
	resolver := NewJWTResolver("secret", nil)

	_, err := resolver.Resolve(requestWithToken(""))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = resolver.Resolve(requestWithToken("garbage"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWTResolverHonoursRevocation(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateToken("secret", "test", userID, time.Hour)
	require.NoError(t, err)

	list := &fakeBlacklist{revoked: map[string]bool{token: true}}
	_, err = NewJWTResolver("secret", list).Resolve(requestWithToken(token))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	list = &fakeBlacklist{revoked: map[string]bool{}, err: errors.New("redis down")}
	_, err = NewJWTResolver("secret", list).Resolve(requestWithToken(token))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestCallerContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	caller := &Caller{UserID: uuid.New()}
	got, ok := FromContext(WithCaller(context.Background(), caller))
	require.True(t, ok)
	assert.Equal(t, caller.UserID, got.UserID)
}

func TestJWTResolverRevoke(t *testing.T) {
	token, err := utils.GenerateToken("secret", "test", uuid.New(), time.Hour)
	require.NoError(t, err)

	blacklist := &fakeBlacklist{revoked: map[string]bool{}}
	resolver := NewJWTResolver("secret", blacklist)

	_, err = resolver.Resolve(requestWithToken(token))
	require.NoError(t, err)

	require.NoError(t, resolver.Revoke(context.Background(), token))
	_, err = resolver.Resolve(requestWithToken(token))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, resolver.Revoke(context.Background(), "garbage"), ErrUnauthenticated)
	assert.Error(t, NewJWTResolver("secret", nil).Revoke(context.Background(), token))
}
