package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenStore keeps the blacklist in a map.
type fakeTokenStore struct {
	blacklisted map[string]bool
}

func (s *fakeTokenStore) StoreRefreshToken(context.Context, string, uint, string, uint, time.Duration) error {
	return nil
}

func (s *fakeTokenStore) GetRefreshToken(context.Context, string) (uint, string, uint, error) {
	return 0, "", 0, nil
}

func (s *fakeTokenStore) DeleteRefreshToken(context.Context, string) error {
	return nil
}

func (s *fakeTokenStore) BlacklistAccessToken(_ context.Context, tokenID string, _ time.Duration) error {
	if s.blacklisted == nil {
		s.blacklisted = map[string]bool{}
	}
	s.blacklisted[tokenID] = true
	return nil
}

func (s *fakeTokenStore) IsAccessTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	return s.blacklisted[tokenID], nil
}

func securedContext(jti string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", &jwt.Token{Claims: &Claims{
		UserID:           7,
		CustomerID:       1,
		RegisteredClaims: jwt.RegisteredClaims{ID: jti},
	}})
	return c
}

func TestRejectBlacklisted_PassesCleanToken(t *testing.T) {
	store := &fakeTokenStore{}
	called := false
	handler := RejectBlacklisted(store)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(securedContext("jti-1")))
	assert.True(t, called)
}

func TestRejectBlacklisted_RejectsRevokedToken(t *testing.T) {
	store := &fakeTokenStore{}
	require.NoError(t, store.BlacklistAccessToken(context.Background(), "jti-1", time.Minute))

	handler := RejectBlacklisted(store)(func(c echo.Context) error {
		t.Fatal("handler must not run for a revoked token")
		return nil
	})

	err := handler(securedContext("jti-1"))
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
