package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/auth"
	"jobportal/internal/handler"
	"jobportal/internal/model"
)

type blacklist map[string]bool

func (b blacklist) StoreRefreshToken(context.Context, string, uint, model.Role, time.Duration) error {
	return nil
}

func (b blacklist) GetRefreshToken(context.Context, string) (uint, model.Role, error) {
	return 0, "", nil
}

func (b blacklist) DeleteRefreshToken(context.Context, string) error { return nil }

func (b blacklist) BlacklistAccessToken(_ context.Context, tokenID string, _ time.Duration) error {
	b[tokenID] = true
	return nil
}

func (b blacklist) IsAccessTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	return b[tokenID], nil
}

func TestJWTMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	revoked := blacklist{}

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		claims := c.Get(handler.ClaimsKey).(*auth.Claims)
		return c.JSON(http.StatusOK, echo.Map{"user_id": claims.UserID, "role": claims.Role})
	}, JWTMiddleware(jwtService, revoked))

	access, err := jwtService.GenerateAccessToken(9, model.RoleCompany)
	require.NoError(t, err)
	_, refresh, err := jwtService.GenerateRefreshToken(9, model.RoleCompany)
	require.NoError(t, err)
	foreign, err := auth.NewJWTService("other-secret").GenerateAccessToken(9, model.RoleCompany)
	require.NoError(t, err)

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := call("Bearer " + access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":9,"role":"company"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+refresh).Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+foreign).Code)

	claims, err := jwtService.ValidateToken(access)
	require.NoError(t, err)
	revoked[claims.ID] = true
	rec = call("Bearer " + access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		10 << 20: "10M",
		11 << 20: "11M",
		1 << 30:  "1G",
		3 << 10:  "3K",
		1500:     "1500B",
	}
	for n, want := range tests {
		assert.Equal(t, want, formatBytes(n))
	}
}
