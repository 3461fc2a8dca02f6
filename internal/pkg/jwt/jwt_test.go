package jwt

import (
	"net/http"
	"testing"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService("secret", "15m", "168h", false)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "hr@example.com", "org-1", user.RoleHR)
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "org-1", claims["organization_id"])
	assert.Equal(t, "hr", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateRefreshToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService("secret", "15m", "forever", false)

	_, _, err := svc.GenerateRefreshToken("user-1")
	assert.Error(t, err)
}

func TestExpiredCookies(t *testing.T) {
	svc := NewJWTService("secret", "15m", "168h", true)

	cookies := svc.ExpiredCookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, RefreshTokenCookie, cookies[1].Name)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
	}
	assert.Equal(t, http.SameSiteStrictMode, cookies[1].SameSite)
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService("secret", "15m", "168h", false)

	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}
