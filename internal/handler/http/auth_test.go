package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt/jwttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	auth.AuthService
	loginErr      error
	gotSession    auth.SessionTrackingRequest
	loggedOut     string
	refreshedWith string
}

func (f *fakeAuthService) tokens() auth.TokenResponse {
	exp := time.Now().Add(time.Hour).Unix()
	return auth.TokenResponse{AccessToken: "access-1", AccessTokenExpiresIn: exp, RefreshToken: "refresh-1", RefreshTokenExpiresIn: exp}
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest, s auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.tokens(), nil
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, s auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.gotSession = s
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return f.tokens(), nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = refreshToken
	return nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	f.refreshedWith = req.RefreshToken
	return auth.AccessTokenResponse{AccessToken: "access-2", AccessTokenExpiresIn: time.Now().Add(time.Hour).Unix()}, nil
}

func (f *fakeAuthService) Me(ctx context.Context) (auth.MeResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, err
	}
	return auth.MeResponse{ID: identity.UserID, Role: string(identity.Role), OrganizationID: identity.OrganizationID}, nil
}

func cookiesByName(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// ===== LOGIN =====

func TestAuthHandler_Login_SetsSessionCookies(t *testing.T) {
	svc := &fakeAuthService{}
	handler := NewAuthHandler(jwttest.Service(), svc, nil, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(t, auth.LoginRequest{Email: "ana@example.com", Password: "password123"}))
	req.Header.Set("User-Agent", "Mozilla/5.0 Test Browser")
	req.RemoteAddr = "192.168.1.100:51234"
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	cookies := cookiesByName(w)
	require.Contains(t, cookies, jwt.AccessTokenCookie)
	require.Contains(t, cookies, jwt.RefreshTokenCookie)
	assert.Equal(t, "access-1", cookies[jwt.AccessTokenCookie].Value)
	assert.True(t, cookies[jwt.AccessTokenCookie].HttpOnly)
	assert.Equal(t, "/api/v1/auth", cookies[jwt.RefreshTokenCookie].Path)

	assert.Equal(t, auth.SessionTrackingRequest{IPAddress: "192.168.1.100", UserAgent: "Mozilla/5.0 Test Browser"}, svc.gotSession)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	svc := &fakeAuthService{loginErr: auth.ErrInvalidCredentials}
	handler := NewAuthHandler(jwttest.Service(), svc, nil, "")

	w := httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, auth.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("invalid"))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, auth.LoginRequest{Email: "not-an-email", Password: "password123"})))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ===== LOGOUT / REFRESH =====

func TestAuthHandler_Logout_ClearsCookiesAndRevokes(t *testing.T) {
	jwtSvc := jwttest.Service()
	svc := &fakeAuthService{}
	handler := NewAuthHandler(jwtSvc, svc, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookie, Value: "refresh-1"})
	req.AddCookie(&http.Cookie{Name: jwt.AccessTokenCookie, Value: "access-1"})
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "refresh-1", svc.loggedOut)
	assert.True(t, jwtSvc.IsTokenRevoked("access-1"))
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	svc := &fakeAuthService{}
	handler := NewAuthHandler(jwttest.Service(), svc, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookie, Value: "refresh-1"})
	w := httptest.NewRecorder()
	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "refresh-1", svc.refreshedWith)
	assert.Equal(t, "access-2", cookiesByName(w)[jwt.AccessTokenCookie].Value)
}

// ===== GOOGLE =====

func TestAuthHandler_Google_Disabled(t *testing.T) {
	handler := NewAuthHandler(jwttest.Service(), &fakeAuthService{}, nil, "http://localhost:3000")

	w := httptest.NewRecorder()
	handler.LoginWithGoogle(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.OAuthCallbackGoogle(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?code=x", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://localhost:3000/auth/callback/google?error=google_login_disabled", w.Header().Get("Location"))
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(jwttest.Service(), &fakeAuthService{}, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(jwttest.Context(t, req.Context(), "u-1", "org-1", user.RoleHR))
	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool            `json:"success"`
		Data    auth.MeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "u-1", resp.Data.ID)
	assert.Equal(t, "hr", resp.Data.Role)
}
