package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var enabled = config.OAuth2GoogleConfig{
	ClientID:     "client",
	ClientSecret: "secret",
	RedirectURL:  "http://localhost:8080/api/v1/auth/oauth/callback/google",
	Scopes:       []string{"email"},
}

func TestNewGoogleService_Disabled(t *testing.T) {
	assert.Nil(t, NewGoogleService(config.OAuth2GoogleConfig{}))
}

func TestRedirectURL(t *testing.T) {
	svc := NewGoogleService(enabled)
	state := svc.GenerateState()
	assert.NotEmpty(t, state)
	assert.NotEqual(t, state, svc.GenerateState())

	u, err := url.Parse(svc.RedirectURL(state))
	require.NoError(t, err)
	assert.Equal(t, state, u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
}

func TestVerifyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ana@example.com","verified_email":true}`))
	}))
	defer srv.Close()

	svc := NewGoogleService(enabled).(*GoogleServiceImpl)
	svc.userInfoURL = srv.URL

	info, err := svc.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "abc", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, GoogleInformation{GoogleID: "g-1", Email: "ana@example.com", VerifiedEmail: true}, info)
}
