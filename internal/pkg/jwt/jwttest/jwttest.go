// Package jwttest builds authenticated contexts for service and handler tests.
package jwttest

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const Secret = "jwttest-secret"

// Service returns a token service signed with Secret
func Service() jwt.Service {
	return jwt.NewJWTService(Secret, "1h", "24h", false)
}

// AccessToken issues an access token for the given caller
func AccessToken(t testing.TB, svc jwt.Service, userID, organizationID string, role user.Role) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(userID, userID+"@example.com", organizationID, role)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	return token
}

// Context returns ctx carrying verified claims for the given caller
func Context(t testing.TB, ctx context.Context, userID, organizationID string, role user.Role) context.Context {
	t.Helper()
	svc := Service()
	token, err := jwtauth.VerifyToken(svc.JWTAuth(), AccessToken(t, svc, userID, organizationID, role))
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	return jwtauth.NewContext(ctx, token, nil)
}
