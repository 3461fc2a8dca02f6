package jwt

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

var ErrMissingClaims = errors.New("authentication claims not found")

// Identity is the authenticated caller carried by an access token
type Identity struct {
	UserID         string
	Email          string
	OrganizationID string
	Role           user.Role
}

// HasPermission reports whether the caller's role grants perm
func (i Identity) HasPermission(perm user.Permission) bool {
	return user.HasPermission(i.Role, perm)
}

// IdentityFromContext extracts the caller from claims placed by jwtauth.Verifier
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return IdentityFromClaims(claims)
}

func IdentityFromClaims(claims map[string]interface{}) (Identity, error) {
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return Identity{}, ErrMissingClaims
	}
	userID, _ := claims["user_id"].(string)
	organizationID, _ := claims["organization_id"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	if userID == "" || organizationID == "" || !user.Role(role).IsValid() {
		return Identity{}, ErrMissingClaims
	}
	return Identity{
		UserID:         userID,
		Email:          email,
		OrganizationID: organizationID,
		Role:           user.Role(role),
	}, nil
}
