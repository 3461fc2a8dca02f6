package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
)

// RequirePermission checks if the caller's role grants permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := jwt.IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !identity.HasPermission(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner requires the owner role
func RequireOwner(next http.Handler) http.Handler {
	return RequirePermission(user.PermissionOrganizationManage)(next)
}
