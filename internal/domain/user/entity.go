package user

import "time"

type Role string

const (
	RoleOwner  Role = "owner"  // Registered the organization - full access
	RoleHR     Role = "hr"     // Manages employees and shipments
	RoleViewer Role = "viewer" // Read-only access to dashboards and reports
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleHR, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID              string
	OrganizationID  string
	Name            string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOwner checks if user owns the organization
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// CanManageShipments checks if user may advance gift shipments
func (u *User) CanManageShipments() bool {
	return HasPermission(u.Role, PermissionShipmentManage)
}
