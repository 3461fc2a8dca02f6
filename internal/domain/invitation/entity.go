package invitation

import (
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
)

// Status represents the status of an invitation
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
)

// Invitation lets an owner bring an HR or viewer user into the organization
type Invitation struct {
	ID              string
	OrganizationID  string
	InvitedByUserID string
	Email           string
	Name            string
	Token           string
	Role            user.Role
	Status          Status
	ExpiresAt       time.Time
	AcceptedAt      *time.Time
	RevokedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvitationWithDetails contains invitation data with joined related names
type InvitationWithDetails struct {
	Invitation
	OrganizationName string
	InviterName      string
}

// IsExpired checks if the invitation has expired at now
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CanBeAccepted checks if the invitation can be accepted at now
func (i *Invitation) CanBeAccepted(now time.Time) bool {
	return i.Status == StatusPending && !i.IsExpired(now)
}
