package invitation

import (
	"context"
)

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	Create(ctx context.Context, inv Invitation) (Invitation, error)

	// GetByTokenWithDetails retrieves an invitation by token with organization and inviter names
	GetByTokenWithDetails(ctx context.Context, token string) (InvitationWithDetails, error)

	GetByID(ctx context.Context, organizationID, id string) (Invitation, error)

	// ExistsPendingByEmail checks if email has a pending non-expired invitation in the organization
	ExistsPendingByEmail(ctx context.Context, email, organizationID string) (bool, error)

	ListPending(ctx context.Context, organizationID string) ([]Invitation, error)

	MarkAccepted(ctx context.Context, id string) error
	MarkRevoked(ctx context.Context, id string) error
}
