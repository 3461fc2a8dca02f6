package invitation

import "context"

// InvitationService defines the interface for invitation business logic
type InvitationService interface {
	// Create creates an invitation and sends the email (owner only)
	Create(ctx context.Context, req CreateRequest) (InvitationResponse, error)

	// ListPending lists the organization's open invitations
	ListPending(ctx context.Context) ([]InvitationResponse, error)

	// GetByToken retrieves invitation details by token (public endpoint)
	GetByToken(ctx context.Context, token string) (InvitationDetailResponse, error)

	// Accept creates the invited user account
	Accept(ctx context.Context, req AcceptRequest) (AcceptResponse, error)

	// Revoke revokes a pending invitation
	Revoke(ctx context.Context, id string) error
}
