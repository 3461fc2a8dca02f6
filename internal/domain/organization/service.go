package organization

import "context"

type OrganizationService interface {
	GetMine(ctx context.Context) (OrganizationResponse, error)
	UpdateMine(ctx context.Context, req UpdateOrganizationRequest) (OrganizationResponse, error)
	ListMembers(ctx context.Context) ([]MemberResponse, error)
}
