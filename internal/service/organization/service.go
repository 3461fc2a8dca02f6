package organization

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
)

type OrganizationServiceImpl struct {
	organization.OrganizationRepository
	userRepo user.UserRepository
}

func NewOrganizationService(organizationRepository organization.OrganizationRepository, userRepository user.UserRepository) organization.OrganizationService {
	return &OrganizationServiceImpl{
		OrganizationRepository: organizationRepository,
		userRepo:               userRepository,
	}
}

// GetMine implements organization.OrganizationService.
func (s *OrganizationServiceImpl) GetMine(ctx context.Context) (organization.OrganizationResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	org, err := s.OrganizationRepository.GetByID(ctx, identity.OrganizationID)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}
	return organization.ToResponse(org), nil
}

// UpdateMine implements organization.OrganizationService.
func (s *OrganizationServiceImpl) UpdateMine(ctx context.Context, req organization.UpdateOrganizationRequest) (organization.OrganizationResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}
	if !identity.HasPermission(user.PermissionOrganizationManage) {
		return organization.OrganizationResponse{}, user.ErrInsufficientPermissions
	}

	org, err := s.OrganizationRepository.UpdateName(ctx, identity.OrganizationID, strings.TrimSpace(req.Name))
	if err != nil {
		return organization.OrganizationResponse{}, err
	}
	return organization.ToResponse(org), nil
}

// ListMembers implements organization.OrganizationService.
func (s *OrganizationServiceImpl) ListMembers(ctx context.Context) ([]organization.MemberResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByOrganization(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}

	members := make([]organization.MemberResponse, 0, len(users))
	for _, u := range users {
		members = append(members, organization.MemberResponse{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         string(u.Role),
			GoogleLinked: u.OAuthProviderID != nil,
			CreatedAt:    u.CreatedAt,
		})
	}
	return members, nil
}
