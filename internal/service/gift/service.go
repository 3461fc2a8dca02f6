package gift

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

type GiftServiceImpl struct {
	gift.GiftRepository
}

func NewGiftService(giftRepository gift.GiftRepository) gift.GiftService {
	return &GiftServiceImpl{GiftRepository: giftRepository}
}

func manager(ctx context.Context) (jwt.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return jwt.Identity{}, err
	}
	if !identity.HasPermission(user.PermissionGiftManage) {
		return jwt.Identity{}, user.ErrInsufficientPermissions
	}
	return identity, nil
}

// List implements gift.GiftService.
func (s *GiftServiceImpl) List(ctx context.Context, activeOnly bool) ([]gift.GiftResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	gifts, err := s.GiftRepository.List(ctx, identity.OrganizationID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]gift.GiftResponse, 0, len(gifts))
	for _, g := range gifts {
		responses = append(responses, gift.ToResponse(g))
	}
	return responses, nil
}

// Get implements gift.GiftService.
func (s *GiftServiceImpl) Get(ctx context.Context, id string) (gift.GiftResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return gift.GiftResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return gift.GiftResponse{}, gift.ErrGiftNotFound
	}

	g, err := s.GiftRepository.GetByID(ctx, identity.OrganizationID, id)
	if err != nil {
		return gift.GiftResponse{}, err
	}
	return gift.ToResponse(g), nil
}

// Create implements gift.GiftService.
func (s *GiftServiceImpl) Create(ctx context.Context, req gift.CreateGiftRequest) (gift.GiftResponse, error) {
	identity, err := manager(ctx)
	if err != nil {
		return gift.GiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return gift.GiftResponse{}, err
	}

	created, err := s.GiftRepository.Create(ctx, gift.Gift{
		OrganizationID: identity.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Price:          req.Price.Round(2),
		IsActive:       true,
	})
	if err != nil {
		return gift.GiftResponse{}, err
	}
	return gift.ToResponse(created), nil
}

// Update implements gift.GiftService.
func (s *GiftServiceImpl) Update(ctx context.Context, req gift.UpdateGiftRequest) (gift.GiftResponse, error) {
	identity, err := manager(ctx)
	if err != nil {
		return gift.GiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return gift.GiftResponse{}, err
	}

	current, err := s.GiftRepository.GetByID(ctx, identity.OrganizationID, req.ID)
	if err != nil {
		return gift.GiftResponse{}, err
	}

	current.Name = strings.TrimSpace(req.Name)
	current.Description = req.Description
	current.Price = req.Price.Round(2)
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.GiftRepository.Update(ctx, current)
	if err != nil {
		return gift.GiftResponse{}, err
	}
	return gift.ToResponse(updated), nil
}

// Delete implements gift.GiftService.
func (s *GiftServiceImpl) Delete(ctx context.Context, id string) (bool, error) {
	identity, err := manager(ctx)
	if err != nil {
		return false, err
	}
	if !validator.IsValidUUID(id) {
		return false, gift.ErrGiftNotFound
	}

	current, err := s.GiftRepository.GetByID(ctx, identity.OrganizationID, id)
	if err != nil {
		return false, err
	}

	referenced, err := s.GiftRepository.IsReferenced(ctx, id)
	if err != nil {
		return false, err
	}
	if !referenced {
		return false, s.GiftRepository.Delete(ctx, identity.OrganizationID, id)
	}

	// shipments keep pointing at the gift, so it is only hidden from the catalog
	current.IsActive = false
	if _, err := s.GiftRepository.Update(ctx, current); err != nil {
		return false, err
	}
	slog.Info("Gift deactivated instead of deleted", "gift_id", id)
	return true, nil
}
