package invitation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/gifting-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

type InvitationServiceImpl struct {
	db               *database.DB
	invitationRepo   invitation.InvitationRepository
	userRepo         user.UserRepository
	organizationRepo organization.OrganizationRepository
	emailService     email.EmailService
	cfg              config.InvitationConfig
	now              func() time.Time
}

func NewInvitationService(
	db *database.DB,
	invitationRepo invitation.InvitationRepository,
	userRepo user.UserRepository,
	organizationRepo organization.OrganizationRepository,
	emailService email.EmailService,
	cfg config.InvitationConfig,
) invitation.InvitationService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	return &InvitationServiceImpl{
		db:               db,
		invitationRepo:   invitationRepo,
		userRepo:         userRepo,
		organizationRepo: organizationRepo,
		emailService:     emailService,
		cfg:              cfg,
		now:              time.Now,
	}
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func owner(ctx context.Context) (jwt.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return jwt.Identity{}, err
	}
	if !identity.HasPermission(user.PermissionOrganizationManage) {
		return jwt.Identity{}, user.ErrInsufficientPermissions
	}
	return identity, nil
}

// Create implements invitation.InvitationService.
func (s *InvitationServiceImpl) Create(ctx context.Context, req invitation.CreateRequest) (invitation.InvitationResponse, error) {
	identity, err := owner(ctx)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	if req.Role == user.RoleOwner {
		return invitation.InvitationResponse{}, invitation.ErrCannotInviteOwner
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return invitation.InvitationResponse{}, err
	}

	emailAddr := req.Email
	registered, err := s.userRepo.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check user existence: %w", err)
	}
	if registered {
		return invitation.InvitationResponse{}, user.ErrUserEmailExists
	}

	pending, err := s.invitationRepo.ExistsPendingByEmail(ctx, emailAddr, identity.OrganizationID)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	if pending {
		return invitation.InvitationResponse{}, invitation.ErrEmailAlreadyInvited
	}

	token, err := generateToken()
	if err != nil {
		return invitation.InvitationResponse{}, err
	}

	created, err := s.invitationRepo.Create(ctx, invitation.Invitation{
		OrganizationID:  identity.OrganizationID,
		InvitedByUserID: identity.UserID,
		Email:           emailAddr,
		Name:            strings.TrimSpace(req.Name),
		Token:           token,
		Role:            req.Role,
		Status:          invitation.StatusPending,
		ExpiresAt:       s.now().Add(s.cfg.Expiry),
	})
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.sendInvitationEmail(ctx, identity, created)
	return invitation.ToResponse(created), nil
}

// sendInvitationEmail delivers the link; failures are logged and the invitation stays valid
func (s *InvitationServiceImpl) sendInvitationEmail(ctx context.Context, identity jwt.Identity, inv invitation.Invitation) {
	inviterName := identity.Email
	if inviter, err := s.userRepo.GetByID(ctx, identity.UserID); err == nil {
		inviterName = inviter.Name
	}
	orgName := ""
	if org, err := s.organizationRepo.GetByID(ctx, inv.OrganizationID); err == nil {
		orgName = org.Name
	}

	link := fmt.Sprintf("%s/invite/%s", s.cfg.BaseURL, inv.Token)
	err := s.emailService.SendInvitation(inv.Email, inv.Name, inviterName, orgName, string(inv.Role), link, inv.ExpiresAt.Format("02/01/2006 15:04"))
	if err != nil {
		slog.Error("Failed to send invitation email", "invitation_id", inv.ID, "to", inv.Email, "error", err)
	}
}

// ListPending implements invitation.InvitationService.
func (s *InvitationServiceImpl) ListPending(ctx context.Context) ([]invitation.InvitationResponse, error) {
	identity, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.invitationRepo.ListPending(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}

	responses := make([]invitation.InvitationResponse, 0, len(pending))
	for _, inv := range pending {
		responses = append(responses, invitation.ToResponse(inv))
	}
	return responses, nil
}

func (s *InvitationServiceImpl) usable(inv invitation.Invitation) error {
	switch inv.Status {
	case invitation.StatusAccepted:
		return invitation.ErrInvitationAlreadyUsed
	case invitation.StatusRevoked:
		return invitation.ErrInvitationRevoked
	}
	if inv.IsExpired(s.now()) {
		return invitation.ErrInvitationExpired
	}
	return nil
}

// GetByToken implements invitation.InvitationService.
func (s *InvitationServiceImpl) GetByToken(ctx context.Context, token string) (invitation.InvitationDetailResponse, error) {
	if validator.IsEmpty(token) {
		return invitation.InvitationDetailResponse{}, invitation.ErrInvitationNotFound
	}

	inv, err := s.invitationRepo.GetByTokenWithDetails(ctx, token)
	if err != nil {
		return invitation.InvitationDetailResponse{}, err
	}
	if err := s.usable(inv.Invitation); err != nil {
		return invitation.InvitationDetailResponse{}, err
	}

	return invitation.InvitationDetailResponse{
		Email:            inv.Email,
		Name:             inv.Name,
		Role:             inv.Role,
		OrganizationName: inv.OrganizationName,
		InviterName:      inv.InviterName,
		ExpiresAt:        inv.ExpiresAt,
	}, nil
}

// Accept implements invitation.InvitationService.
func (s *InvitationServiceImpl) Accept(ctx context.Context, req invitation.AcceptRequest) (invitation.AcceptResponse, error) {
	if err := req.Validate(); err != nil {
		return invitation.AcceptResponse{}, err
	}

	inv, err := s.invitationRepo.GetByTokenWithDetails(ctx, req.Token)
	if err != nil {
		return invitation.AcceptResponse{}, err
	}
	if err := s.usable(inv.Invitation); err != nil {
		return invitation.AcceptResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = inv.Name
	}
	if name == "" {
		name = strings.Split(inv.Email, "@")[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return invitation.AcceptResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	var created user.User
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		created, err = s.userRepo.Create(txCtx, user.User{
			OrganizationID: inv.OrganizationID,
			Name:           name,
			Email:          inv.Email,
			PasswordHash:   &passwordHash,
			Role:           inv.Role,
		})
		if err != nil {
			return err
		}
		return s.invitationRepo.MarkAccepted(txCtx, inv.ID)
	})
	if err != nil {
		if errors.Is(err, invitation.ErrInvitationNotFound) {
			// accepted concurrently
			return invitation.AcceptResponse{}, invitation.ErrInvitationAlreadyUsed
		}
		return invitation.AcceptResponse{}, err
	}

	slog.Info("Invitation accepted", "invitation_id", inv.ID, "user_id", created.ID)
	return invitation.AcceptResponse{
		UserID:           created.ID,
		Email:            created.Email,
		Role:             created.Role,
		OrganizationName: inv.OrganizationName,
	}, nil
}

// Revoke implements invitation.InvitationService.
func (s *InvitationServiceImpl) Revoke(ctx context.Context, id string) error {
	identity, err := owner(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return invitation.ErrInvitationNotFound
	}

	inv, err := s.invitationRepo.GetByID(ctx, identity.OrganizationID, id)
	if err != nil {
		return err
	}
	switch inv.Status {
	case invitation.StatusAccepted:
		return invitation.ErrCannotRevokeAccepted
	case invitation.StatusRevoked:
		return invitation.ErrInvitationRevoked
	}
	return s.invitationRepo.MarkRevoked(ctx, id)
}
