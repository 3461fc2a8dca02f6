package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const invitationColumns = `i.id, i.organization_id, i.invited_by_user_id, i.email, i.name, i.token, i.role, i.status,
	i.expires_at, i.accepted_at, i.revoked_at, i.created_at, i.updated_at`

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

func invitationDest(inv *invitation.Invitation) []interface{} {
	return []interface{}{
		&inv.ID, &inv.OrganizationID, &inv.InvitedByUserID, &inv.Email, &inv.Name, &inv.Token,
		&inv.Role, &inv.Status, &inv.ExpiresAt, &inv.AcceptedAt, &inv.RevokedAt, &inv.CreatedAt, &inv.UpdatedAt,
	}
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invitations AS i (
			organization_id, invited_by_user_id, email, name, token, role, status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + invitationColumns

	var created invitation.Invitation
	err := q.QueryRow(ctx, query,
		inv.OrganizationID, inv.InvitedByUserID, inv.Email, inv.Name,
		inv.Token, inv.Role, inv.Status, inv.ExpiresAt,
	).Scan(invitationDest(&created)...)
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return created, nil
}

// GetByTokenWithDetails implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByTokenWithDetails(ctx context.Context, token string) (invitation.InvitationWithDetails, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + invitationColumns + `,
			o.name AS organization_name,
			inviter.name AS inviter_name
		FROM invitations i
		JOIN organizations o ON o.id = i.organization_id
		JOIN users inviter ON inviter.id = i.invited_by_user_id
		WHERE i.token = $1
	`

	var inv invitation.InvitationWithDetails
	dest := append(invitationDest(&inv.Invitation), &inv.OrganizationName, &inv.InviterName)
	if err := q.QueryRow(ctx, query, token).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inv, invitation.ErrInvitationNotFound
		}
		return inv, fmt.Errorf("failed to get invitation by token: %w", err)
	}

	return inv, nil
}

// GetByID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invitationColumns + ` FROM invitations i WHERE i.id = $1 AND i.organization_id = $2`

	var inv invitation.Invitation
	if err := q.QueryRow(ctx, query, id, organizationID).Scan(invitationDest(&inv)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inv, invitation.ErrInvitationNotFound
		}
		return inv, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ExistsPendingByEmail implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ExistsPendingByEmail(ctx context.Context, email, organizationID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE LOWER(email) = LOWER($1) AND organization_id = $2 AND status = 'pending' AND expires_at > NOW()
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, email, organizationID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}

	return exists, nil
}

// ListPending implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListPending(ctx context.Context, organizationID string) ([]invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		WHERE i.organization_id = $1 AND i.status = 'pending'
		ORDER BY i.created_at DESC
	`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invitations: %w", err)
	}
	defer rows.Close()

	invitations := make([]invitation.Invitation, 0)
	for rows.Next() {
		var inv invitation.Invitation
		if err := rows.Scan(invitationDest(&inv)...); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return invitations, nil
}

// MarkAccepted implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkAccepted(ctx context.Context, id string) error {
	return r.markStatus(ctx, id, `status = 'accepted', accepted_at = NOW()`)
}

// MarkRevoked implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkRevoked(ctx context.Context, id string) error {
	return r.markStatus(ctx, id, `status = 'revoked', revoked_at = NOW()`)
}

func (r *invitationRepositoryImpl) markStatus(ctx context.Context, id string, set string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET ` + set + `, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.ErrInvitationNotFound
		}
		return fmt.Errorf("failed to update invitation status: %w", err)
	}

	return nil
}
