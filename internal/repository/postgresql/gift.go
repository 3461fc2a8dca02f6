package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const giftColumns = `id, organization_id, name, description, price, is_active, created_at, updated_at`

type giftRepositoryImpl struct {
	db *database.DB
}

func NewGiftRepository(db *database.DB) gift.GiftRepository {
	return &giftRepositoryImpl{db: db}
}

func scanGift(row pgx.Row) (gift.Gift, error) {
	var g gift.Gift
	err := row.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.Price, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return gift.Gift{}, gift.ErrGiftNotFound
		}
		return gift.Gift{}, err
	}
	return g, nil
}

// Create implements gift.GiftRepository.
func (r *giftRepositoryImpl) Create(ctx context.Context, g gift.Gift) (gift.Gift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO gifts (organization_id, name, description, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + giftColumns

	created, err := scanGift(q.QueryRow(ctx, query, g.OrganizationID, g.Name, g.Description, g.Price, g.IsActive))
	if err != nil {
		if isPgError(err, uniqueViolationCode) {
			return gift.Gift{}, gift.ErrGiftNameExists
		}
		return gift.Gift{}, fmt.Errorf("failed to create gift: %w", err)
	}
	return created, nil
}

// GetByID implements gift.GiftRepository.
func (r *giftRepositoryImpl) GetByID(ctx context.Context, organizationID string, id string) (gift.Gift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + giftColumns + ` FROM gifts WHERE id = $1 AND organization_id = $2`
	return scanGift(q.QueryRow(ctx, query, id, organizationID))
}

// List implements gift.GiftRepository.
func (r *giftRepositoryImpl) List(ctx context.Context, organizationID string, activeOnly bool) ([]gift.Gift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + giftColumns + ` FROM gifts WHERE organization_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	defer rows.Close()

	gifts := make([]gift.Gift, 0)
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// Update implements gift.GiftRepository.
func (r *giftRepositoryImpl) Update(ctx context.Context, g gift.Gift) (gift.Gift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE gifts
		SET name = $3, description = $4, price = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + giftColumns

	updated, err := scanGift(q.QueryRow(ctx, query, g.ID, g.OrganizationID, g.Name, g.Description, g.Price, g.IsActive))
	if err != nil {
		if errors.Is(err, gift.ErrGiftNotFound) {
			return gift.Gift{}, err
		}
		if isPgError(err, uniqueViolationCode) {
			return gift.Gift{}, gift.ErrGiftNameExists
		}
		return gift.Gift{}, fmt.Errorf("failed to update gift: %w", err)
	}
	return updated, nil
}

// Delete implements gift.GiftRepository.
func (r *giftRepositoryImpl) Delete(ctx context.Context, organizationID string, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM gifts WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete gift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gift.ErrGiftNotFound
	}
	return nil
}

// IsReferenced implements gift.GiftRepository.
func (r *giftRepositoryImpl) IsReferenced(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var referenced bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM gift_shipments WHERE gift_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return false, err
	}
	return referenced, nil
}
