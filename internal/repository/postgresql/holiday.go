package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (organization_id, date, name)
		VALUES ($1, $2, $3)
		RETURNING id, organization_id, date, name, created_at
	`
	var created holiday.Holiday
	err := q.QueryRow(ctx, query, h.OrganizationID, h.Date, h.Name).Scan(
		&created.ID, &created.OrganizationID, &created.Date, &created.Name, &created.CreatedAt,
	)
	if err != nil {
		if isPgError(err, uniqueViolationCode) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, organizationID string, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM holidays
		WHERE id = $1 AND organization_id = $2
		RETURNING id, organization_id, date, name, created_at
	`
	var deleted holiday.Holiday
	err := q.QueryRow(ctx, query, id, organizationID).Scan(
		&deleted.ID, &deleted.OrganizationID, &deleted.Date, &deleted.Name, &deleted.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to delete holiday: %w", err)
	}
	return deleted, nil
}

// ListBetween implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, organizationID string, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, date, name, created_at
		FROM holidays
		WHERE organization_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.OrganizationID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
