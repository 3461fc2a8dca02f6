package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeStats returns active, inactive, birthdays this month and recent hires in single query
func (r *dashboardRepositoryImpl) GetEmployeeStats(ctx context.Context, organizationID string, today time.Time) (dashboard.EmployeeStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) as active_count,
			COALESCE(SUM(CASE WHEN NOT is_active THEN 1 ELSE 0 END), 0) as inactive_count,
			COALESCE(SUM(CASE WHEN is_active AND EXTRACT(MONTH FROM birth_date) = $2 THEN 1 ELSE 0 END), 0) as birthdays_count,
			COALESCE(SUM(CASE WHEN created_at >= $3 THEN 1 ELSE 0 END), 0) as new_count
		FROM employees
		WHERE organization_id = $1
	`

	var stats dashboard.EmployeeStats
	err := q.QueryRow(ctx, query, organizationID, int(today.Month()), today.AddDate(0, 0, -30)).Scan(
		&stats.Active, &stats.Inactive, &stats.BirthdaysThisMonth, &stats.NewLast30Days,
	)
	if err != nil {
		return dashboard.EmployeeStats{}, fmt.Errorf("failed to get employee stats: %w", err)
	}
	return stats, nil
}

// GetShipmentStatusCounts groups the year's shipments by status
func (r *dashboardRepositoryImpl) GetShipmentStatusCounts(ctx context.Context, organizationID string, year int) ([]dashboard.ShipmentStatusCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM gift_shipments
		WHERE organization_id = $1 AND year = $2
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, organizationID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment status counts: %w", err)
	}
	defer rows.Close()

	var counts []dashboard.ShipmentStatusCount
	for rows.Next() {
		var c dashboard.ShipmentStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetDueShipments lists open shipments of active employees due up to until
func (r *dashboardRepositoryImpl) GetDueShipments(ctx context.Context, organizationID string, until time.Time, limit int) ([]dashboard.DueShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, e.full_name, s.status, s.trigger_date, s.birthday_date
		FROM gift_shipments s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.organization_id = $1
			AND s.status IN ('pending', 'ready_to_ship')
			AND s.trigger_date <= $2
			AND e.is_active
		ORDER BY s.trigger_date, e.full_name
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, organizationID, until, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due shipments: %w", err)
	}
	defer rows.Close()

	due := make([]dashboard.DueShipment, 0)
	for rows.Next() {
		var d dashboard.DueShipment
		if err := rows.Scan(&d.ShipmentID, &d.EmployeeName, &d.Status, &d.TriggerDate, &d.BirthdayDate); err != nil {
			return nil, fmt.Errorf("failed to scan due shipment: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}
