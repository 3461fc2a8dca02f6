package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ShipmentRows retrieves the shipments of one year with employee and gift columns for reporting
func (r *reportRepositoryImpl) ShipmentRows(ctx context.Context, organizationID string, req report.ShipmentReportRequest) ([]shipment.ShipmentDetail, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"s.organization_id = $1", "s.year = $2"}
	args := []interface{}{organizationID, req.Year}
	argIdx := 3

	if req.Department != nil && *req.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(e.department) = LOWER($%d)", argIdx))
		args = append(args, *req.Department)
		argIdx++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, *req.Status)
	}

	query := shipmentDetailSelect + " WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY s.birthday_date, e.full_name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment report: %w", err)
	}
	defer rows.Close()

	details := make([]shipment.ShipmentDetail, 0)
	for rows.Next() {
		d, err := scanShipmentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment report row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
