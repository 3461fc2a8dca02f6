package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const shipmentColumns = `s.id, s.organization_id, s.employee_id, s.year, s.status, s.trigger_date, s.birthday_date,
	s.gift_id, s.sent_at, s.delivered_at, s.cancelled_at, s.notes, s.created_at, s.updated_at`

const shipmentDetailSelect = `
	SELECT ` + shipmentColumns + `,
		e.full_name, e.department, e.role, e.birth_date, g.name, g.price
	FROM gift_shipments s
	JOIN employees e ON e.id = s.employee_id
	LEFT JOIN gifts g ON g.id = s.gift_id
`

type shipmentRepositoryImpl struct {
	db *database.DB
}

func NewShipmentRepository(db *database.DB) shipment.ShipmentRepository {
	return &shipmentRepositoryImpl{db: db}
}

func shipmentDest(s *shipment.GiftShipment) []interface{} {
	return []interface{}{
		&s.ID,
		&s.OrganizationID,
		&s.EmployeeID,
		&s.Year,
		&s.Status,
		&s.TriggerDate,
		&s.BirthdayDate,
		&s.GiftID,
		&s.SentAt,
		&s.DeliveredAt,
		&s.CancelledAt,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}

func scanShipment(row pgx.Row) (shipment.GiftShipment, error) {
	var s shipment.GiftShipment
	if err := row.Scan(shipmentDest(&s)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shipment.GiftShipment{}, shipment.ErrShipmentNotFound
		}
		return shipment.GiftShipment{}, err
	}
	return s, nil
}

func scanShipmentDetail(row pgx.Row) (shipment.ShipmentDetail, error) {
	var d shipment.ShipmentDetail
	dest := append(shipmentDest(&d.GiftShipment),
		&d.EmployeeName,
		&d.EmployeeDepartment,
		&d.EmployeeRole,
		&d.EmployeeBirthDate,
		&d.GiftName,
		&d.GiftPrice,
	)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shipment.ShipmentDetail{}, shipment.ErrShipmentNotFound
		}
		return shipment.ShipmentDetail{}, err
	}
	return d, nil
}

func collectShipments(rows pgx.Rows) ([]shipment.GiftShipment, error) {
	defer rows.Close()

	shipments := make([]shipment.GiftShipment, 0)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shipments, nil
}

// Create implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) Create(ctx context.Context, s shipment.GiftShipment) (shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO gift_shipments AS s (organization_id, employee_id, year, status, trigger_date, birthday_date, gift_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + shipmentColumns

	if s.Status == "" {
		s.Status = shipment.StatusPending
	}
	created, err := scanShipment(q.QueryRow(ctx, query,
		s.OrganizationID,
		s.EmployeeID,
		s.Year,
		s.Status,
		s.TriggerDate,
		s.BirthdayDate,
		s.GiftID,
		s.Notes,
	))
	if err != nil {
		if isPgError(err, uniqueViolationCode) {
			return shipment.GiftShipment{}, shipment.ErrShipmentExists
		}
		return shipment.GiftShipment{}, fmt.Errorf("failed to create shipment: %w", err)
	}
	return created, nil
}

// CreateMissing implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) CreateMissing(ctx context.Context, shipments []shipment.GiftShipment) (int, error) {
	if len(shipments) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(shipments))
	args := make([]interface{}, 0, len(shipments)*6)
	for i, s := range shipments {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		status := s.Status
		if status == "" {
			status = shipment.StatusPending
		}
		args = append(args, s.OrganizationID, s.EmployeeID, s.Year, status, s.TriggerDate, s.BirthdayDate)
	}

	query := fmt.Sprintf(`
		INSERT INTO gift_shipments (organization_id, employee_id, year, status, trigger_date, birthday_date)
		VALUES %s
		ON CONFLICT ON CONSTRAINT gift_shipments_employee_year_key DO NOTHING
	`, strings.Join(valueStrings, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to create shipments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// GetByID implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) GetByID(ctx context.Context, organizationID string, id string) (shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shipmentColumns + ` FROM gift_shipments s WHERE s.id = $1 AND s.organization_id = $2`
	return scanShipment(q.QueryRow(ctx, query, id, organizationID))
}

// GetByEmployeeAndYear implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shipmentColumns + ` FROM gift_shipments s WHERE s.employee_id = $1 AND s.year = $2`
	return scanShipment(q.QueryRow(ctx, query, employeeID, year))
}

// List implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) List(ctx context.Context, organizationID string, filter shipment.ShipmentFilter) ([]shipment.ShipmentDetail, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"s.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("e.full_name ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.DueBefore != nil {
		conditions = append(conditions, fmt.Sprintf("s.trigger_date <= $%d", argIdx))
		args = append(args, *filter.DueBefore)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM gift_shipments s JOIN employees e ON e.id = s.employee_id ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shipments: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s %s ORDER BY s.trigger_date ASC, e.full_name ASC LIMIT $%d OFFSET $%d",
		shipmentDetailSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer rows.Close()

	details := make([]shipment.ShipmentDetail, 0)
	for rows.Next() {
		d, err := scanShipmentDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shipment: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// Update implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) Update(ctx context.Context, s shipment.GiftShipment, expected shipment.Status) (shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE gift_shipments AS s
		SET status = $4, trigger_date = $5, birthday_date = $6, gift_id = $7,
			sent_at = $8, delivered_at = $9, cancelled_at = $10, notes = $11, updated_at = NOW()
		WHERE s.id = $1 AND s.organization_id = $2 AND s.status = $3
		RETURNING ` + shipmentColumns

	updated, err := scanShipment(q.QueryRow(ctx, query,
		s.ID,
		s.OrganizationID,
		expected,
		s.Status,
		s.TriggerDate,
		s.BirthdayDate,
		s.GiftID,
		s.SentAt,
		s.DeliveredAt,
		s.CancelledAt,
		s.Notes,
	))
	if err != nil {
		// callers load the row first, so a miss here means its status moved on
		if errors.Is(err, shipment.ErrShipmentNotFound) {
			return shipment.GiftShipment{}, shipment.ErrShipmentChanged
		}
		if isPgError(err, foreignKeyViolationCode) {
			return shipment.GiftShipment{}, shipment.ErrGiftNotAvailable
		}
		return shipment.GiftShipment{}, fmt.Errorf("failed to update shipment: %w", err)
	}
	return updated, nil
}

// ListDue implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) ListDue(ctx context.Context, day time.Time, organizationID *string) ([]shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shipmentColumns + `
		FROM gift_shipments s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.status = 'pending' AND s.trigger_date <= $1 AND s.birthday_date >= $1 AND e.is_active
			AND ($2::uuid IS NULL OR s.organization_id = $2::uuid)
		ORDER BY s.organization_id, s.trigger_date
	`
	rows, err := q.Query(ctx, query, day, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list due shipments: %w", err)
	}
	return collectShipments(rows)
}

// ListPendingByBirthday implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) ListPendingByBirthday(ctx context.Context, organizationID string, from, to time.Time) ([]shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shipmentColumns + `
		FROM gift_shipments s
		WHERE s.organization_id = $1 AND s.status = 'pending' AND s.birthday_date BETWEEN $2 AND $3
		ORDER BY s.birthday_date
	`
	rows, err := q.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending shipments: %w", err)
	}
	return collectShipments(rows)
}

// ListOpenByEmployee implements shipment.ShipmentRepository.
func (r *shipmentRepositoryImpl) ListOpenByEmployee(ctx context.Context, employeeID string) ([]shipment.GiftShipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shipmentColumns + `
		FROM gift_shipments s
		WHERE s.employee_id = $1 AND s.status NOT IN ('delivered', 'cancelled')
		ORDER BY s.year
	`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shipments: %w", err)
	}
	return collectShipments(rows)
}
