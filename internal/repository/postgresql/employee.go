package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeSelect = `
	SELECT e.id, e.organization_id, e.full_name, e.birth_date, e.role, e.department, e.email,
		e.is_active, e.created_at, e.updated_at, e.deactivated_at,
		a.cep, a.street, a.number, a.complement, a.neighborhood, a.city, a.state
	FROM employees e
	LEFT JOIN addresses a ON a.employee_id = e.id
`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var cep, street, number, neighborhood, city, state *string
	var complement *string

	err := row.Scan(
		&e.ID,
		&e.OrganizationID,
		&e.FullName,
		&e.BirthDate,
		&e.Role,
		&e.Department,
		&e.Email,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.DeactivatedAt,
		&cep,
		&street,
		&number,
		&complement,
		&neighborhood,
		&city,
		&state,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	if cep != nil {
		e.Address = &employee.Address{
			EmployeeID:   e.ID,
			CEP:          *cep,
			Street:       deref(street),
			Number:       deref(number),
			Complement:   complement,
			Neighborhood: deref(neighborhood),
			City:         deref(city),
			State:        deref(state),
		}
	}
	return e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, organizationID string, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + ` WHERE e.id = $1 AND e.organization_id = $2`
	return scanEmployee(q.QueryRow(ctx, query, id, organizationID))
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (organization_id, full_name, birth_date, role, department, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`
	created := newEmployee
	err := q.QueryRow(ctx, query,
		newEmployee.OrganizationID,
		newEmployee.FullName,
		newEmployee.BirthDate,
		newEmployee.Role,
		newEmployee.Department,
		newEmployee.Email,
	).Scan(&created.ID, &created.IsActive, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isPgError(err, uniqueViolationCode) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	if created.Address != nil {
		address := *created.Address
		address.EmployeeID = created.ID
		if err := r.ReplaceAddress(ctx, address); err != nil {
			return employee.Employee{}, err
		}
		created.Address = &address
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, updated employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $3, birth_date = $4, role = $5, department = $6, email = $7, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING is_active, created_at, updated_at, deactivated_at
	`
	result := updated
	err := q.QueryRow(ctx, query,
		updated.ID,
		updated.OrganizationID,
		updated.FullName,
		updated.BirthDate,
		updated.Role,
		updated.Department,
		updated.Email,
	).Scan(&result.IsActive, &result.CreatedAt, &result.UpdatedAt, &result.DeactivatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isPgError(err, uniqueViolationCode) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	if result.Address != nil {
		address := *result.Address
		address.EmployeeID = result.ID
		if err := r.ReplaceAddress(ctx, address); err != nil {
			return employee.Employee{}, err
		}
		result.Address = &address
	}
	return result, nil
}

// ReplaceAddress implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ReplaceAddress(ctx context.Context, address employee.Address) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO addresses (employee_id, cep, street, number, complement, neighborhood, city, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id) DO UPDATE SET
			cep = EXCLUDED.cep,
			street = EXCLUDED.street,
			number = EXCLUDED.number,
			complement = EXCLUDED.complement,
			neighborhood = EXCLUDED.neighborhood,
			city = EXCLUDED.city,
			state = EXCLUDED.state
	`
	_, err := q.Exec(ctx, query,
		address.EmployeeID,
		address.CEP,
		address.Street,
		address.Number,
		address.Complement,
		address.Neighborhood,
		address.City,
		address.State,
	)
	if err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, organizationID string, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET is_active = FALSE, deactivated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND organization_id = $2 AND is_active
	`
	tag, err := q.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var active bool
		err := q.QueryRow(ctx, `SELECT is_active FROM employees WHERE id = $1 AND organization_id = $2`, id, organizationID).Scan(&active)
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}
		return employee.ErrEmployeeAlreadyInactive
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, organizationID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"e.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(e.department) = LOWER($%d)", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("e.is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM employees e " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumns := map[string]string{
		"full_name":  "e.full_name",
		"birth_date": "e.birth_date",
		"department": "e.department",
		"created_at": "e.created_at",
	}
	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.full_name"
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s %s ORDER BY %s %s, e.id LIMIT $%d OFFSET $%d",
		employeeSelect, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// GetActiveByOrganizationID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByOrganizationID(ctx context.Context, organizationID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := employeeSelect + ` WHERE e.organization_id = $1 AND e.is_active ORDER BY e.full_name`
	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, organizationID string, email string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM employees
			WHERE organization_id = $1 AND LOWER(email) = LOWER($2) AND is_active
			AND ($3::uuid IS NULL OR id <> $3::uuid)
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, organizationID, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
