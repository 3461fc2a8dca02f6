package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/gifting-backend-go/internal/repository/postgresql"
	shipmentservice "github.com/cmlabs-hris/gifting-backend-go/internal/service/shipment"
	"github.com/jackc/pgx/v5"
)

const dateLayout = "2006-01-02"

type EmployeeServiceImpl struct {
	db            *database.DB
	employeeRepo  employee.EmployeeRepository
	shipmentRepo  shipment.ShipmentRepository
	userRepo      user.UserRepository
	planner       *shipmentservice.Planner
	notifications notification.Service
	loc           *time.Location
	now           func() time.Time
}

func NewEmployeeService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	shipmentRepo shipment.ShipmentRepository,
	userRepo user.UserRepository,
	planner *shipmentservice.Planner,
	notificationService notification.Service,
	loc *time.Location,
) employee.EmployeeService {
	if loc == nil {
		loc = time.UTC
	}
	return &EmployeeServiceImpl{
		db:            db,
		employeeRepo:  employeeRepo,
		shipmentRepo:  shipmentRepo,
		userRepo:      userRepo,
		planner:       planner,
		notifications: notificationService,
		loc:           loc,
		now:           time.Now,
	}
}

func (s *EmployeeServiceImpl) today() time.Time {
	return calendar.Date(s.now().In(s.loc))
}

func authorize(ctx context.Context, permission user.Permission) (jwt.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return jwt.Identity{}, err
	}
	if !identity.HasPermission(permission) {
		return jwt.Identity{}, user.ErrInsufficientPermissions
	}
	return identity, nil
}

// mapEmployeeToResponse fills the birthday fields relative to today
func mapEmployeeToResponse(emp employee.Employee, today, trigger time.Time) employee.EmployeeResponse {
	next := calendar.NextBirthday(emp.BirthDate, today)

	var address *employee.AddressResponse
	if emp.Address != nil {
		address = &employee.AddressResponse{
			CEP:          emp.Address.CEP,
			Street:       emp.Address.Street,
			Number:       emp.Address.Number,
			Complement:   emp.Address.Complement,
			Neighborhood: emp.Address.Neighborhood,
			City:         emp.Address.City,
			State:        emp.Address.State,
		}
	}

	return employee.EmployeeResponse{
		ID:                emp.ID,
		FullName:          emp.FullName,
		BirthDate:         emp.BirthDate.Format(dateLayout),
		Role:              emp.Role,
		Department:        emp.Department,
		Email:             emp.Email,
		IsActive:          emp.IsActive,
		Address:           address,
		NextBirthday:      next.Format(dateLayout),
		DaysUntilBirthday: calendar.DaysUntil(today, next),
		TurningAge:        calendar.Age(emp.BirthDate, next),
		TriggerDate:       trigger.Format(dateLayout),
		CreatedAt:         emp.CreatedAt,
		UpdatedAt:         emp.UpdatedAt,
		DeactivatedAt:     emp.DeactivatedAt,
	}
}

// respondMany maps employees of one organization, computing every trigger date with one calendar
func (s *EmployeeServiceImpl) respondMany(ctx context.Context, organizationID string, employees []employee.Employee) ([]employee.EmployeeResponse, error) {
	today := s.today()

	birthdays := make([]time.Time, len(employees))
	for i, emp := range employees {
		birthdays[i] = calendar.NextBirthday(emp.BirthDate, today)
	}
	triggers, err := s.planner.TriggerDates(ctx, organizationID, birthdays)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trigger dates: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for i, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp, today, triggers[i]))
	}
	return responses, nil
}

func (s *EmployeeServiceImpl) respond(ctx context.Context, emp employee.Employee) (employee.EmployeeResponse, error) {
	responses, err := s.respondMany(ctx, emp.OrganizationID, []employee.Employee{emp})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return responses[0], nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	identity, err := authorize(ctx, user.PermissionEmployeeView)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, identity.OrganizationID, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.respond(ctx, emp)
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	identity, err := authorize(ctx, user.PermissionEmployeeManage)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	email := req.Email
	if email != nil {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, identity.OrganizationID, *email, nil)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	address := req.Address.ToAddress("")
	newEmployee := employee.Employee{
		OrganizationID: identity.OrganizationID,
		FullName:       strings.TrimSpace(req.FullName),
		BirthDate:      calendar.Date(req.BirthDateParsed),
		Role:           strings.TrimSpace(req.Role),
		Department:     strings.TrimSpace(req.Department),
		Email:          email,
		Address:        &address,
	}

	// the first shipment covers the next birthday, which may fall next year
	next := calendar.NextBirthday(newEmployee.BirthDate, s.today())
	planned, err := s.planner.Plan(ctx, newEmployee, next.Year())
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to plan shipment: %w", err)
	}

	var created employee.Employee
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		created, err = s.employeeRepo.Create(txCtx, newEmployee)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		planned.EmployeeID = created.ID
		if _, err := s.shipmentRepo.Create(txCtx, planned); err != nil {
			return fmt.Errorf("failed to create shipment: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "organization_id", created.OrganizationID, "shipment_year", planned.Year)
	s.notifyCreated(ctx, created, planned)

	return mapEmployeeToResponse(created, s.today(), planned.TriggerDate), nil
}

func (s *EmployeeServiceImpl) notifyCreated(ctx context.Context, emp employee.Employee, planned shipment.GiftShipment) {
	recipients, err := s.userRepo.ListByOrganization(ctx, emp.OrganizationID, user.RoleOwner, user.RoleHR)
	if err != nil {
		slog.Error("Failed to load notification recipients", "organization_id", emp.OrganizationID, "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, r := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			OrganizationID: emp.OrganizationID,
			RecipientID:    r.ID,
			Type:           notification.TypeEmployeeCreated,
			Title:          "Novo colaborador",
			Message:        fmt.Sprintf("%s foi cadastrado; presente previsto para %s", emp.FullName, planned.TriggerDate.Format(dateLayout)),
			Data: map[string]interface{}{
				"employee_id":  emp.ID,
				"trigger_date": planned.TriggerDate.Format(dateLayout),
			},
		})
	}
	if len(reqs) == 0 {
		return
	}
	if err := s.notifications.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("Failed to queue employee notification", "employee_id", emp.ID, "error", err)
	}
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	identity, err := authorize(ctx, user.PermissionEmployeeManage)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, identity.OrganizationID, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	email := req.Email
	if email != nil {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, identity.OrganizationID, *email, &current.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
	}

	birthDate := calendar.Date(req.BirthDateParsed)
	address := req.Address.ToAddress(current.ID)
	current.FullName = strings.TrimSpace(req.FullName)
	current.Role = strings.TrimSpace(req.Role)
	current.Department = strings.TrimSpace(req.Department)
	current.Email = email
	current.Address = &address

	var retimed []shipment.GiftShipment
	if !birthDate.Equal(calendar.Date(current.BirthDate)) {
		current.BirthDate = birthDate
		retimed, err = s.retimeOpenShipments(ctx, current)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	var updated employee.Employee
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		updated, err = s.employeeRepo.Update(txCtx, current)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		for _, sh := range retimed {
			if _, err := s.shipmentRepo.Update(txCtx, sh, sh.Status); err != nil {
				return fmt.Errorf("failed to reschedule shipment %s: %w", sh.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if len(retimed) > 0 {
		slog.Info("Rescheduled shipments after birth date change", "employee_id", updated.ID, "count", len(retimed))
	}
	return s.respond(ctx, updated)
}

// retimeOpenShipments moves the dates of shipments not yet sent to the new birth date
func (s *EmployeeServiceImpl) retimeOpenShipments(ctx context.Context, emp employee.Employee) ([]shipment.GiftShipment, error) {
	open, err := s.shipmentRepo.ListOpenByEmployee(ctx, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open shipments: %w", err)
	}

	var retimed []shipment.GiftShipment
	for _, sh := range open {
		if sh.Status != shipment.StatusPending && sh.Status != shipment.StatusReadyToShip {
			continue
		}
		planned, err := s.planner.Plan(ctx, emp, sh.Year)
		if err != nil {
			return nil, fmt.Errorf("failed to plan shipment: %w", err)
		}
		sh.BirthdayDate = planned.BirthdayDate
		sh.TriggerDate = planned.TriggerDate
		retimed = append(retimed, sh)
	}
	return retimed, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	identity, err := authorize(ctx, user.PermissionEmployeeManage)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return employee.ErrEmployeeNotFound
	}

	cancelled := 0
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		if err := s.employeeRepo.Deactivate(txCtx, identity.OrganizationID, id); err != nil {
			return err
		}

		open, err := s.shipmentRepo.ListOpenByEmployee(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to load open shipments: %w", err)
		}
		for _, sh := range open {
			// gifts already on the way are left for the carrier
			from := sh.Status
			if from != shipment.StatusPending && from != shipment.StatusReadyToShip {
				continue
			}
			if err := sh.TransitionTo(shipment.StatusCancelled, s.now()); err != nil {
				return err
			}
			sh.AppendNote("Cancelado: colaborador desativado")
			if _, err := s.shipmentRepo.Update(txCtx, sh, from); err != nil {
				return fmt.Errorf("failed to cancel shipment %s: %w", sh.ID, err)
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Employee deactivated", "employee_id", id, "cancelled_shipments", cancelled)
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	identity, err := authorize(ctx, user.PermissionEmployeeView)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, identity.OrganizationID, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses, err := s.respondMany(ctx, identity.OrganizationID, employees)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}

// UpcomingBirthdays implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpcomingBirthdays(ctx context.Context, req employee.UpcomingBirthdaysRequest) ([]employee.UpcomingBirthdayResponse, error) {
	identity, err := authorize(ctx, user.PermissionEmployeeView)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	active, err := s.employeeRepo.GetActiveByOrganizationID(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	var within []employee.Employee
	for _, emp := range active {
		if calendar.DaysUntil(today, calendar.NextBirthday(emp.BirthDate, today)) <= req.Days {
			within = append(within, emp)
		}
	}

	responses, err := s.respondMany(ctx, identity.OrganizationID, within)
	if err != nil {
		return nil, err
	}

	upcoming := make([]employee.UpcomingBirthdayResponse, 0, len(responses))
	for _, r := range responses {
		upcoming = append(upcoming, employee.UpcomingBirthdayResponse{
			EmployeeID:  r.ID,
			FullName:    r.FullName,
			Department:  r.Department,
			Role:        r.Role,
			Birthday:    r.NextBirthday,
			DaysUntil:   r.DaysUntilBirthday,
			TurningAge:  r.TurningAge,
			TriggerDate: r.TriggerDate,
		})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].DaysUntil != upcoming[j].DaysUntil {
			return upcoming[i].DaysUntil < upcoming[j].DaysUntil
		}
		return upcoming[i].FullName < upcoming[j].FullName
	})
	return upcoming, nil
}
