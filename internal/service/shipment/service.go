package shipment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type ShipmentServiceImpl struct {
	shipment.ShipmentRepository
	employeeRepo     employee.EmployeeRepository
	giftRepo         gift.GiftRepository
	userRepo         user.UserRepository
	organizationRepo organization.OrganizationRepository
	planner          *Planner
	notifications    notification.Service
	mailer           email.EmailService
	loc              *time.Location
	now              func() time.Time
}

func NewShipmentService(
	shipmentRepository shipment.ShipmentRepository,
	employeeRepository employee.EmployeeRepository,
	giftRepository gift.GiftRepository,
	userRepository user.UserRepository,
	organizationRepository organization.OrganizationRepository,
	planner *Planner,
	notificationService notification.Service,
	mailer email.EmailService,
	loc *time.Location,
) *ShipmentServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &ShipmentServiceImpl{
		ShipmentRepository: shipmentRepository,
		employeeRepo:       employeeRepository,
		giftRepo:           giftRepository,
		userRepo:           userRepository,
		organizationRepo:   organizationRepository,
		planner:            planner,
		notifications:      notificationService,
		mailer:             mailer,
		loc:                loc,
		now:                time.Now,
	}
}

// Today is the current civil date in the configured timezone
func (s *ShipmentServiceImpl) Today() time.Time {
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

// List implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) List(ctx context.Context, filter shipment.ShipmentFilter) (shipment.ListShipmentResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentView)
	if err != nil {
		return shipment.ListShipmentResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return shipment.ListShipmentResponse{}, err
	}

	rows, total, err := s.ShipmentRepository.List(ctx, identity.OrganizationID, filter)
	if err != nil {
		return shipment.ListShipmentResponse{}, err
	}

	responses := make([]shipment.ShipmentResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, shipment.DetailToResponse(row))
	}

	return shipment.ListShipmentResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Shipments:  responses,
	}, nil
}

// Get implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) Get(ctx context.Context, id string) (shipment.ShipmentResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentView)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}

	found, err := s.load(ctx, identity.OrganizationID, id)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	return s.respond(ctx, found)
}

// Update implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) Update(ctx context.Context, req shipment.UpdateShipmentRequest) (shipment.ShipmentResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentManage)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shipment.ShipmentResponse{}, err
	}

	current, err := s.load(ctx, identity.OrganizationID, req.ID)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}

	if req.GiftID != nil {
		if current.Status != shipment.StatusPending && current.Status != shipment.StatusReadyToShip {
			return shipment.ShipmentResponse{}, shipment.ErrGiftLocked
		}
		if *req.GiftID == "" {
			current.GiftID = nil
		} else {
			g, err := s.giftRepo.GetByID(ctx, identity.OrganizationID, *req.GiftID)
			if errors.Is(err, gift.ErrGiftNotFound) {
				return shipment.ShipmentResponse{}, shipment.ErrGiftNotAvailable
			}
			if err != nil {
				return shipment.ShipmentResponse{}, err
			}
			if !g.IsActive {
				return shipment.ShipmentResponse{}, shipment.ErrGiftNotAvailable
			}
			current.GiftID = &g.ID
		}
	}
	if req.Notes != nil {
		notes := *req.Notes
		current.Notes = &notes
		if notes == "" {
			current.Notes = nil
		}
	}

	updated, err := s.ShipmentRepository.Update(ctx, current, current.Status)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	return s.respond(ctx, updated)
}

// Advance implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) Advance(ctx context.Context, id string, next shipment.Status) (shipment.ShipmentResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentManage)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	if !next.IsValid() {
		return shipment.ShipmentResponse{}, shipment.ErrInvalidStatus
	}

	current, err := s.load(ctx, identity.OrganizationID, id)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	return s.transition(ctx, current, next, "")
}

// Cancel implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) Cancel(ctx context.Context, req shipment.CancelShipmentRequest) (shipment.ShipmentResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentManage)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shipment.ShipmentResponse{}, err
	}

	current, err := s.load(ctx, identity.OrganizationID, req.ID)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}

	note := ""
	if req.Reason != "" {
		note = "Cancelado: " + req.Reason
	}
	return s.transition(ctx, current, shipment.StatusCancelled, note)
}

func (s *ShipmentServiceImpl) transition(ctx context.Context, current shipment.GiftShipment, next shipment.Status, note string) (shipment.ShipmentResponse, error) {
	from := current.Status
	if err := current.TransitionTo(next, s.now()); err != nil {
		return shipment.ShipmentResponse{}, err
	}
	current.AppendNote(note)

	updated, err := s.ShipmentRepository.Update(ctx, current, from)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}

	resp, err := s.respond(ctx, updated)
	if err != nil {
		return shipment.ShipmentResponse{}, err
	}
	s.notifyTransition(ctx, updated.OrganizationID, resp)
	return resp, nil
}

// GenerateYear implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) GenerateYear(ctx context.Context, req shipment.GenerateYearRequest) (shipment.GenerateYearResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentManage)
	if err != nil {
		return shipment.GenerateYearResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shipment.GenerateYearResponse{}, err
	}

	created, err := s.generateForOrganization(ctx, identity.OrganizationID, req.Year)
	if err != nil {
		return shipment.GenerateYearResponse{}, err
	}
	return shipment.GenerateYearResponse{Year: req.Year, Created: created}, nil
}

// GenerateYearForAll implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) GenerateYearForAll(ctx context.Context, year int) (int, error) {
	if !validator.IsValidYear(year) {
		return 0, validator.ValidationErrors{{Field: "year", Message: "year must be between 1900 and 2200"}}
	}

	ids, err := s.organizationRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	var errs []error
	for _, orgID := range ids {
		created, err := s.generateForOrganization(ctx, orgID, year)
		if err != nil {
			slog.Error("Failed to generate shipments", "organization_id", orgID, "year", year, "error", err)
			errs = append(errs, fmt.Errorf("organization %s: %w", orgID, err))
			continue
		}
		total += created
	}
	return total, errors.Join(errs...)
}

func (s *ShipmentServiceImpl) generateForOrganization(ctx context.Context, organizationID string, year int) (int, error) {
	active, err := s.employeeRepo.GetActiveByOrganizationID(ctx, organizationID)
	if err != nil {
		return 0, err
	}

	// birthdays already behind us get their shipment in the following year
	today := s.Today()
	employees := make([]employee.Employee, 0, len(active))
	for _, emp := range active {
		if !calendar.BirthdayInYear(emp.BirthDate, year).Before(today) {
			employees = append(employees, emp)
		}
	}

	planned, err := s.planner.PlanYear(ctx, organizationID, employees, year)
	if err != nil {
		return 0, err
	}

	created, err := s.ShipmentRepository.CreateMissing(ctx, planned)
	if err != nil {
		return 0, err
	}

	if created > 0 {
		slog.Info("Generated shipments", "organization_id", organizationID, "year", year, "created", created)
		s.notifyManagers(ctx, organizationID, notification.TypeYearGenerated,
			"Envios gerados",
			fmt.Sprintf("%d envio(s) de presente criado(s) para %d", created, year),
			map[string]interface{}{"year": year, "created": created},
		)
	}
	return created, nil
}

// ProcessDue implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) ProcessDue(ctx context.Context, day time.Time) (shipment.ProcessDueResponse, error) {
	identity, err := authorize(ctx, user.PermissionShipmentManage)
	if err != nil {
		return shipment.ProcessDueResponse{}, err
	}
	return s.processDue(ctx, day, &identity.OrganizationID)
}

// ProcessDueForAll implements shipment.ShipmentService.
func (s *ShipmentServiceImpl) ProcessDueForAll(ctx context.Context, day time.Time) (shipment.ProcessDueResponse, error) {
	return s.processDue(ctx, day, nil)
}

func (s *ShipmentServiceImpl) processDue(ctx context.Context, day time.Time, organizationID *string) (shipment.ProcessDueResponse, error) {
	day = calendar.Date(day)
	resp := shipment.ProcessDueResponse{Date: day.Format(dateLayout), ShipmentIDs: []string{}}

	due, err := s.ShipmentRepository.ListDue(ctx, day, organizationID)
	if err != nil {
		return resp, err
	}

	ready := make(map[string][]shipment.ShipmentResponse)
	var order []string
	var errs []error
	for _, sh := range due {
		if !sh.IsDue(day) {
			continue
		}
		if err := sh.TransitionTo(shipment.StatusReadyToShip, s.now()); err != nil {
			errs = append(errs, err)
			continue
		}
		updated, err := s.ShipmentRepository.Update(ctx, sh, shipment.StatusPending)
		if errors.Is(err, shipment.ErrShipmentChanged) {
			// another run or a user got there first
			slog.Debug("Skipping shipment changed meanwhile", "shipment_id", sh.ID)
			continue
		}
		if err != nil {
			slog.Error("Failed to mark shipment ready", "shipment_id", sh.ID, "error", err)
			errs = append(errs, fmt.Errorf("shipment %s: %w", sh.ID, err))
			continue
		}

		r, err := s.respond(ctx, updated)
		if err != nil {
			r = shipment.ToResponse(updated)
		}
		if _, seen := ready[updated.OrganizationID]; !seen {
			order = append(order, updated.OrganizationID)
		}
		ready[updated.OrganizationID] = append(ready[updated.OrganizationID], r)
		resp.ShipmentIDs = append(resp.ShipmentIDs, updated.ID)
	}
	resp.Processed = len(resp.ShipmentIDs)

	for _, orgID := range order {
		s.announceReady(ctx, orgID, ready[orgID])
	}
	if resp.Processed > 0 {
		slog.Info("Processed due shipments", "date", resp.Date, "processed", resp.Processed)
	}
	return resp, errors.Join(errs...)
}

// announceReady notifies owners and HR of an organization about shipments that
// became ready and mails them a digest
func (s *ShipmentServiceImpl) announceReady(ctx context.Context, organizationID string, shipments []shipment.ShipmentResponse) {
	recipients, err := s.userRepo.ListByOrganization(ctx, organizationID, user.RoleOwner, user.RoleHR)
	if err != nil {
		slog.Error("Failed to load notification recipients", "organization_id", organizationID, "error", err)
		return
	}

	var reqs []notification.CreateNotificationRequest
	digest := make([]email.ReadyShipment, 0, len(shipments))
	for _, sh := range shipments {
		digest = append(digest, email.ReadyShipment{
			EmployeeName: sh.EmployeeName,
			Department:   sh.Department,
			Birthday:     sh.BirthdayDate,
			TriggerDate:  sh.TriggerDate,
		})
		for _, r := range recipients {
			reqs = append(reqs, transitionNotification(organizationID, r.ID, sh))
		}
	}
	if len(reqs) > 0 {
		if err := s.notifications.QueueBulkNotification(ctx, reqs); err != nil {
			slog.Error("Failed to queue ready notifications", "organization_id", organizationID, "error", err)
		}
	}

	if s.mailer == nil {
		return
	}
	for _, r := range recipients {
		if err := s.mailer.SendShipmentsReady(r.Email, r.Name, digest); err != nil {
			slog.Error("Failed to send ready digest", "to", r.Email, "error", err)
		}
	}
}

func (s *ShipmentServiceImpl) notifyTransition(ctx context.Context, organizationID string, sh shipment.ShipmentResponse) {
	recipients, err := s.userRepo.ListByOrganization(ctx, organizationID, user.RoleOwner, user.RoleHR)
	if err != nil {
		slog.Error("Failed to load notification recipients", "organization_id", organizationID, "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, r := range recipients {
		reqs = append(reqs, transitionNotification(organizationID, r.ID, sh))
	}
	if len(reqs) == 0 {
		return
	}
	if err := s.notifications.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("Failed to queue shipment notification", "shipment_id", sh.ID, "error", err)
	}
}

func (s *ShipmentServiceImpl) notifyManagers(ctx context.Context, organizationID string, typ notification.NotificationType, title, message string, data map[string]interface{}) {
	recipients, err := s.userRepo.ListByOrganization(ctx, organizationID, user.RoleOwner, user.RoleHR)
	if err != nil {
		slog.Error("Failed to load notification recipients", "organization_id", organizationID, "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(recipients))
	for _, r := range recipients {
		reqs = append(reqs, notification.CreateNotificationRequest{
			OrganizationID: organizationID,
			RecipientID:    r.ID,
			Type:           typ,
			Title:          title,
			Message:        message,
			Data:           data,
		})
	}
	if len(reqs) == 0 {
		return
	}
	if err := s.notifications.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("Failed to queue notification", "type", typ, "error", err)
	}
}

func transitionNotification(organizationID, recipientID string, sh shipment.ShipmentResponse) notification.CreateNotificationRequest {
	name := sh.EmployeeName
	if name == "" {
		name = "colaborador"
	}

	req := notification.CreateNotificationRequest{
		OrganizationID: organizationID,
		RecipientID:    recipientID,
		Data: map[string]interface{}{
			"shipment_id": sh.ID,
			"employee_id": sh.EmployeeID,
			"year":        sh.Year,
		},
	}
	switch sh.Status {
	case shipment.StatusReadyToShip:
		req.Type = notification.TypeShipmentReady
		req.Title = "Presente pronto para envio"
		req.Message = fmt.Sprintf("O presente de %s (aniversário em %s) está pronto para envio", name, sh.BirthdayDate)
	case shipment.StatusShipped:
		req.Type = notification.TypeShipmentShipped
		req.Title = "Presente enviado"
		req.Message = fmt.Sprintf("O presente de %s foi enviado", name)
	case shipment.StatusDelivered:
		req.Type = notification.TypeShipmentDelivered
		req.Title = "Presente entregue"
		req.Message = fmt.Sprintf("O presente de %s foi entregue", name)
	default:
		req.Type = notification.TypeShipmentCancelled
		req.Title = "Envio cancelado"
		req.Message = fmt.Sprintf("O envio do presente de %s foi cancelado", name)
	}
	return req
}

func (s *ShipmentServiceImpl) load(ctx context.Context, organizationID, id string) (shipment.GiftShipment, error) {
	if !validator.IsValidUUID(id) {
		return shipment.GiftShipment{}, shipment.ErrShipmentNotFound
	}
	return s.ShipmentRepository.GetByID(ctx, organizationID, id)
}

// respond enriches a shipment with its employee and gift
func (s *ShipmentServiceImpl) respond(ctx context.Context, sh shipment.GiftShipment) (shipment.ShipmentResponse, error) {
	detail := shipment.ShipmentDetail{GiftShipment: sh}

	emp, err := s.employeeRepo.GetByID(ctx, sh.OrganizationID, sh.EmployeeID)
	if err != nil {
		return shipment.ShipmentResponse{}, fmt.Errorf("failed to load shipment employee: %w", err)
	}
	detail.EmployeeName = emp.FullName
	detail.EmployeeDepartment = emp.Department
	detail.EmployeeRole = emp.Role
	detail.EmployeeBirthDate = emp.BirthDate

	if sh.GiftID != nil {
		g, err := s.giftRepo.GetByID(ctx, sh.OrganizationID, *sh.GiftID)
		if err != nil && !errors.Is(err, gift.ErrGiftNotFound) {
			return shipment.ShipmentResponse{}, fmt.Errorf("failed to load shipment gift: %w", err)
		}
		if err == nil {
			detail.GiftName = &g.Name
			detail.GiftPrice = &g.Price
		}
	}
	return shipment.DetailToResponse(detail), nil
}
