package employee

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt/jwttest"
	shipmentservice "github.com/cmlabs-hris/gifting-backend-go/internal/service/shipment"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const org = "org-1"

func date(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func uuidN(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
	next int
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, organizationID string, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok || e.OrganizationID != organizationID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	f.next++
	e.ID = uuidN(f.next)
	e.IsActive = true
	if e.Address != nil {
		e.Address.EmployeeID = e.ID
	}
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepo) Deactivate(ctx context.Context, organizationID string, id string) error {
	e, ok := f.byID[id]
	if !ok || e.OrganizationID != organizationID {
		return employee.ErrEmployeeNotFound
	}
	if !e.IsActive {
		return employee.ErrEmployeeAlreadyInactive
	}
	e.IsActive = false
	f.byID[id] = e
	return nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context, organizationID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	var out []employee.Employee
	for i := 0; i <= f.next; i++ {
		if e, ok := f.byID[uuidN(i)]; ok && e.OrganizationID == organizationID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeEmployeeRepo) GetActiveByOrganizationID(ctx context.Context, organizationID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for i := 0; i <= f.next; i++ {
		if e, ok := f.byID[uuidN(i)]; ok && e.OrganizationID == organizationID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ExistsByEmail(ctx context.Context, organizationID string, email string, excludeID *string) (bool, error) {
	for id, e := range f.byID {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if e.OrganizationID == organizationID && e.Email != nil && *e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeShipmentRepo struct {
	shipment.ShipmentRepository
	byID map[string]shipment.GiftShipment
	next int
}

func (f *fakeShipmentRepo) Create(ctx context.Context, s shipment.GiftShipment) (shipment.GiftShipment, error) {
	f.next++
	s.ID = uuidN(500 + f.next)
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeShipmentRepo) Update(ctx context.Context, s shipment.GiftShipment, expected shipment.Status) (shipment.GiftShipment, error) {
	if stored, ok := f.byID[s.ID]; !ok || stored.Status != expected {
		return shipment.GiftShipment{}, shipment.ErrShipmentChanged
	}
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeShipmentRepo) ListOpenByEmployee(ctx context.Context, employeeID string) ([]shipment.GiftShipment, error) {
	var out []shipment.GiftShipment
	for _, s := range f.byID {
		if s.EmployeeID == employeeID && s.IsOpen() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) forEmployee(employeeID string) []shipment.GiftShipment {
	var out []shipment.GiftShipment
	for _, s := range f.byID {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out
}

type fakeUserRepo struct {
	user.UserRepository
}

func (fakeUserRepo) ListByOrganization(ctx context.Context, organizationID string, roles ...user.Role) ([]user.User, error) {
	return []user.User{{ID: "u-owner", OrganizationID: organizationID, Role: user.RoleOwner}}, nil
}

type fakeNotifications struct {
	notification.Service
	queued []notification.CreateNotificationRequest
}

func (f *fakeNotifications) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	f.queued = append(f.queued, reqs...)
	return nil
}

type staticCalendars struct{}

func (staticCalendars) CalendarFor(ctx context.Context, organizationID string, from, to time.Time) (*calendar.Calendar, error) {
	return calendar.New(), nil
}

type fixture struct {
	mock      pgxmock.PgxPoolIface
	svc       *EmployeeServiceImpl
	employees *fakeEmployeeRepo
	shipments *fakeShipmentRepo
	notes     *fakeNotifications
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	f := fixture{
		mock:      mock,
		employees: &fakeEmployeeRepo{byID: make(map[string]employee.Employee)},
		shipments: &fakeShipmentRepo{byID: make(map[string]shipment.GiftShipment)},
		notes:     &fakeNotifications{},
	}
	planner := shipmentservice.NewPlanner(staticCalendars{}, 7)
	svc := NewEmployeeService(database.New(mock), f.employees, f.shipments, fakeUserRepo{}, planner, f.notes, time.UTC)
	f.svc = svc.(*EmployeeServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return f
}

func hrCtx(t *testing.T) context.Context {
	return jwttest.Context(t, context.Background(), "u-hr", org, user.RoleHR)
}

func createRequest(name, birth string, email *string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FullName:   name,
		BirthDate:  birth,
		Role:       "Analista",
		Department: "TI",
		Email:      email,
		Address: &employee.AddressRequest{
			CEP:          "01310-100",
			Street:       "Avenida Paulista",
			Number:       "1000",
			Neighborhood: "Bela Vista",
			City:         "São Paulo",
			State:        "sp",
		},
	}
}

func TestCreateEmployee_CreatesNextBirthdayShipment(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	email := " Joao@Acme.com "
	resp, err := f.svc.CreateEmployee(hrCtx(t), createRequest("João Silva", "1990-03-10", &email))
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	// March has passed on 2025-06-01, so the cycle is 2026
	assert.Equal(t, "2026-03-10", resp.NextBirthday)
	assert.Equal(t, 36, resp.TurningAge)
	assert.Equal(t, 282, resp.DaysUntilBirthday)
	require.NotNil(t, resp.Email)
	assert.Equal(t, "joao@acme.com", *resp.Email)
	require.NotNil(t, resp.Address)
	assert.Equal(t, "01310100", resp.Address.CEP)
	assert.Equal(t, "SP", resp.Address.State)

	shipments := f.shipments.forEmployee(resp.ID)
	require.Len(t, shipments, 1)
	assert.Equal(t, 2026, shipments[0].Year)
	assert.Equal(t, shipment.StatusPending, shipments[0].Status)
	assert.Equal(t, date("2026-03-10"), shipments[0].BirthdayDate)
	assert.Equal(t, resp.TriggerDate, shipments[0].TriggerDate.Format(dateLayout))

	require.Len(t, f.notes.queued, 1)
	assert.Equal(t, notification.TypeEmployeeCreated, f.notes.queued[0].Type)
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	taken := "ana@acme.com"
	f.employees.byID[uuidN(1)] = employee.Employee{ID: uuidN(1), OrganizationID: org, Email: &taken, IsActive: true}

	email := "ANA@acme.com"
	_, err := f.svc.CreateEmployee(hrCtx(t), createRequest("Ana", "1990-03-10", &email))
	assert.ErrorIs(t, err, employee.ErrEmailExists)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateEmployee_Forbidden(t *testing.T) {
	f := newFixture(t)
	viewer := jwttest.Context(t, context.Background(), "u-v", org, user.RoleViewer)

	_, err := f.svc.CreateEmployee(viewer, createRequest("Ana", "1990-03-10", nil))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestUpdateEmployee_ReschedulesOpenShipment(t *testing.T) {
	f := newFixture(t)
	f.employees.byID[uuidN(1)] = employee.Employee{ID: uuidN(1), OrganizationID: org, FullName: "Ana", BirthDate: date("1990-12-25"), IsActive: true}
	f.employees.next = 1
	f.shipments.byID[uuidN(900)] = shipment.GiftShipment{
		ID: uuidN(900), OrganizationID: org, EmployeeID: uuidN(1), Year: 2025,
		Status: shipment.StatusPending, BirthdayDate: date("2025-12-25"), TriggerDate: date("2025-12-15"),
	}
	f.shipments.byID[uuidN(901)] = shipment.GiftShipment{
		ID: uuidN(901), OrganizationID: org, EmployeeID: uuidN(1), Year: 2024,
		Status: shipment.StatusDelivered, BirthdayDate: date("2024-12-25"), TriggerDate: date("2024-12-16"),
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := createRequest("Ana Maria", "1990-07-10", nil)
	resp, err := f.svc.UpdateEmployee(hrCtx(t), employee.UpdateEmployeeRequest{
		ID: uuidN(1), FullName: req.FullName, BirthDate: req.BirthDate, Role: req.Role, Department: req.Department, Address: req.Address,
	})
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Equal(t, "Ana Maria", resp.FullName)
	assert.Equal(t, "2025-07-10", resp.NextBirthday)

	open := f.shipments.byID[uuidN(900)]
	assert.Equal(t, date("2025-07-10"), open.BirthdayDate)
	assert.Equal(t, date("2025-07-01"), open.TriggerDate)
	assert.Equal(t, date("2024-12-25"), f.shipments.byID[uuidN(901)].BirthdayDate, "delivered shipments keep their dates")
}

func TestDeleteEmployee_CancelsOpenShipments(t *testing.T) {
	f := newFixture(t)
	f.employees.byID[uuidN(1)] = employee.Employee{ID: uuidN(1), OrganizationID: org, FullName: "Ana", BirthDate: date("1990-12-25"), IsActive: true}
	f.shipments.byID[uuidN(900)] = shipment.GiftShipment{
		ID: uuidN(900), OrganizationID: org, EmployeeID: uuidN(1), Year: 2025, Status: shipment.StatusReadyToShip,
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.svc.DeleteEmployee(hrCtx(t), uuidN(1)))
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.False(t, f.employees.byID[uuidN(1)].IsActive)
	cancelled := f.shipments.byID[uuidN(900)]
	assert.Equal(t, shipment.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "Cancelado: colaborador desativado", *cancelled.Notes)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	assert.ErrorIs(t, f.svc.DeleteEmployee(hrCtx(t), uuidN(1)), employee.ErrEmployeeAlreadyInactive)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDeleteEmployee_LeavesShippedGiftAlone(t *testing.T) {
	f := newFixture(t)
	sent := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)
	f.employees.byID[uuidN(1)] = employee.Employee{ID: uuidN(1), OrganizationID: org, FullName: "Ana", BirthDate: date("1990-12-25"), IsActive: true}
	f.shipments.byID[uuidN(900)] = shipment.GiftShipment{
		ID: uuidN(900), OrganizationID: org, EmployeeID: uuidN(1), Year: 2025, Status: shipment.StatusShipped, SentAt: &sent,
	}
	f.shipments.byID[uuidN(901)] = shipment.GiftShipment{
		ID: uuidN(901), OrganizationID: org, EmployeeID: uuidN(1), Year: 2026, Status: shipment.StatusPending,
	}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.svc.DeleteEmployee(hrCtx(t), uuidN(1)))
	require.NoError(t, f.mock.ExpectationsWereMet())

	shipped := f.shipments.byID[uuidN(900)]
	assert.Equal(t, shipment.StatusShipped, shipped.Status)
	assert.Nil(t, shipped.CancelledAt)
	assert.Nil(t, shipped.Notes)
	assert.Equal(t, shipment.StatusCancelled, f.shipments.byID[uuidN(901)].Status)
}

func TestListEmployees_Showing(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 3; i++ {
		f.employees.byID[uuidN(i)] = employee.Employee{ID: uuidN(i), OrganizationID: org, FullName: fmt.Sprintf("E%d", i), BirthDate: date("1990-06-0" + fmt.Sprint(i)), IsActive: true}
	}
	f.employees.next = 3

	resp, err := f.svc.ListEmployees(hrCtx(t), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, "1-3 of 3", resp.Showing)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 0, resp.Employees[0].DaysUntilBirthday)
	assert.Equal(t, "2025-05-22", resp.Employees[0].TriggerDate)
}

func TestUpcomingBirthdays(t *testing.T) {
	f := newFixture(t)
	f.employees.byID[uuidN(1)] = employee.Employee{ID: uuidN(1), OrganizationID: org, FullName: "Later", BirthDate: date("1990-06-20"), IsActive: true}
	f.employees.byID[uuidN(2)] = employee.Employee{ID: uuidN(2), OrganizationID: org, FullName: "Today", BirthDate: date("1990-06-01"), IsActive: true}
	f.employees.byID[uuidN(3)] = employee.Employee{ID: uuidN(3), OrganizationID: org, FullName: "Far", BirthDate: date("1990-09-01"), IsActive: true}
	f.employees.byID[uuidN(4)] = employee.Employee{ID: uuidN(4), OrganizationID: org, FullName: "Gone", BirthDate: date("1990-06-02"), IsActive: false}
	f.employees.next = 4

	got, err := f.svc.UpcomingBirthdays(hrCtx(t), employee.UpcomingBirthdaysRequest{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Today", got[0].FullName)
	assert.Equal(t, 0, got[0].DaysUntil)
	assert.Equal(t, 35, got[0].TurningAge)
	assert.Equal(t, "Later", got[1].FullName)
	assert.Equal(t, 19, got[1].DaysUntil)

	_, err = f.svc.UpcomingBirthdays(hrCtx(t), employee.UpcomingBirthdaysRequest{Days: 400})
	assert.Error(t, err)
}
