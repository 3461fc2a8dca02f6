package shipment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/email"
)

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

type fakeShipmentRepo struct {
	shipment.ShipmentRepository
	byID map[string]shipment.GiftShipment
	next int

	beforeReturnDue func(*fakeShipmentRepo)
}

func newFakeShipmentRepo(existing ...shipment.GiftShipment) *fakeShipmentRepo {
	r := &fakeShipmentRepo{byID: make(map[string]shipment.GiftShipment), next: 100}
	for _, s := range existing {
		r.byID[s.ID] = s
	}
	return r
}

func (f *fakeShipmentRepo) Create(ctx context.Context, s shipment.GiftShipment) (shipment.GiftShipment, error) {
	for _, existing := range f.byID {
		if existing.EmployeeID == s.EmployeeID && existing.Year == s.Year {
			return shipment.GiftShipment{}, shipment.ErrShipmentExists
		}
	}
	f.next++
	s.ID = uuidN(f.next)
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeShipmentRepo) CreateMissing(ctx context.Context, shipments []shipment.GiftShipment) (int, error) {
	created := 0
	for _, s := range shipments {
		if _, err := f.Create(ctx, s); err == nil {
			created++
		}
	}
	return created, nil
}

func (f *fakeShipmentRepo) GetByID(ctx context.Context, organizationID string, id string) (shipment.GiftShipment, error) {
	s, ok := f.byID[id]
	if !ok || s.OrganizationID != organizationID {
		return shipment.GiftShipment{}, shipment.ErrShipmentNotFound
	}
	return s, nil
}

func (f *fakeShipmentRepo) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (shipment.GiftShipment, error) {
	for _, s := range f.byID {
		if s.EmployeeID == employeeID && s.Year == year {
			return s, nil
		}
	}
	return shipment.GiftShipment{}, shipment.ErrShipmentNotFound
}

func (f *fakeShipmentRepo) Update(ctx context.Context, s shipment.GiftShipment, expected shipment.Status) (shipment.GiftShipment, error) {
	stored, ok := f.byID[s.ID]
	if !ok || stored.OrganizationID != s.OrganizationID || stored.Status != expected {
		return shipment.GiftShipment{}, shipment.ErrShipmentChanged
	}
	f.byID[s.ID] = s
	return s, nil
}

func (f *fakeShipmentRepo) ListDue(ctx context.Context, day time.Time, organizationID *string) ([]shipment.GiftShipment, error) {
	var out []shipment.GiftShipment
	for i := 0; i <= f.next; i++ {
		s, ok := f.byID[uuidN(i)]
		if !ok || (organizationID != nil && s.OrganizationID != *organizationID) {
			continue
		}
		if s.Status == shipment.StatusPending && !s.TriggerDate.After(day) && !s.BirthdayDate.Before(day) {
			out = append(out, s)
		}
	}
	if f.beforeReturnDue != nil {
		f.beforeReturnDue(f)
	}
	return out, nil
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

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, organizationID string, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id && e.OrganizationID == organizationID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByOrganizationID(ctx context.Context, organizationID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.OrganizationID == organizationID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeGiftRepo struct {
	gift.GiftRepository
	gifts []gift.Gift
}

func (f *fakeGiftRepo) GetByID(ctx context.Context, organizationID string, id string) (gift.Gift, error) {
	for _, g := range f.gifts {
		if g.ID == id && g.OrganizationID == organizationID {
			return g, nil
		}
	}
	return gift.Gift{}, gift.ErrGiftNotFound
}

type fakeUserRepo struct {
	user.UserRepository
	users []user.User
}

func (f *fakeUserRepo) ListByOrganization(ctx context.Context, organizationID string, roles ...user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.OrganizationID != organizationID {
			continue
		}
		if len(roles) == 0 {
			out = append(out, u)
			continue
		}
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

type fakeOrgRepo struct {
	organization.OrganizationRepository
	ids []string
}

func (f *fakeOrgRepo) ListIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

type staticCalendars struct {
	cal *calendar.Calendar
}

func (s staticCalendars) CalendarFor(ctx context.Context, organizationID string, from, to time.Time) (*calendar.Calendar, error) {
	return s.cal, nil
}

type fakeNotifications struct {
	notification.Service
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
}

func (f *fakeNotifications) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, req)
	return nil
}

func (f *fakeNotifications) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, reqs...)
	return nil
}

type sentDigest struct {
	to        string
	shipments []email.ReadyShipment
}

type fakeMailer struct {
	email.EmailService
	digests []sentDigest
}

func (f *fakeMailer) SendShipmentsReady(to, recipientName string, shipments []email.ReadyShipment) error {
	f.digests = append(f.digests, sentDigest{to: to, shipments: shipments})
	return nil
}
