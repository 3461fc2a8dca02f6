package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout      = "2006-01-02"
	upcomingDays    = 30
	dueWindowDays   = 7
	dueSoonMaxItems = 10
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	employeeService     employee.EmployeeService
	notificationService notification.Service
	loc                 *time.Location
	now                 func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	employeeService employee.EmployeeService,
	notificationService notification.Service,
	loc *time.Location,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		employeeService:     employeeService,
		notificationService: notificationService,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines,
// one query (or service call) each
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	now := s.now().In(s.loc)
	today := calendar.Date(now)

	var (
		employeeSummary dashboard.EmployeeSummaryResponse
		shipmentSummary = dashboard.ShipmentSummaryResponse{Year: today.Year()}
		upcoming        []employee.UpcomingBirthdayResponse
		dueSoon         = []dashboard.DueShipmentItem{}
		unread          int
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee counts
	g.Go(func() error {
		stats, err := s.GetEmployeeStats(gCtx, identity.OrganizationID, today)
		if err != nil {
			return err
		}
		employeeSummary = dashboard.EmployeeSummaryResponse{
			ActiveEmployees:     stats.Active,
			InactiveEmployees:   stats.Inactive,
			BirthdaysThisMonth:  stats.BirthdaysThisMonth,
			NewEmployeesLast30d: stats.NewLast30Days,
		}
		return nil
	})

	// 2. Current year shipments by status
	g.Go(func() error {
		counts, err := s.GetShipmentStatusCounts(gCtx, identity.OrganizationID, today.Year())
		if err != nil {
			return err
		}
		for _, c := range counts {
			switch shipment.Status(c.Status) {
			case shipment.StatusPending:
				shipmentSummary.Pending = c.Count
			case shipment.StatusReadyToShip:
				shipmentSummary.ReadyToShip = c.Count
			case shipment.StatusShipped:
				shipmentSummary.Shipped = c.Count
			case shipment.StatusDelivered:
				shipmentSummary.Delivered = c.Count
			case shipment.StatusCancelled:
				shipmentSummary.Cancelled = c.Count
			}
		}
		return nil
	})

	// 3. Upcoming birthdays
	g.Go(func() error {
		list, err := s.employeeService.UpcomingBirthdays(gCtx, employee.UpcomingBirthdaysRequest{Days: upcomingDays})
		if err != nil {
			return err
		}
		upcoming = list
		return nil
	})

	// 4. Shipments due in the next week
	g.Go(func() error {
		due, err := s.GetDueShipments(gCtx, identity.OrganizationID, today.AddDate(0, 0, dueWindowDays), dueSoonMaxItems)
		if err != nil {
			return err
		}
		for _, d := range due {
			dueSoon = append(dueSoon, dashboard.DueShipmentItem{
				ShipmentID:   d.ShipmentID,
				EmployeeName: d.EmployeeName,
				Status:       d.Status,
				TriggerDate:  d.TriggerDate.Format(dateLayout),
				BirthdayDate: d.BirthdayDate.Format(dateLayout),
			})
		}
		return nil
	})

	// 5. Unread notifications of the caller
	g.Go(func() error {
		count, err := s.notificationService.GetUnreadCount(gCtx, identity.UserID)
		if err != nil {
			return err
		}
		unread = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	if upcoming == nil {
		upcoming = []employee.UpcomingBirthdayResponse{}
	}
	return dashboard.DashboardResponse{
		EmployeeSummary:    employeeSummary,
		ShipmentSummary:    shipmentSummary,
		UpcomingBirthdays:  upcoming,
		DueSoon:            dueSoon,
		UnreadNotification: unread,
		GeneratedAt:        now.Format(time.RFC3339),
	}, nil
}
