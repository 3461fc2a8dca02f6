// Package app wires repositories, services and background workers from config.
// Both the API server and giftctl build on it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cep"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/gifting-backend-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/gifting-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/gifting-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/gifting-backend-go/internal/service/employee"
	giftService "github.com/cmlabs-hris/gifting-backend-go/internal/service/gift"
	holidayService "github.com/cmlabs-hris/gifting-backend-go/internal/service/holiday"
	invitationService "github.com/cmlabs-hris/gifting-backend-go/internal/service/invitation"
	notificationService "github.com/cmlabs-hris/gifting-backend-go/internal/service/notification"
	organizationService "github.com/cmlabs-hris/gifting-backend-go/internal/service/organization"
	reportService "github.com/cmlabs-hris/gifting-backend-go/internal/service/report"
	shipmentService "github.com/cmlabs-hris/gifting-backend-go/internal/service/shipment"
)

// App holds every long-lived dependency of the process
type App struct {
	Config   *config.Config
	Location *time.Location

	DB    *database.DB
	Redis *cache.Redis
	Hub   *sse.Hub[notification.NotificationResponse]

	JWT    jwt.Service
	Google oauth.GoogleService
	CEP    *cep.Client

	Auth          auth.AuthService
	Organizations organization.OrganizationService
	Invitations   invitation.InvitationService
	Employees     employee.EmployeeService
	Shipments     *shipmentService.ShipmentServiceImpl
	Gifts         gift.GiftService
	Holidays      *holidayService.HolidayServiceImpl
	Notifications notification.Service
	Reports       report.ReportService
	Dashboard     dashboard.DashboardService

	Scheduler *cron.Scheduler
}

// New connects to PostgreSQL and Redis and builds the service graph.
// Redis being down is not fatal.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc := cfg.Location()

	baseOpts := []calendar.Option{}
	if cfg.Shipment.HolidaysFile != "" {
		opts, err := calendar.LoadFile(cfg.Shipment.HolidaysFile)
		if err != nil {
			return nil, err
		}
		baseOpts = opts
		slog.Info("Holiday file loaded", "path", cfg.Shipment.HolidaysFile)
	}
	baseCalendar := calendar.New(baseOpts...)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Location: loc,
		DB:       db,
		Redis:    cache.NewRedis(ctx, cfg.Redis),
		Hub:      sse.NewHub[notification.NotificationResponse](16),
		JWT:      jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production"),
		Google:   oauth.NewGoogleService(cfg.OAuth2Google),
	}
	a.CEP = cep.NewClient(cfg.CEP, a.Redis)

	userRepo := postgresql.NewUserRepository(db)
	organizationRepo := postgresql.NewOrganizationRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shipmentRepo := postgresql.NewShipmentRepository(db)
	giftRepo := postgresql.NewGiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	a.Notifications = notificationService.NewNotificationService(notificationRepo, a.Hub, notificationService.Config{})
	a.Holidays = holidayService.NewHolidayService(holidayRepo, shipmentRepo, baseCalendar, cfg.Shipment.LeadBusinessDays)
	planner := shipmentService.NewPlanner(a.Holidays, cfg.Shipment.LeadBusinessDays)

	a.Auth = authService.NewAuthService(db, userRepo, organizationRepo, giftRepo, a.JWT, jwtRepo)
	a.Organizations = organizationService.NewOrganizationService(organizationRepo, userRepo)
	a.Invitations = invitationService.NewInvitationService(db, invitationRepo, userRepo, organizationRepo, emailSvc, cfg.Invitation)
	a.Gifts = giftService.NewGiftService(giftRepo)
	a.Shipments = shipmentService.NewShipmentService(shipmentRepo, employeeRepo, giftRepo, userRepo, organizationRepo, planner, a.Notifications, emailSvc, loc)
	a.Employees = employeeService.NewEmployeeService(db, employeeRepo, shipmentRepo, userRepo, planner, a.Notifications, loc)
	a.Reports = reportService.NewReportService(reportRepo, loc)
	a.Dashboard = dashboardService.NewDashboardService(dashboardRepo, a.Employees, a.Notifications, loc)

	a.Scheduler = cron.NewScheduler()
	cron.NewShipmentJobs(a.Shipments, loc).RegisterJobs(a.Scheduler)
	cron.NewNotificationJobs(a.Notifications, cfg.Notification.Retention).RegisterJobs(a.Scheduler)

	return a, nil
}

// Close stops background workers and releases connections
func (a *App) Close() {
	a.Scheduler.Stop()
	a.Notifications.Stop()
	a.Hub.Close()
	a.Redis.Close()
	a.DB.Close()
}
