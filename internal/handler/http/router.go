package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// Handlers groups every HTTP handler mounted by the router
type Handlers struct {
	Auth         AuthHandler
	Organization OrganizationHandler
	Invitation   InvitationHandler
	Employee     EmployeeHandler
	CEP          CEPHandler
	Shipment     ShipmentHandler
	Gift         GiftHandler
	Holiday      HolidayHandler
	Notification NotificationHandler
	Report       ReportHandler
	Dashboard    DashboardHandler
}

func NewRouter(cfg config.AppConfig, logger *slog.Logger, jwtService jwt.Service, loginLimiter *middleware.RateLimiter, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
		// health checks are noise
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/" && respStatus == http.StatusOK
		},
	}))

	r.Use(middleware.SecureHeaders)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived stream, outside the request timeout
		r.Group(func(r chi.Router) {
			r.Use(middleware.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))
			r.Get("/notifications/stream", h.Notification.Stream)
		})

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(30 * time.Second))
			mountAPI(r, jwtService, loginLimiter, h)
		})
	})

	return r
}

func mountAPI(r chi.Router, jwtService jwt.Service, loginLimiter *middleware.RateLimiter, h Handlers) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/refresh", h.Auth.RefreshToken)
		r.Post("/logout", h.Auth.Logout)
		r.With(loginLimiter.Handler).Post("/login", h.Auth.Login)
		r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
		r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)
		r.With(middleware.Verifier(jwtService.JWTAuth()), middleware.AuthRequired(jwtService)).Get("/me", h.Auth.Me)
	})

	// Public invitation endpoints
	r.Route("/invitations/{token}", func(r chi.Router) {
		r.Get("/", h.Invitation.GetInvitationByToken)
		r.With(loginLimiter.Handler).Post("/accept", h.Invitation.AcceptInvitation)
	})

	// Requires authentication
	r.Group(func(r chi.Router) {
		r.Use(middleware.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService))

		r.Get("/dashboard", h.Dashboard.GetDashboard)
		r.Get("/cep/{cep}", h.CEP.Lookup)

		r.Route("/organization", func(r chi.Router) {
			r.Get("/", h.Organization.Get)
			r.Get("/members", h.Organization.ListMembers)
			r.With(middleware.RequireOwner).Put("/", h.Organization.Update)

			r.Route("/invitations", func(r chi.Router) {
				r.Use(middleware.RequireOwner)
				r.Get("/", h.Invitation.ListPending)
				r.Post("/", h.Invitation.Create)
				r.Delete("/{id}", h.Invitation.Revoke)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
			r.Get("/", h.Employee.ListEmployees)
			r.Get("/upcoming-birthdays", h.Employee.UpcomingBirthdays)
			r.Get("/{id}", h.Employee.GetEmployee)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
				r.Post("/", h.Employee.CreateEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
				r.Delete("/{id}", h.Employee.DeleteEmployee)
			})
		})

		r.Route("/shipments", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionShipmentView))
			r.Get("/", h.Shipment.List)
			r.Get("/{id}", h.Shipment.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionShipmentManage))
				r.Post("/generate", h.Shipment.Generate)
				r.Post("/process", h.Shipment.ProcessDue)
				r.Put("/{id}", h.Shipment.Update)
				r.Post("/{id}/ready", h.Shipment.MarkReady)
				r.Post("/{id}/ship", h.Shipment.MarkShipped)
				r.Post("/{id}/deliver", h.Shipment.MarkDelivered)
				r.Post("/{id}/cancel", h.Shipment.Cancel)
			})
		})

		r.Route("/gifts", func(r chi.Router) {
			r.Get("/", h.Gift.List)
			r.Get("/{id}", h.Gift.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionGiftManage))
				r.Post("/", h.Gift.Create)
				r.Put("/{id}", h.Gift.Update)
				r.Delete("/{id}", h.Gift.Delete)
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.Holiday.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
				r.Post("/", h.Holiday.Create)
				r.Delete("/{id}", h.Holiday.Delete)
			})
		})

		r.Get("/calendar/trigger-date", h.Holiday.TriggerDate)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Get("/unread-count", h.Notification.UnreadCount)
			r.Post("/read", h.Notification.MarkAsRead)
			r.Post("/read-all", h.Notification.MarkAllAsRead)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionReportsView))
			r.Get("/shipments", h.Report.ShipmentSummary)
			r.Get("/shipments/export", h.Report.ExportShipments)
		})
	})
}

// NewLogger builds the JSON request logger in the ECS schema
func NewLogger(cfg config.AppConfig, version string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(cfg.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gifting-backend"),
		slog.String("version", version),
		slog.String("env", cfg.Env),
	)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
