package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/gifting-backend-go/internal/app"
	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/gifting-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/middleware"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App, version)
	slog.SetDefault(logger)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handlers := appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(a.JWT, a.Auth, a.Google, cfg.App.FrontendURL),
		Organization: appHTTP.NewOrganizationHandler(a.Organizations),
		Invitation:   appHTTP.NewInvitationHandler(a.Invitations),
		Employee:     appHTTP.NewEmployeeHandler(a.Employees),
		CEP:          appHTTP.NewCEPHandler(a.CEP),
		Shipment:     appHTTP.NewShipmentHandler(a.Shipments, a.Location),
		Gift:         appHTTP.NewGiftHandler(a.Gifts),
		Holiday:      appHTTP.NewHolidayHandler(a.Holidays, a.Location),
		Notification: appHTTP.NewNotificationHandler(a.Notifications),
		Report:       appHTTP.NewReportHandler(a.Reports, a.Location),
		Dashboard:    appHTTP.NewDashboardHandler(a.Dashboard),
	}

	var counter middleware.Counter
	if err := a.Redis.Ping(ctx); err == nil {
		counter = a.Redis
	} else {
		slog.Warn("Login rate limiting disabled", "error", err)
	}
	loginLimiter := middleware.NewLoginRateLimiter(counter, cfg.App.LoginRateLimit)

	router := appHTTP.NewRouter(cfg.App, logger, a.JWT, loginLimiter, handlers)

	a.Scheduler.Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "version", version, "timezone", cfg.App.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// open SSE streams end when the hub closes, so close it before waiting on connections
	a.Hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
