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

	"github.com/cmlabs-hris/timecard-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timecard-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timecard-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/timecard-backend-go/internal/service/employee"
	escalationService "github.com/cmlabs-hris/timecard-backend-go/internal/service/escalation"
	notificationService "github.com/cmlabs-hris/timecard-backend-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/timecard-backend-go/internal/service/payroll"
	settingsService "github.com/cmlabs-hris/timecard-backend-go/internal/service/settings"
	timecardService "github.com/cmlabs-hris/timecard-backend-go/internal/service/timecard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	policy, err := config.LoadPolicy(cfg.Timecard.PolicyFile)
	if err != nil {
		slog.Error("Error loading policy", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.PoolOptions())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("Error applying migrations", "error", err)
		os.Exit(1)
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	sessionRepo := postgresql.NewDaySessionRepository(db)
	dailyTaskRepo := postgresql.NewDailyTaskRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		slog.Error("Error creating JWT service", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	notifier := escalationService.NewEscalationNotifier(employeeRepo, notifSvc, escalationService.Config{
		TopAdminID:             cfg.Timecard.TopAdminID,
		Timeout:                cfg.Timecard.SideEffectTimeout,
		CriticalOverageMinutes: cfg.Timecard.CriticalOverageMinutes,
	})
	settingsSvc := settingsService.NewSettingsService(settingsRepo)
	timecardSvc := timecardService.NewTimecardService(sessionRepo, settingsSvc, dailyTaskRepo, notifier, timecardService.Config{
		Policy:            policy.Timecard,
		AutoLogoutTime:    cfg.Timecard.AutoLogoutTime,
		SideEffectTimeout: cfg.Timecard.SideEffectTimeout,
	})
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, employeeRepo, notifSvc, policy.Payroll)

	scheduler := cron.NewScheduler()
	if cfg.Timecard.AutoLogoutEnabled {
		cron.NewTimecardJobs(timecardSvc, notifSvc, cfg.Timecard.TopAdminID, cfg.Timecard.AutoLogoutInterval).RegisterJobs(scheduler)
	}
	scheduler.Start()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		appHTTP.NewTimecardHandler(timecardSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewSettingsHandler(settingsSvc),
		appHTTP.NewNotificationHandler(notifSvc, JWTService),
		appHTTP.NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo)),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	// Order matters: pending escalations enqueue notifications, which the
	// notification workers then flush before the hub closes.
	scheduler.Stop()
	timecardSvc.Wait()
	notifSvc.Stop()
	hub.Close()
}
