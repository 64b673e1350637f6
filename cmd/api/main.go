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

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/payroll-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
)

const (
	appName    = "payroll-cmlabs"
	appVersion = "v1.0.0"

	payrollLockTTL = 15 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(dsn); err != nil {
			slog.Error("Error running migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations applied")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	slipRepo := postgresql.NewSalarySlipRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	renderer := report.NewRenderer(cfg.App.Currency, cfg.App.PDFCompression)

	authService := serviceAuth.NewAuthService(db, userRepo, employeeRepo, JWTRepository, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(slipRepo, attendanceRepo, employeeRepo, renderer, cfg.Payroll.Workers)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, employeeRepo, attendanceRepo, slipRepo)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := authService.EnsureStaffUser(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			slog.Error("Error creating staff user", "error", err)
			os.Exit(1)
		}
	}

	var scheduler *cron.Scheduler
	if cfg.Payroll.AutoGenerate {
		var locker lock.Locker = lock.NewLocalLocker()
		if cfg.Redis.Addr != "" {
			rdb, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				slog.Error("Error connecting to redis", "error", err)
				os.Exit(1)
			}
			defer rdb.Close()
			locker = lock.NewRedisLocker(rdb)
		} else {
			slog.Warn("REDIS_ADDR not set, payroll auto-generate lock is local to this instance")
		}

		scheduler = cron.NewScheduler()
		payrollService.NewAutoGenerateJob(payrollSvc, locker, payrollLockTTL).RegisterJobs(scheduler, cfg.Payroll.AutoGenerateInterval)
		scheduler.Start()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        appName,
		Version:        appVersion,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		User:       appHTTP.NewUserHandler(authService),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
