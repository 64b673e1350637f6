package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Dashboard  DashboardHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)

			r.With(middleware.RequireStaff).Post("/users", h.User.CreateUser)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", h.Dashboard.GetDashboard)
				r.Get("/attendance", h.Dashboard.GetMonthlyAttendance)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.ListAttendance)
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/", h.Attendance.CreateAttendance)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/preview", h.Payroll.PreviewSlip)

				r.Route("/slips", func(r chi.Router) {
					r.Get("/", h.Payroll.ListSlips)
					r.Post("/", h.Payroll.GenerateSlip)
					r.With(middleware.RequirePermission(user.PermissionPayrollGenerateAll)).Post("/bulk", h.Payroll.GenerateMonth)
					r.Get("/export", h.Payroll.ExportSlips)
					r.Get("/{id}", h.Payroll.GetSlip)
					r.Get("/{id}/pdf", h.Payroll.DownloadSlipPDF)
				})
			})
		})
	})
	return r
}
