package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the values the router stamps on request logs.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	timecardHandler TimecardHandler,
	payrollHandler PayrollHandler,
	settingsHandler SettingsHandler,
	notificationHandler NotificationHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
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
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send headers, so the stream authenticates with a query token.
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/timecard", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimecardRecordOwn))
					r.Post("/login", timecardHandler.Login)
					r.Post("/lunch-out", timecardHandler.LunchOut)
					r.Post("/lunch-in", timecardHandler.LunchIn)
					r.Post("/break", timecardHandler.Break)
					r.Post("/permission", timecardHandler.Permission)
					r.Post("/logout", timecardHandler.Logout)
				})

				r.With(middleware.RequirePermission(user.PermissionTimecardViewOwn)).
					Get("/{date}", timecardHandler.GetMySession)
				r.With(middleware.RequirePermission(user.PermissionTimecardViewAll)).
					Get("/employees/{employeeID}/{date}", timecardHandler.GetSession)
			})

			r.Route("/settings/timecard", func(r chi.Router) {
				r.Get("/", settingsHandler.GetTimecardSettings)
				r.With(middleware.RequirePermission(user.PermissionSettingsManage)).
					Put("/", settingsHandler.UpdateTimecardSettings)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", payrollHandler.ListPayrollRecords)
					r.Get("/{id}", payrollHandler.GetPayrollRecord)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/generate", payrollHandler.GeneratePayroll)
					r.Post("/generate-period", payrollHandler.GeneratePeriod)
					r.Put("/{id}/adjustments", payrollHandler.UpdateAdjustments)
					r.Post("/salary-hike", payrollHandler.ApplySalaryHike)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollApprove))
					r.Post("/{id}/approve", payrollHandler.ApprovePayroll)
					r.Post("/{id}/pay", payrollHandler.MarkPaid)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionTimecardViewAll)).
					Get("/", employeeHandler.ListEmployees)
				r.Get("/{id}", employeeHandler.GetEmployee)
				r.Get("/{id}/salary-revisions", employeeHandler.ListSalaryRevisions)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read", notificationHandler.MarkAsRead)
				r.Post("/read-all", notificationHandler.MarkAllAsRead)
				r.Delete("/{id}", notificationHandler.Delete)
				r.Post("/sse-token", notificationHandler.GetSSEToken)
			})
		})
	})

	return r
}
