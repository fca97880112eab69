package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	summaryHandler SummaryHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
		Level:       cfg.LogLevel(),
	})).With(
		slog.String("app", "timesheet-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates with a short-lived token in the query string
		r.Get("/summaries/stream", summaryHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/time-in", attendanceHandler.TimeIn)
				r.Post("/time-out", attendanceHandler.TimeOut)
				r.Get("/today", attendanceHandler.Today)
				r.Get("/my", attendanceHandler.MyHistory)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.ListByDate)
					r.Put("/{employeeID}/{date}", attendanceHandler.Overwrite)
					r.Post("/{employeeID}/{date}/aggregate", attendanceHandler.RetryAggregation)
				})
			})

			r.Route("/summaries", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/daily", summaryHandler.Daily)
				r.Get("/weekly", summaryHandler.Weekly)
				r.Get("/weekly/export", summaryHandler.ExportWeekly)
				r.Post("/stream/token", summaryHandler.StreamToken)
			})
		})
	})
	return r
}
