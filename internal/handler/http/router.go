package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/loopwork/insights-backend-go/internal/handler/http/middleware"
	"github.com/loopwork/insights-backend-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, attendanceHandler AttendanceHandler, dealHandler DealHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "insights-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
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

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Route("/dashboard", func(r chi.Router) {
					r.With(middleware.RequireRole(middleware.RoleLeader, middleware.RoleHR, middleware.RoleAdmin)).
						Get("/leader", attendanceHandler.LeaderDashboard)
					r.Get("/managers/{managerID}", attendanceHandler.ManagerDashboard)
				})

				r.Get("/teams/{teamID}", attendanceHandler.TeamDetail)
				r.Get("/employees/{employeeID}", attendanceHandler.EmployeeDetail)

				r.With(middleware.RequireRole(middleware.RoleHR, middleware.RoleAdmin)).
					Post("/rebuild", attendanceHandler.Rebuild)
			})

			r.Route("/deals", func(r chi.Router) {
				r.Route("/offers", func(r chi.Router) {
					r.Post("/", dealHandler.IngestOffer)
					r.Get("/{offerID}", dealHandler.GetOffer)
					r.Post("/{offerID}/rescore", dealHandler.RescoreOffer)
				})
				r.Post("/date-pairs", dealHandler.DatePairs)
			})
		})
	})

	return r
}
