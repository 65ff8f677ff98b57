package routes

import (
	"net/http"
	"time"

	"gabber/annotator/internal/api"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func RegisterRoutes(deps *api.Dependencies, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.MetricsMiddleware(deps.Infra.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps.Infra.SQL, deps.Infra.Redis, upSince))

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewRateLimiter(deps.Config.AuthRateLimit, deps.Config.AuthRateBurst)

	RegisterAPIRoutes(r, handlers, deps, limiter)

	return r
}
