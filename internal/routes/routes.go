// internal/routes/routes.go
package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"campaignhub/internal/config"
	"campaignhub/internal/events"
	"campaignhub/internal/handlers"
	"campaignhub/internal/interfaces"
	appmw "campaignhub/internal/middleware"
	"campaignhub/internal/repository"
)

// Dependencies are the outbound collaborators built in main. Events and
// MetricsCache are optional; S3 may be nil when exports are disabled.
type Dependencies struct {
	Logger       zerolog.Logger
	Provider     interfaces.MessageProvider
	Events       interfaces.EventPublisher
	MetricsCache interfaces.MetricsCache
	S3           *config.S3Config
}

func SetupRoutes(db *sql.DB, cfg *config.Config, deps Dependencies) *chi.Mux {
	if deps.Events == nil {
		deps.Events = events.NoopPublisher{}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmw.HeaderServiceKey, appmw.HeaderProjectID},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	base := handlers.NewBaseHandler(db, cfg)
	r.Get("/", base.Root)
	r.Get("/health", base.Health)
	r.Handle("/metrics/prometheus", promhttp.Handler())
	RegisterSwaggerRoutes(r)

	campaignRepo := repository.NewCampaignRepository(db)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appmw.Authenticate(cfg.JWTSecret, cfg.ServiceKeyHash))

		RegisterCampaignRoutes(r, campaignRepo, cfg, deps)
		RegisterMetricsRoutes(r, campaignRepo, cfg, deps)
		RegisterDashboardRoutes(r, db, deps)
	})

	return r
}
