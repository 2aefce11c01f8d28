package routes

import (
	"github.com/go-chi/chi/v5"

	"campaignhub/internal/config"
	"campaignhub/internal/handlers"
	"campaignhub/internal/interfaces"
	"campaignhub/internal/services"
)

func RegisterMetricsRoutes(router chi.Router, campaignRepo interfaces.CampaignRepository, cfg *config.Config, deps Dependencies) {
	engine := services.NewMetricsEngine(campaignRepo, deps.MetricsCache, cfg.MetricsCacheTTL, deps.Logger)
	metricsHandler := handlers.NewMetricsHandler(engine, cfg.MetricsTimeout, deps.Logger)

	router.Post("/metrics", metricsHandler.ComputeMetrics)
}
