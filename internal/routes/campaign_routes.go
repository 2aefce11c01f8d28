// internal/routes/campaign_routes.go
package routes

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"

	"campaignhub/internal/config"
	"campaignhub/internal/handlers"
	"campaignhub/internal/interfaces"
	"campaignhub/internal/services"
)

func RegisterCampaignRoutes(router chi.Router, campaignRepo interfaces.CampaignRepository, cfg *config.Config, deps Dependencies) {
	deps.Logger.Debug().Msg("registering campaign routes")

	var (
		s3Client *s3.Client
		bucket   string
	)
	if deps.S3.Enabled() {
		s3Client, bucket = deps.S3.Client, deps.S3.Bucket
	}

	dispatcher := services.NewDispatcher(campaignRepo, deps.Provider, deps.Events, deps.MetricsCache, deps.Logger, cfg.ProviderTimeout)
	campaignService := services.NewCampaignService(campaignRepo, s3Client, bucket, deps.Logger)
	campaignHandler := handlers.NewCampaignHandler(dispatcher, campaignService, deps.Logger)

	router.Route("/campaigns", func(r chi.Router) {
		r.Get("/", campaignHandler.ListCampaigns)
		r.Post("/dispatch", campaignHandler.DispatchCampaign)
		r.Post("/export", campaignHandler.ExportCampaigns)
		r.Get("/{id}", campaignHandler.GetCampaign)
	})
}
