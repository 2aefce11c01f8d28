package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"campaignhub/internal/handlers"
	"campaignhub/internal/repository"
	"campaignhub/internal/services"
)

func RegisterDashboardRoutes(router chi.Router, db *sql.DB, deps Dependencies) {
	dashboardService := services.NewDashboardService(
		repository.NewDashboardRepository(db),
		repository.NewProjectRepository(db),
		deps.Logger,
	)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, deps.Logger)

	router.Route("/dashboards", func(r chi.Router) {
		r.Get("/", dashboardHandler.ListDashboards)
		r.Post("/", dashboardHandler.CreateDashboard)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", dashboardHandler.GetDashboard)
			r.Put("/", dashboardHandler.UpdateDashboard)
			r.Post("/reports", dashboardHandler.AddReport)
			r.Delete("/reports/{reportId}", dashboardHandler.RemoveReport)
		})
	})
}
