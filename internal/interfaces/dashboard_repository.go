package interfaces

import (
	"context"

	"campaignhub/internal/models"
)

type DashboardRepository interface {
	Create(ctx context.Context, dashboard *models.Dashboard) error
	GetByID(ctx context.Context, id string) (*models.Dashboard, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Dashboard, error)
	// Replace writes name and reports only if the stored version equals
	// expectedVersion, then bumps the version. A mismatch yields
	// *ConflictError.
	Replace(ctx context.Context, dashboard *models.Dashboard, expectedVersion int) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
	AddDashboard(ctx context.Context, projectID string, dashboardID string) error
}
