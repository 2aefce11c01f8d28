package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) interfaces.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, dashboards, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project models.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		pq.Array(&project.Dashboards),
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &interfaces.NotFoundError{Resource: "project", ID: id}
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &project, nil
}

// AddDashboard grants the project access to a dashboard, creating the
// project row on first use.
func (r *projectRepository) AddDashboard(ctx context.Context, projectID string, dashboardID string) error {
	query := `
		INSERT INTO projects (id, name, dashboards)
		VALUES ($1, $1, ARRAY[$2::text])
		ON CONFLICT (id) DO UPDATE SET
			dashboards = CASE
				WHEN $2 = ANY(projects.dashboards) THEN projects.dashboards
				ELSE array_append(projects.dashboards, $2::text)
			END,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, projectID, dashboardID); err != nil {
		return fmt.Errorf("add dashboard to project: %w", err)
	}
	return nil
}
