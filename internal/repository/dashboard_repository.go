package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

type dashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) interfaces.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Create(ctx context.Context, dashboard *models.Dashboard) error {
	reports := dashboard.Reports
	if reports == nil {
		reports = []models.Report{}
	}
	reportsJSON, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	query := `
		INSERT INTO dashboards (id, project_id, name, reports, version)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING version, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		dashboard.ID,
		dashboard.ProjectID,
		dashboard.Name,
		reportsJSON,
	).Scan(&dashboard.Version, &dashboard.CreatedAt, &dashboard.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	return nil
}

const dashboardColumns = `id, project_id, name, reports, version, created_at, updated_at`

func (r *dashboardRepository) GetByID(ctx context.Context, id string) (*models.Dashboard, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+dashboardColumns+" FROM dashboards WHERE id = $1", id)
	dashboard, err := scanDashboard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &interfaces.NotFoundError{Resource: "dashboard", ID: id}
		}
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return dashboard, nil
}

func (r *dashboardRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Dashboard, error) {
	dashboards := []*models.Dashboard{}
	if len(ids) == 0 {
		return dashboards, nil
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dashboardColumns+" FROM dashboards WHERE id = ANY($1) ORDER BY created_at",
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		dashboard, err := scanDashboard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dashboard: %w", err)
		}
		dashboards = append(dashboards, dashboard)
	}
	return dashboards, rows.Err()
}

func (r *dashboardRepository) Replace(ctx context.Context, dashboard *models.Dashboard, expectedVersion int) error {
	reports := dashboard.Reports
	if reports == nil {
		reports = []models.Report{}
	}
	reportsJSON, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	query := `
		UPDATE dashboards
		SET name = $1,
			reports = $2,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING version, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		dashboard.Name,
		reportsJSON,
		dashboard.ID,
		expectedVersion,
	).Scan(&dashboard.Version, &dashboard.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("replace dashboard: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM dashboards WHERE id = $1)", dashboard.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check dashboard: %w", err)
	}
	if !exists {
		return &interfaces.NotFoundError{Resource: "dashboard", ID: dashboard.ID}
	}
	return &interfaces.ConflictError{Resource: "dashboard", ID: dashboard.ID}
}

func (r *dashboardRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM dashboards WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	return nil
}

func scanDashboard(row rowScanner) (*models.Dashboard, error) {
	var dashboard models.Dashboard
	var reportsJSON []byte
	if err := row.Scan(
		&dashboard.ID,
		&dashboard.ProjectID,
		&dashboard.Name,
		&reportsJSON,
		&dashboard.Version,
		&dashboard.CreatedAt,
		&dashboard.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportsJSON, &dashboard.Reports); err != nil {
		return nil, fmt.Errorf("unmarshal reports: %w", err)
	}
	if dashboard.Reports == nil {
		dashboard.Reports = []models.Report{}
	}
	return &dashboard, nil
}
