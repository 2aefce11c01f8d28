package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

// DashboardService owns the report ordering rules of dashboards and the
// project capability check in front of every dashboard access.
type DashboardService struct {
	dashboards interfaces.DashboardRepository
	projects   interfaces.ProjectRepository
	validator  *validator.Validate
	logger     zerolog.Logger

	newID func() string
}

func NewDashboardService(dashboards interfaces.DashboardRepository, projects interfaces.ProjectRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		dashboards: dashboards,
		projects:   projects,
		validator:  validator.New(),
		logger:     logger.With().Str("component", "dashboards").Logger(),
		newID:      uuid.NewString,
	}
}

func (s *DashboardService) validateReport(index int, in models.ReportInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return interfaces.NewValidationError("reports[%d]: name is required", index)
	}
	if err := s.validator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return interfaces.NewValidationError("reports[%d]: %s failed on %q", index, fe.Namespace(), fe.Tag())
		}
		return interfaces.NewValidationError("reports[%d]: %v", index, err)
	}
	for j, m := range in.Metrics {
		if !models.IsMetricType(m.Type) {
			return interfaces.NewValidationError("reports[%d].metrics[%d]: unknown metric type %q", index, j, m.Type)
		}
	}
	return nil
}

func (s *DashboardService) toReport(in models.ReportInput, id string, position int) models.Report {
	size := strings.TrimSpace(in.Size)
	if size == "" {
		size = models.DefaultReportSize
	}
	metrics := make([]models.MetricSpec, len(in.Metrics))
	copy(metrics, in.Metrics)
	return models.Report{
		ID:       id,
		Position: position,
		Name:     strings.TrimSpace(in.Name),
		Type:     in.Type,
		Size:     size,
		Metrics:  metrics,
		Filters:  in.Filters,
	}
}

// Normalize validates a full report set and assigns ids and missing
// positions. Reports are processed in input order; a report without a
// position takes the smallest positive integer not used so far. The final
// positions must be exactly 1..N, otherwise the whole set is rejected.
// The result is ordered by position.
func (s *DashboardService) Normalize(inputs []models.ReportInput) ([]models.Report, error) {
	used := make(map[int]bool, len(inputs))
	ids := make(map[string]bool, len(inputs))
	reports := make([]models.Report, 0, len(inputs))

	for i, in := range inputs {
		if err := s.validateReport(i, in); err != nil {
			return nil, err
		}

		var position int
		if in.Position != nil {
			position = *in.Position
			if position <= 0 {
				return nil, interfaces.NewValidationError("reports[%d]: position must be a positive integer", i)
			}
			if used[position] {
				return nil, interfaces.NewValidationError("reports[%d]: position %d is already used", i, position)
			}
		} else {
			position = firstFreePosition(used)
		}
		used[position] = true

		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = s.newID()
		}
		if ids[id] {
			return nil, interfaces.NewValidationError("reports[%d]: duplicate report id %q", i, id)
		}
		ids[id] = true

		reports = append(reports, s.toReport(in, id, position))
	}

	for _, r := range reports {
		if r.Position > len(reports) {
			return nil, interfaces.NewValidationError("report positions must be contiguous from 1 to %d", len(reports))
		}
	}

	slices.SortFunc(reports, func(a, b models.Report) int { return a.Position - b.Position })
	return reports, nil
}

func firstFreePosition(used map[int]bool) int {
	p := 1
	for used[p] {
		p++
	}
	return p
}

func renumber(reports []models.Report) {
	for i := range reports {
		reports[i].Position = i + 1
	}
}

func sortedReports(d *models.Dashboard) []models.Report {
	reports := slices.Clone(d.Reports)
	slices.SortStableFunc(reports, func(a, b models.Report) int { return a.Position - b.Position })
	return reports
}

// authorize loads a dashboard the project is allowed to see. An unknown
// project or a dashboard outside its capability set is an access denial; a
// listed dashboard that no longer exists is not found.
func (s *DashboardService) authorize(ctx context.Context, projectID string, dashboardID string) (*models.Dashboard, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		var nf *interfaces.NotFoundError
		if errors.As(err, &nf) {
			return nil, &interfaces.AccessDeniedError{Resource: "dashboard", ID: dashboardID}
		}
		return nil, &interfaces.InternalError{Op: "load project", Err: err}
	}
	if !project.HasDashboard(dashboardID) {
		return nil, &interfaces.AccessDeniedError{Resource: "dashboard", ID: dashboardID}
	}
	dashboard, err := s.dashboards.GetByID(ctx, dashboardID)
	if err != nil {
		return nil, passTagged("load dashboard", err)
	}
	return dashboard, nil
}

// passTagged returns tagged errors unchanged and wraps the rest as
// InternalError.
func passTagged(op string, err error) error {
	var (
		ve *interfaces.ValidationError
		nf *interfaces.NotFoundError
		ad *interfaces.AccessDeniedError
		ce *interfaces.ConflictError
		ie *interfaces.InternalError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &nf), errors.As(err, &ad), errors.As(err, &ce), errors.As(err, &ie):
		return err
	}
	return &interfaces.InternalError{Op: op, Err: err}
}

func (s *DashboardService) Create(ctx context.Context, projectID string, req models.CreateDashboardRequest) (*models.Dashboard, error) {
	reports, err := s.Normalize(req.Reports)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		ID:        s.newID(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
		Reports:   reports,
	}
	if err := s.dashboards.Create(ctx, dashboard); err != nil {
		return nil, passTagged("create dashboard", err)
	}
	if err := s.projects.AddDashboard(ctx, projectID, dashboard.ID); err != nil {
		// Without the grant the row is unreachable; drop it.
		if derr := s.dashboards.Delete(context.WithoutCancel(ctx), dashboard.ID); derr != nil {
			s.logger.Error().Err(derr).Str("dashboard_id", dashboard.ID).Msg("failed to remove ungranted dashboard")
		}
		return nil, passTagged("grant dashboard", err)
	}

	s.logger.Info().
		Str("project_id", projectID).
		Str("dashboard_id", dashboard.ID).
		Int("reports", len(reports)).
		Msg("dashboard created")
	return dashboard, nil
}

func (s *DashboardService) Get(ctx context.Context, projectID string, dashboardID string) (*models.Dashboard, error) {
	return s.authorize(ctx, projectID, dashboardID)
}

// List returns every dashboard in the project's capability set. A project
// that has never created a dashboard has none.
func (s *DashboardService) List(ctx context.Context, projectID string) ([]*models.Dashboard, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		var nf *interfaces.NotFoundError
		if errors.As(err, &nf) {
			return []*models.Dashboard{}, nil
		}
		return nil, &interfaces.InternalError{Op: "load project", Err: err}
	}
	dashboards, err := s.dashboards.ListByIDs(ctx, project.Dashboards)
	if err != nil {
		return nil, passTagged("list dashboards", err)
	}
	return dashboards, nil
}

// Update replaces the name (when given) and the whole report set. The write
// is conditional on req.Version, or on the version just read when the caller
// sent none.
func (s *DashboardService) Update(ctx context.Context, projectID string, dashboardID string, req models.UpdateDashboardRequest) (*models.Dashboard, error) {
	dashboard, err := s.authorize(ctx, projectID, dashboardID)
	if err != nil {
		return nil, err
	}

	if req.Reports == nil {
		return nil, interfaces.NewValidationError("reports is required")
	}
	reports, err := s.Normalize(req.Reports)
	if err != nil {
		return nil, err
	}

	expected := dashboard.Version
	if req.Version != nil {
		expected = *req.Version
	}
	if req.Name != nil {
		dashboard.Name = strings.TrimSpace(*req.Name)
	}
	dashboard.Reports = reports

	if err := s.dashboards.Replace(ctx, dashboard, expected); err != nil {
		return nil, passTagged("update dashboard", err)
	}
	return dashboard, nil
}

// AddReport appends a report and renumbers the whole list 1..N+1. A position
// in the input is ignored.
func (s *DashboardService) AddReport(ctx context.Context, projectID string, dashboardID string, in models.ReportInput) (*models.Dashboard, error) {
	if err := s.validateReport(0, in); err != nil {
		return nil, err
	}

	dashboard, err := s.authorize(ctx, projectID, dashboardID)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}
	reports := sortedReports(dashboard)
	for _, r := range reports {
		if r.ID == id {
			return nil, interfaces.NewValidationError("report %s already exists in dashboard %s", id, dashboardID)
		}
	}
	reports = append(reports, s.toReport(in, id, 0))
	renumber(reports)

	expected := dashboard.Version
	dashboard.Reports = reports
	if err := s.dashboards.Replace(ctx, dashboard, expected); err != nil {
		return nil, passTagged("add report", err)
	}
	return dashboard, nil
}

// RemoveReport drops a report and renumbers the rest 1..N-1 keeping their
// relative order.
func (s *DashboardService) RemoveReport(ctx context.Context, projectID string, dashboardID string, reportID string) (*models.Dashboard, error) {
	dashboard, err := s.authorize(ctx, projectID, dashboardID)
	if err != nil {
		return nil, err
	}

	reports := sortedReports(dashboard)
	idx := slices.IndexFunc(reports, func(r models.Report) bool { return r.ID == reportID })
	if idx < 0 {
		return nil, &interfaces.NotFoundError{Resource: "report", ID: reportID}
	}
	reports = slices.Delete(reports, idx, idx+1)
	renumber(reports)

	expected := dashboard.Version
	dashboard.Reports = reports
	if err := s.dashboards.Replace(ctx, dashboard, expected); err != nil {
		return nil, passTagged("remove report", err)
	}
	return dashboard, nil
}
