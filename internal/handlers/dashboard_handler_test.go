package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
)

// mockDashboards grants project p1 access to dashboard d1 only.
type mockDashboards struct {
	dashboard *models.Dashboard
	updateErr error
}

func newMockDashboards() *mockDashboards {
	return &mockDashboards{dashboard: &models.Dashboard{
		ID:        "d1",
		ProjectID: "p1",
		Name:      "Overview",
		Version:   1,
		Reports:   []models.Report{{ID: "r1", Position: 1, Name: "sent", Type: models.ReportTypeNumber}},
	}}
}

func (m *mockDashboards) authorize(projectID, dashboardID string) error {
	if dashboardID != m.dashboard.ID {
		return &interfaces.NotFoundError{Resource: "dashboard", ID: dashboardID}
	}
	if projectID != m.dashboard.ProjectID {
		return &interfaces.AccessDeniedError{Resource: "dashboard", ID: dashboardID}
	}
	return nil
}

func (m *mockDashboards) Create(ctx context.Context, projectID string, req models.CreateDashboardRequest) (*models.Dashboard, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, interfaces.NewValidationError("name is required")
	}
	return &models.Dashboard{ID: "d2", ProjectID: projectID, Name: req.Name, Version: 1, Reports: []models.Report{}}, nil
}

func (m *mockDashboards) Get(ctx context.Context, projectID string, dashboardID string) (*models.Dashboard, error) {
	if err := m.authorize(projectID, dashboardID); err != nil {
		return nil, err
	}
	return m.dashboard, nil
}

func (m *mockDashboards) List(ctx context.Context, projectID string) ([]*models.Dashboard, error) {
	if projectID != m.dashboard.ProjectID {
		return []*models.Dashboard{}, nil
	}
	return []*models.Dashboard{m.dashboard}, nil
}

func (m *mockDashboards) Update(ctx context.Context, projectID string, dashboardID string, req models.UpdateDashboardRequest) (*models.Dashboard, error) {
	if err := m.authorize(projectID, dashboardID); err != nil {
		return nil, err
	}
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.dashboard, nil
}

func (m *mockDashboards) AddReport(ctx context.Context, projectID string, dashboardID string, in models.ReportInput) (*models.Dashboard, error) {
	if err := m.authorize(projectID, dashboardID); err != nil {
		return nil, err
	}
	m.dashboard.Reports = append(m.dashboard.Reports, models.Report{ID: "r2", Position: len(m.dashboard.Reports) + 1, Name: in.Name, Type: in.Type})
	return m.dashboard, nil
}

func (m *mockDashboards) RemoveReport(ctx context.Context, projectID string, dashboardID string, reportID string) (*models.Dashboard, error) {
	if err := m.authorize(projectID, dashboardID); err != nil {
		return nil, err
	}
	if reportID != "r1" {
		return nil, &interfaces.NotFoundError{Resource: "report", ID: reportID}
	}
	m.dashboard.Reports = []models.Report{}
	return m.dashboard, nil
}

func dashboardRouter(h *DashboardHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/dashboards", h.ListDashboards)
	r.Post("/dashboards", h.CreateDashboard)
	r.Get("/dashboards/{id}", h.GetDashboard)
	r.Put("/dashboards/{id}", h.UpdateDashboard)
	r.Post("/dashboards/{id}/reports", h.AddReport)
	r.Delete("/dashboards/{id}/reports/{reportId}", h.RemoveReport)
	return r
}

func serveDashboard(t *testing.T, h *DashboardHandler, project, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	dashboardRouter(h).ServeHTTP(w, withProject(req, project))
	return w
}

func TestDashboardRoutesStatuses(t *testing.T) {
	cases := []struct {
		name    string
		project string
		method  string
		path    string
		body    string
		want    int
	}{
		{"list", "p1", http.MethodGet, "/dashboards", "", http.StatusOK},
		{"create", "p1", http.MethodPost, "/dashboards", `{"name":"New"}`, http.StatusCreated},
		{"create blank", "p1", http.MethodPost, "/dashboards", `{"name":" "}`, http.StatusBadRequest},
		{"create bad json", "p1", http.MethodPost, "/dashboards", `[`, http.StatusBadRequest},
		{"get", "p1", http.MethodGet, "/dashboards/d1", "", http.StatusOK},
		{"get other project", "p2", http.MethodGet, "/dashboards/d1", "", http.StatusForbidden},
		{"get missing", "p1", http.MethodGet, "/dashboards/d9", "", http.StatusNotFound},
		{"update", "p1", http.MethodPut, "/dashboards/d1", `{"reports":[]}`, http.StatusOK},
		{"add report", "p1", http.MethodPost, "/dashboards/d1/reports", `{"name":"pie","type":"pie","metrics":[{"type":"views"}]}`, http.StatusCreated},
		{"remove missing report", "p1", http.MethodDelete, "/dashboards/d1/reports/r9", "", http.StatusNotFound},
		{"remove report", "p1", http.MethodDelete, "/dashboards/d1/reports/r1", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDashboardHandler(newMockDashboards(), zerolog.Nop())
			w := serveDashboard(t, h, tc.project, tc.method, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("expected %d got %d (%s)", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateDashboardConflict(t *testing.T) {
	m := newMockDashboards()
	m.updateErr = &interfaces.ConflictError{Resource: "dashboard", ID: "d1"}
	h := NewDashboardHandler(m, zerolog.Nop())

	w := serveDashboard(t, h, "p1", http.MethodPut, "/dashboards/d1", `{"reports":[],"version":1}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "conflict" {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestAddReportReturnsRenumberedDashboard(t *testing.T) {
	h := NewDashboardHandler(newMockDashboards(), zerolog.Nop())
	w := serveDashboard(t, h, "p1", http.MethodPost, "/dashboards/d1/reports", `{"name":"bar","type":"bar","metrics":[{"type":"errors"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}
	var d models.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(d.Reports) != 2 || d.Reports[1].Position != 2 {
		t.Fatalf("unexpected reports %+v", d.Reports)
	}
}
