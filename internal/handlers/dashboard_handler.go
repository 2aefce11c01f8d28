package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"campaignhub/internal/models"
)

type dashboardManager interface {
	Create(ctx context.Context, projectID string, req models.CreateDashboardRequest) (*models.Dashboard, error)
	Get(ctx context.Context, projectID string, dashboardID string) (*models.Dashboard, error)
	List(ctx context.Context, projectID string) ([]*models.Dashboard, error)
	Update(ctx context.Context, projectID string, dashboardID string, req models.UpdateDashboardRequest) (*models.Dashboard, error)
	AddReport(ctx context.Context, projectID string, dashboardID string, in models.ReportInput) (*models.Dashboard, error)
	RemoveReport(ctx context.Context, projectID string, dashboardID string, reportID string) (*models.Dashboard, error)
}

type DashboardHandler struct {
	dashboards dashboardManager
	logger     zerolog.Logger
}

func NewDashboardHandler(dashboards dashboardManager, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, logger: logger}
}

// ListDashboards handles GET /api/v1/dashboards
// @Tags Dashboards
// @Summary List the dashboards of the caller's project
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Dashboard
// @Router /api/v1/dashboards [get]
func (h *DashboardHandler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	dashboards, err := h.dashboards.List(r.Context(), project)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboards)
}

// CreateDashboard handles POST /api/v1/dashboards
// @Tags Dashboards
// @Summary Create a dashboard
// @Description Report positions, when given, must form 1..N; missing ones fill the first gap.
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateDashboardRequest true "Dashboard"
// @Success 201 {object} models.Dashboard
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/dashboards [post]
func (h *DashboardHandler) CreateDashboard(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	var req models.CreateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	dashboard, err := h.dashboards.Create(r.Context(), project, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dashboard)
}

// GetDashboard handles GET /api/v1/dashboards/{id}
// @Tags Dashboards
// @Summary Get a dashboard
// @Security BearerAuth
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {object} models.Dashboard
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/dashboards/{id} [get]
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	dashboard, err := h.dashboards.Get(r.Context(), project, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// UpdateDashboard handles PUT /api/v1/dashboards/{id}
// @Tags Dashboards
// @Summary Replace the reports of a dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param request body models.UpdateDashboardRequest true "Dashboard"
// @Success 200 {object} models.Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/dashboards/{id} [put]
func (h *DashboardHandler) UpdateDashboard(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	var req models.UpdateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	dashboard, err := h.dashboards.Update(r.Context(), project, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// AddReport handles POST /api/v1/dashboards/{id}/reports
// @Tags Dashboards
// @Summary Append a report; all reports are renumbered
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param request body models.ReportInput true "Report"
// @Success 201 {object} models.Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/dashboards/{id}/reports [post]
func (h *DashboardHandler) AddReport(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	var in models.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	dashboard, err := h.dashboards.AddReport(r.Context(), project, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dashboard)
}

// RemoveReport handles DELETE /api/v1/dashboards/{id}/reports/{reportId}
// @Tags Dashboards
// @Summary Remove a report; the rest are renumbered
// @Security BearerAuth
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param reportId path string true "Report ID"
// @Success 200 {object} models.Dashboard
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/dashboards/{id}/reports/{reportId} [delete]
func (h *DashboardHandler) RemoveReport(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	dashboard, err := h.dashboards.RemoveReport(r.Context(), project, chi.URLParam(r, "id"), chi.URLParam(r, "reportId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
