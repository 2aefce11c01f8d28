// internal/handlers/campaign_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/models"
	"campaignhub/internal/services"
)

type campaignDispatcher interface {
	Dispatch(ctx context.Context, projectID string, req models.DispatchRequest) (*models.DispatchResult, error)
}

type campaignReader interface {
	List(ctx context.Context, projectID string, filters models.FilterSet) ([]*models.Campaign, error)
	Get(ctx context.Context, projectID string, campaignID string) (*models.Campaign, error)
	Export(ctx context.Context, projectID string, filters models.FilterSet) (*models.CampaignExport, error)
}

type CampaignHandler struct {
	dispatcher campaignDispatcher
	campaigns  campaignReader
	validator  *validator.Validate
	logger     zerolog.Logger
}

func NewCampaignHandler(dispatcher campaignDispatcher, campaigns campaignReader, logger zerolog.Logger) *CampaignHandler {
	return &CampaignHandler{
		dispatcher: dispatcher,
		campaigns:  campaigns,
		validator:  validator.New(),
		logger:     logger,
	}
}

// DispatchCampaign handles POST /api/v1/campaigns/dispatch
// @Tags Campaigns
// @Summary Send a template to a list of recipients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.DispatchRequest true "Dispatch request"
// @Success 201 {object} models.DispatchResult
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/campaigns/dispatch [post]
func (h *CampaignHandler) DispatchCampaign(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}

	var req models.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), project, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListCampaigns handles GET /api/v1/campaigns
// @Tags Campaigns
// @Summary List campaigns of the caller's project
// @Security BearerAuth
// @Produce json
// @Param campaignId query string false "Campaign ID"
// @Param campaignName query string false "Campaign name"
// @Param templateName query string false "Template name"
// @Param fromPhoneNumber query string false "Sender phone number id"
// @Param from query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "End date, inclusive (RFC3339 or YYYY-MM-DD)"
// @Success 200 {array} models.Campaign
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}

	filters, err := filterSetFromQuery(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	campaigns, err := h.campaigns.List(r.Context(), project, filters)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// GetCampaign handles GET /api/v1/campaigns/{id}
// @Tags Campaigns
// @Summary Get one campaign with its per-recipient results
// @Security BearerAuth
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "id")
	if campaignID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Campaign ID is required")
		return
	}

	campaign, err := h.campaigns.Get(r.Context(), project, campaignID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// ExportCampaigns handles POST /api/v1/campaigns/export
// @Tags Campaigns
// @Summary Export matching campaigns to S3 as JSON
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.FilterSet false "Filters"
// @Success 201 {object} models.CampaignExport
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/campaigns/export [post]
func (h *CampaignHandler) ExportCampaigns(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}

	var filters models.FilterSet
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
			writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
			return
		}
	}

	export, err := h.campaigns.Export(r.Context(), project, filters)
	if err != nil {
		if errors.Is(err, services.ErrExportDisabled) {
			writeJSONErrorResponse(w, http.StatusServiceUnavailable, "export_disabled", err.Error())
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, export)
}

func filterSetFromQuery(r *http.Request) (models.FilterSet, error) {
	q := r.URL.Query()
	filters := models.FilterSet{
		CampaignID:      q.Get("campaignId"),
		CampaignName:    q.Get("campaignName"),
		TemplateName:    q.Get("templateName"),
		FromPhoneNumber: q.Get("fromPhoneNumber"),
	}

	fromRaw, toRaw := q.Get("from"), q.Get("to")
	if fromRaw == "" && toRaw == "" {
		return filters, nil
	}
	if fromRaw == "" || toRaw == "" {
		return filters, interfaces.NewValidationError("from and to must be given together")
	}
	from, err := parseQueryTime(fromRaw)
	if err != nil {
		return filters, interfaces.NewValidationError("invalid from: %q", fromRaw)
	}
	to, err := parseQueryTime(toRaw)
	if err != nil {
		return filters, interfaces.NewValidationError("invalid to: %q", toRaw)
	}
	filters.DateRange = []time.Time{from, to}
	return filters, nil
}

func parseQueryTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
