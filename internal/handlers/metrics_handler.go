package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"campaignhub/internal/models"
)

type metricsComputer interface {
	Compute(ctx context.Context, projectID string, specs []models.MetricSpec, filters models.FilterSet) (map[string]int, error)
}

type MetricsHandler struct {
	engine  metricsComputer
	timeout time.Duration
	logger  zerolog.Logger
}

func NewMetricsHandler(engine metricsComputer, timeout time.Duration, logger zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{
		engine:  engine,
		timeout: timeout,
		logger:  logger,
	}
}

// ComputeMetrics handles POST /api/v1/metrics
// @Tags Metrics
// @Summary Compute aggregate metrics over campaign history
// @Description Metrics that fail or have an unknown type are left out of the result. An empty list yields an empty object.
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.MetricsRequest true "Metrics and filters"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/metrics [post]
func (h *MetricsHandler) ComputeMetrics(w http.ResponseWriter, r *http.Request) {
	project, ok := projectID(w, r)
	if !ok {
		return
	}

	var req models.MetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	values, err := h.engine.Compute(ctx, project, req.Metrics, req.Filters)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if values == nil {
		values = map[string]int{}
	}
	writeJSON(w, http.StatusOK, values)
}
