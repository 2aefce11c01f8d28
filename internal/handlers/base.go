// internal/handlers/base.go
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"campaignhub/internal/config"
)

type BaseHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

func NewBaseHandler(db *sql.DB, cfg *config.Config) *BaseHandler {
	return &BaseHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// Root handles GET /
func (h *BaseHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "campaignhub api",
		"environment": h.Cfg.Environment,
	})
}

type dbHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string   `json:"status"`
	DB     dbHealth `json:"db"`
}

// Health handles GET /health
// @Tags Health
// @Summary Service and database health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *BaseHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "degraded",
			DB:     dbHealth{Status: "down", Error: err.Error()},
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: dbHealth{Status: "ok"}})
}
