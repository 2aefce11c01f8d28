package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"campaignhub/internal/interfaces"
	"campaignhub/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSONErrorResponse(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

// writeServiceError maps the tagged service errors onto status codes.
// Anything untagged is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var (
		ve *interfaces.ValidationError
		nf *interfaces.NotFoundError
		ad *interfaces.AccessDeniedError
		ce *interfaces.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", ve.Message)
	case errors.As(err, &nf):
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", nf.Error())
	case errors.As(err, &ad):
		writeJSONErrorResponse(w, http.StatusForbidden, "access_denied", ad.Error())
	case errors.As(err, &ce):
		writeJSONErrorResponse(w, http.StatusConflict, "conflict", ce.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", fe.Namespace()+" failed on '"+fe.Tag()+"'")
		return
	}
	writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
}

// projectID returns the project of the authenticated caller, writing a 401
// when there is none.
func projectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || p.ProjectID == "" {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "No project in credentials")
		return "", false
	}
	return p.ProjectID, true
}
