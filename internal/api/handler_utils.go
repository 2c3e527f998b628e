package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/superleo/marketingops/backend/internal/apps"
	"github.com/superleo/marketingops/backend/internal/assistant"
	"github.com/superleo/marketingops/backend/internal/campaigns"
	"github.com/superleo/marketingops/backend/internal/generation"
	"github.com/superleo/marketingops/backend/internal/library"
	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/validation"
)

const maxBodyBytes = 16 << 20 // reference images arrive inline

type errorResponse struct {
	Error string          `json:"error"`
	Code  validation.Code `json:"code,omitempty"`
	Field string          `json:"field,omitempty"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithJSON sends a JSON response with the given status code and payload.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintf(w, "{\"error\": %q}", "failed to marshal JSON response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondWithErr maps a domain error onto its HTTP status.
func respondWithErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	var gerr *generation.Error
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if verr.Code != validation.CodeInvalidField {
			status = http.StatusUnprocessableEntity
		}
		respondWithJSON(w, status, errorResponse{Error: verr.Error(), Code: verr.Code, Field: verr.Field})
	case errors.Is(err, generation.ErrInsufficientFunds):
		respondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, campaigns.ErrCampaignNotFound),
		errors.Is(err, apps.ErrAppNotFound),
		errors.Is(err, library.ErrJobNotFound),
		errors.Is(err, assistant.ErrSessionNotFound),
		errors.Is(err, errItemNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrOperationInProgress):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.As(err, &gerr):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("provider request failed")
		respondWithError(w, http.StatusBadGateway, err.Error())
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &validation.Error{Code: validation.CodeInvalidField, Message: "unreadable request body: " + err.Error()}
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &validation.Error{Code: validation.CodeInvalidField, Message: "invalid request body: " + err.Error()}
	}
	return nil
}

var errItemNotFound = errors.New("library item not found")
