package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/period"
)

// maxBodyBytes caps request bodies; every request here is a small JSON object
const maxBodyBytes = 1 << 20

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// If it returns an error, the HTTP response has already been written and the handler should return.
//
//	var req LogSessionRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Log session"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(LogMsgRequestDecoded, "action", actionName)

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetOptionalQueryParam returns the query parameter or defaultValue when it is absent
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseLimit reads the optional limit query parameter. Zero means the service default.
// If ok is false, the HTTP response has already been written.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	return limit, true
}

// parseIDParam reads a positive integer chi URL parameter.
// If ok is false, the HTTP response has already been written.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidID, name))
		return 0, false
	}
	return id, true
}

// parseKind reads a period kind query parameter, falling back to defaultKind.
// If ok is false, the HTTP response has already been written.
func parseKind(w http.ResponseWriter, r *http.Request, defaultKind domain.PeriodKind) (domain.PeriodKind, bool) {
	raw := r.URL.Query().Get("kind")
	if raw == "" {
		return defaultKind, true
	}
	kind, err := period.ParseKind(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidKind)
		return "", false
	}
	return kind, true
}

// parseAt reads the optional RFC3339 at query parameter.
// If ok is false, the HTTP response has already been written.
func parseAt(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return nil, true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidTimestamp)
		return nil, false
	}
	return &at, true
}

// parseKindValue parses an already validated kind from a request body.
// If ok is false, the HTTP response has already been written.
func parseKindValue(w http.ResponseWriter, raw string) (domain.PeriodKind, bool) {
	kind, err := period.ParseKind(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidKind)
		return "", false
	}
	return kind, true
}
