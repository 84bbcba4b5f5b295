package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/osse101/playcredits/internal/domain"
	"github.com/osse101/playcredits/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// encodeBuffers recycles response bodies; buffers grown past maxPooledBuffer
// by a large leaderboard are dropped instead of returned
var encodeBuffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

const maxPooledBuffer = 64 << 10

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		if buf.Cap() <= maxPooledBuffer {
			encodeBuffers.Put(buf)
		}
	}()

	// Encode before writing headers so an encoding failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		logger.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err with the operation name and writes the mapped user-facing message
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceFailed, "operation", op, "status", status, "error", err)
	} else {
		log.Warn(LogMsgServiceFailed, "operation", op, "status", status, "error", err)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgInvalidRequestError  = "Invalid request. Please check your inputs."
	ErrMsgRateBelowMinimumErr  = "Base rate is below the allowed minimum"
	ErrMsgInvalidPeriodKindErr = "Unknown leaderboard period kind"
	ErrMsgGameNotFoundError    = "Game not found"
	ErrMsgGameExistsError      = "A game with that name already exists"
	ErrMsgPeriodNotFoundError  = "Leaderboard period not found"
	ErrMsgPeriodCorruptError   = "Stored period is inconsistent with the calendar"
	ErrMsgAuthFailedError      = "Authentication failed. Please check your API key."
	ErrMsgTooManyRequestsError = "Too many requests. Please try again later."
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."
)

// mapServiceErrorToUserMessage converts service errors to status codes and
// messages that never echo internal details
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrRateBelowMinimum):
		return http.StatusBadRequest, ErrMsgRateBelowMinimumErr
	case errors.Is(err, domain.ErrInvalidPeriodKind):
		return http.StatusBadRequest, ErrMsgInvalidPeriodKindErr
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrUnknownGame):
		return http.StatusNotFound, ErrMsgGameNotFoundError
	case errors.Is(err, domain.ErrPeriodNotFound):
		return http.StatusNotFound, ErrMsgPeriodNotFoundError
	case errors.Is(err, domain.ErrDuplicateGame):
		return http.StatusConflict, ErrMsgGameExistsError
	case errors.Is(err, domain.ErrBoundaryMismatch):
		return http.StatusInternalServerError, ErrMsgPeriodCorruptError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
