package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error" msgpack:"error"`
	Message string `json:"message" msgpack:"message"`
	Code    int    `json:"code" msgpack:"code"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	_ = json.NewEncoder(w).Encode(response)
}

// statusForError maps storage errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound),
		errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrCollectionExists),
		errors.Is(err, domain.ErrIndexExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCondition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it with the status it maps to
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	statusCode := statusForError(err)
	if statusCode >= http.StatusInternalServerError {
		h.logger.Errorf("%v", err)
	} else {
		h.logger.Infof("request failed: %v", err)
	}
	WriteJSONError(w, statusCode, err.Error())
}
