package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// BatchUpdateRequest represents the request body for batch update operations
type BatchUpdateRequest struct {
	Operations []BatchUpdateOperation `json:"operations" msgpack:"operations"`
}

// BatchUpdateOperation represents a single update operation in the request
type BatchUpdateOperation struct {
	ID      string                 `json:"id" msgpack:"id"`
	Updates map[string]interface{} `json:"updates" msgpack:"updates"`
}

// BatchUpdateResponse represents the response for batch update operations
type BatchUpdateResponse struct {
	Success      bool              `json:"success" msgpack:"success"`
	Message      string            `json:"message" msgpack:"message"`
	UpdatedCount int               `json:"updated_count" msgpack:"updated_count"`
	FailedCount  int               `json:"failed_count" msgpack:"failed_count"`
	Collection   string            `json:"collection" msgpack:"collection"`
	Documents    []domain.Document `json:"documents" msgpack:"documents"`
	Errors       []string          `json:"errors,omitempty" msgpack:"errors,omitempty"`
}

// HandleBatchUpdate handles PATCH requests that merge updates into several
// documents. Each operation stands alone: a failing one is reported and the
// rest are still applied.
func (h *Handler) HandleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	h.logger.Debugf("handleBatchUpdate called for collection '%s'", collName)

	var req BatchUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Operations) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "No operations provided")
		return
	}
	if len(req.Operations) > maxBatchSize {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d operations allowed per batch", maxBatchSize))
		return
	}

	response := BatchUpdateResponse{
		Collection: collName,
		Documents:  []domain.Document{},
	}
	for i, op := range req.Operations {
		if op.ID == "" {
			response.Errors = append(response.Errors, fmt.Sprintf("operation %d: document id is required", i))
			continue
		}
		updated, err := h.storage.UpdateById(collName, op.ID, domain.Document(op.Updates))
		if err != nil {
			response.Errors = append(response.Errors, fmt.Sprintf("operation %d: %v", i, err))
			continue
		}
		response.Documents = append(response.Documents, updated)
	}

	response.UpdatedCount = len(response.Documents)
	response.FailedCount = len(response.Errors)
	response.Success = response.FailedCount == 0
	if response.Success {
		response.Message = "Batch update completed successfully"
	} else {
		response.Message = fmt.Sprintf("Batch update completed with %d failures", response.FailedCount)
	}

	h.logger.Infof("batch update on collection '%s': %d updated, %d failed", collName, response.UpdatedCount, response.FailedCount)
	h.writeResponse(w, r, http.StatusOK, response)
}
