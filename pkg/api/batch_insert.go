package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// BatchInsertRequest represents the request body for batch insert operations
type BatchInsertRequest struct {
	Documents []map[string]interface{} `json:"documents" msgpack:"documents"`
}

// BatchInsertResponse represents the response for batch insert operations
type BatchInsertResponse struct {
	Success       bool              `json:"success" msgpack:"success"`
	Message       string            `json:"message" msgpack:"message"`
	InsertedCount int               `json:"inserted_count" msgpack:"inserted_count"`
	Collection    string            `json:"collection" msgpack:"collection"`
	Documents     []domain.Document `json:"documents" msgpack:"documents"`
}

// HandleBatchInsert handles POST requests to insert multiple documents into collections
func (h *Handler) HandleBatchInsert(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	h.logger.Debugf("handleBatchInsert called for collection '%s'", collName)

	var req BatchInsertRequest
	if err := decodeBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Documents) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "No documents provided")
		return
	}
	if len(req.Documents) > maxBatchSize {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d documents allowed per batch", maxBatchSize))
		return
	}

	docs := make([]domain.Document, len(req.Documents))
	for i, doc := range req.Documents {
		if doc == nil {
			doc = map[string]interface{}{}
		}
		docs[i] = domain.Document(doc)
	}

	inserted, err := h.storage.BatchInsert(collName, docs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Infof("batch insert into collection '%s' inserted %d documents", collName, len(inserted))
	h.writeResponse(w, r, http.StatusCreated, BatchInsertResponse{
		Success:       true,
		Message:       "Batch insert completed successfully",
		InsertedCount: len(inserted),
		Collection:    collName,
		Documents:     inserted,
	})
}
