package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// HandleCreateIndex creates an index on a specific field in a collection
func (h *Handler) HandleCreateIndex(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName, fieldName := vars["coll"], vars["field"]

	if fieldName == "" {
		WriteJSONError(w, http.StatusBadRequest, "field name is required")
		return
	}

	// _id is indexed with every collection
	if fieldName == domain.IDField {
		WriteJSONError(w, http.StatusBadRequest, "cannot create index on _id field (automatically indexed)")
		return
	}

	if err := h.storage.CreateIndex(collName, fieldName); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResponse(w, r, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Index created successfully",
		"collection": collName,
		"field":      fieldName,
	})
}

// HandleDropIndex removes an index from a collection
func (h *Handler) HandleDropIndex(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName, fieldName := vars["coll"], vars["field"]

	if fieldName == domain.IDField {
		WriteJSONError(w, http.StatusBadRequest, "cannot drop index on _id field")
		return
	}

	if err := h.storage.DropIndex(collName, fieldName); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetIndexes handles GET requests to retrieve all indexes for a collection
func (h *Handler) HandleGetIndexes(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	h.logger.Debugf("handleGetIndexes called for collection '%s'", collName)

	indexes, err := h.storage.GetIndexes(collName)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":     true,
		"collection":  collName,
		"indexes":     indexes,
		"index_count": len(indexes),
	})
}

// HandleIndexStats reports the distinct values and records held by one index
func (h *Handler) HandleIndexStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	stats, err := h.storage.IndexStats(vars["coll"], vars["field"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, stats)
}
