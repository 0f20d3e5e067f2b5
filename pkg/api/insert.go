package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// HandleInsert handles POST requests to insert documents into collections
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	h.logger.Debugf("handleInsert called for collection '%s'", collName)

	var doc map[string]interface{}
	if err := decodeBody(r, &doc); err != nil || doc == nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.storage.Insert(collName, domain.Document(doc))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debugf("inserted document '%s' into collection '%s'", stored.IndexKey(), collName)
	h.writeResponse(w, r, http.StatusCreated, stored)
}
