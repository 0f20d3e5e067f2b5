package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// HandleGetById handles GET requests to retrieve a specific document by ID
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName, docId := vars["coll"], vars["id"]

	h.logger.Debugf("handleGetById called for collection '%s', document '%s'", collName, docId)

	doc, err := h.storage.GetById(collName, docId)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, doc)
}

// HandleUpdateById handles PATCH requests that merge fields into a document
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName, docId := vars["coll"], vars["id"]

	h.logger.Debugf("handleUpdateById called for collection '%s', document '%s'", collName, docId)

	var updates map[string]interface{}
	if err := decodeBody(r, &updates); err != nil || updates == nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.storage.UpdateById(collName, docId, domain.Document(updates))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, doc)
}

// HandleReplaceById handles PUT requests that replace a whole document
func (h *Handler) HandleReplaceById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName, docId := vars["coll"], vars["id"]

	h.logger.Debugf("handleReplaceById called for collection '%s', document '%s'", collName, docId)

	var replacement map[string]interface{}
	if err := decodeBody(r, &replacement); err != nil || replacement == nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.storage.ReplaceById(collName, docId, domain.Document(replacement))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, doc)
}

// HandleDeleteById handles DELETE requests to remove a specific document by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName, docId := vars["coll"], vars["id"]

	h.logger.Debugf("handleDeleteById called for collection '%s', document '%s'", collName, docId)

	if err := h.storage.DeleteById(collName, docId); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
