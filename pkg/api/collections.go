package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleListCollections lists every collection with its document count and indexes
func (h *Handler) HandleListCollections(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, http.StatusOK, h.storage.ListCollections())
}

// HandleCreateCollection creates an empty collection
func (h *Handler) HandleCreateCollection(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	if err := h.storage.CreateCollection(collName); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeResponse(w, r, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"collection": collName,
	})
}

// HandleDropCollection removes a collection with its documents and indexes
func (h *Handler) HandleDropCollection(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	if err := h.storage.DropCollection(collName); err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Infof("dropped collection '%s'", collName)
	w.WriteHeader(http.StatusNoContent)
}
