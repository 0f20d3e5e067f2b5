package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/adfharrison1/go-index/pkg/checksum"
	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/query"
)

// paginationParams are query parameters that are not field conditions
var paginationParams = []string{"limit", "offset", "after"}

// parsePaginationOptions reads limit, offset and after from the query string
func parsePaginationOptions(r *http.Request) (*domain.PaginationOptions, error) {
	options := domain.DefaultPaginationOptions()
	params := r.URL.Query()

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Errorf("invalid limit %q", raw)
		}
		options.Limit = limit
	}
	if raw := params.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Errorf("invalid offset %q", raw)
		}
		options.Offset = offset
	}
	options.After = params.Get("after")

	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// HandleFindAll handles GET requests to find documents with filter criteria.
// Each query parameter other than the pagination ones is a condition such as
// age=gt:30 or role=in:admin,user.
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	collName := mux.Vars(r)["coll"]

	h.logger.Debugf("handleFindAll called for collection '%s'", collName)

	options, err := parsePaginationOptions(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	conditions, err := query.ParseConditions(r.URL.Query(), paginationParams...)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.storage.FindAll(collName, conditions, options)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if result.UsedIndex != "" {
		h.logger.Debugf("found %d documents in collection '%s' using index on '%s'", len(result.Documents), collName, result.UsedIndex)
	} else {
		h.logger.Debugf("found %d documents in collection '%s' by full scan", len(result.Documents), collName)
	}

	data, contentType, err := encodeBody(r, result)
	if err != nil {
		h.writeError(w, err)
		return
	}

	etag := `"` + checksum.Hash(data) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warnf("writing response failed: %v", err)
	}
}
