package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
)

// decodeBody reads the request body as msgpack or JSON depending on its Content-Type
func decodeBody(r *http.Request, v interface{}) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeMsgpack) {
		return errors.Wrap(msgpack.NewDecoder(r.Body).Decode(v), "decoding msgpack body")
	}
	return errors.Wrap(json.NewDecoder(r.Body).Decode(v), "decoding json body")
}

// encodeBody encodes v in the format the client accepts
func encodeBody(r *http.Request, v interface{}) ([]byte, string, error) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		// sorted keys keep the encoding stable for ETags
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)
		err := enc.Encode(v)
		return buf.Bytes(), contentTypeMsgpack, errors.Wrap(err, "encoding msgpack response")
	}
	data, err := json.Marshal(v)
	return data, contentTypeJSON, errors.Wrap(err, "encoding json response")
}

// writeResponse encodes v and writes it with the given status code
func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	data, contentType, err := encodeBody(r, v)
	if err != nil {
		h.logger.Errorf("%v", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(data); err != nil {
		h.logger.Warnf("writing response failed: %v", err)
	}
}
