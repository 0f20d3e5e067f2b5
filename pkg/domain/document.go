package domain

// IDField is the document field holding the record key
const IDField = "_id"

// Document represents a document in the database. Documents are treated as
// immutable once stored: writers replace them instead of mutating in place.
type Document map[string]interface{}

// IndexKey returns the document ID, implementing Record
func (d Document) IndexKey() string {
	id, _ := d[IDField].(string)
	return id
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	clone := make(Document, len(d))
	for k, v := range d {
		clone[k] = v
	}
	return clone
}

// CollectionInfo describes a collection for listing endpoints
type CollectionInfo struct {
	Name          string   `json:"name" msgpack:"name"`
	DocumentCount int      `json:"document_count" msgpack:"document_count"`
	Indexes       []string `json:"indexes" msgpack:"indexes"`
}
