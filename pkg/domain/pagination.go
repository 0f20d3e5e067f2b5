package domain

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// PaginationOptions defines pagination parameters
type PaginationOptions struct {
	// Cursor-based pagination
	After string `json:"after,omitempty"` // Base64 encoded cursor

	// Limit/offset pagination (fallback)
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	MaxLimit int `json:"max_limit,omitempty"`
}

// PaginationResult contains pagination metadata
type PaginationResult struct {
	Documents  []Document `json:"documents" msgpack:"documents"`
	HasNext    bool       `json:"has_next" msgpack:"has_next"`
	HasPrev    bool       `json:"has_prev" msgpack:"has_prev"`
	NextCursor string     `json:"next_cursor,omitempty" msgpack:"next_cursor,omitempty"`
	Total      int64      `json:"total" msgpack:"total"`
	UsedIndex  string     `json:"used_index,omitempty" msgpack:"used_index,omitempty"`
}

// Cursor represents a pagination cursor
type Cursor struct {
	ID string `json:"id"`
}

// EncodeCursor encodes a cursor to base64
func EncodeCursor(cursor *Cursor) (string, error) {
	data, err := json.Marshal(cursor)
	if err != nil {
		return "", errors.Wrap(err, "marshaling cursor")
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a base64 cursor
func DecodeCursor(encoded string) (*Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decoding cursor")
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, errors.Wrap(err, "unmarshaling cursor")
	}

	return &cursor, nil
}

// DefaultPaginationOptions returns default pagination settings
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		Limit:    50,
		MaxLimit: 1000,
	}
}

// Validate validates pagination options
func (po *PaginationOptions) Validate() error {
	if po.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if po.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if po.MaxLimit > 0 && po.Limit > po.MaxLimit {
		return errors.Errorf("limit %d exceeds maximum %d", po.Limit, po.MaxLimit)
	}
	if po.After != "" && po.Offset > 0 {
		return errors.New("cannot mix cursor-based and offset-based pagination")
	}
	return nil
}
