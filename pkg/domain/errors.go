package domain

import "github.com/pkg/errors"

// Sentinel errors returned, wrapped with context, by the storage and index
// engines. Test for them with errors.Is or errors.Cause.
var (
	ErrCollectionNotFound = errors.New("collection does not exist")
	ErrCollectionExists   = errors.New("collection already exists")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrDuplicateID        = errors.New("document id already exists")
	ErrIndexExists        = errors.New("index already exists")
	ErrIndexNotFound      = errors.New("index does not exist")
	ErrInvalidCondition   = errors.New("invalid condition")
)
