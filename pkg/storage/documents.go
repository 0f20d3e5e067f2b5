package storage

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/query"
)

// documentID returns the string form of the _id in doc, if any
func documentID(doc domain.Document) (string, bool) {
	raw, ok := doc[domain.IDField]
	if !ok || raw == nil {
		return "", false
	}
	if id, ok := raw.(string); ok {
		return id, id != ""
	}
	return fmt.Sprint(raw), true
}

// insertLocked stores a copy of doc and indexes it. c.mu must be held for writing.
func (se *StorageEngine) insertLocked(c *collection, doc domain.Document) (domain.Document, error) {
	stored := doc.Clone()

	id, hasID := documentID(stored)
	if hasID {
		if _, exists := c.docs[id]; exists {
			return nil, errors.Wrapf(domain.ErrDuplicateID, "document %s in collection %s", id, c.name)
		}
	} else {
		// Generate unique ID, skipping ids chosen by clients
		for {
			id = strconv.FormatInt(c.nextID.Add(1), 10)
			if _, exists := c.docs[id]; !exists {
				break
			}
		}
	}
	stored[domain.IDField] = id

	c.docs[id] = stored
	se.indexEngine.UpdateIndexForDocument(c.name, nil, stored)
	c.lastModified = time.Now()
	return stored, nil
}

// Insert inserts a document into a collection, creating the collection if needed
func (se *StorageEngine) Insert(collName string, doc domain.Document) (domain.Document, error) {
	c, err := se.getOrCreateCollection(collName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return se.insertLocked(c, doc)
}

// BatchInsert inserts several documents under one collection lock. It stops
// at the first failing document; documents before it stay inserted.
func (se *StorageEngine) BatchInsert(collName string, docs []domain.Document) ([]domain.Document, error) {
	c, err := se.getOrCreateCollection(collName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inserted := make([]domain.Document, 0, len(docs))
	for i, doc := range docs {
		stored, err := se.insertLocked(c, doc)
		if err != nil {
			return inserted, errors.Wrapf(err, "batch item %d", i)
		}
		inserted = append(inserted, stored)
	}
	return inserted, nil
}

// GetById retrieves a specific document by its ID
func (se *StorageEngine) GetById(collName, docId string) (domain.Document, error) {
	c, err := se.getCollection(collName)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, exists := c.docs[docId]
	if !exists {
		return nil, errors.Wrapf(domain.ErrDocumentNotFound, "document %s in collection %s", docId, collName)
	}
	return doc, nil
}

// replaceLocked swaps the stored document for newDoc and moves its index
// entries from the old values to the new ones. c.mu must be held for writing.
func (se *StorageEngine) replaceLocked(c *collection, oldDoc, newDoc domain.Document) {
	c.docs[newDoc.IndexKey()] = newDoc
	se.indexEngine.UpdateIndexForDocument(c.name, oldDoc, newDoc)
	c.lastModified = time.Now()
}

// UpdateById merges updates into a document. The _id cannot be changed.
func (se *StorageEngine) UpdateById(collName, docId string, updates domain.Document) (domain.Document, error) {
	c, err := se.getCollection(collName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	oldDoc, exists := c.docs[docId]
	if !exists {
		return nil, errors.Wrapf(domain.ErrDocumentNotFound, "document %s in collection %s", docId, collName)
	}

	newDoc := oldDoc.Clone()
	for key, v := range updates {
		if key != domain.IDField {
			newDoc[key] = v
		}
	}
	se.replaceLocked(c, oldDoc, newDoc)
	return newDoc, nil
}

// ReplaceById replaces a whole document, keeping its _id
func (se *StorageEngine) ReplaceById(collName, docId string, doc domain.Document) (domain.Document, error) {
	c, err := se.getCollection(collName)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	oldDoc, exists := c.docs[docId]
	if !exists {
		return nil, errors.Wrapf(domain.ErrDocumentNotFound, "document %s in collection %s", docId, collName)
	}

	newDoc := doc.Clone()
	newDoc[domain.IDField] = docId
	se.replaceLocked(c, oldDoc, newDoc)
	return newDoc, nil
}

// DeleteById removes a specific document by its ID
func (se *StorageEngine) DeleteById(collName, docId string) error {
	c, err := se.getCollection(collName)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, exists := c.docs[docId]
	if !exists {
		return errors.Wrapf(domain.ErrDocumentNotFound, "document %s in collection %s", docId, collName)
	}

	delete(c.docs, docId)
	se.indexEngine.UpdateIndexForDocument(collName, doc, nil)
	c.lastModified = time.Now()
	return nil
}

// FindAll returns documents matching every condition. An empty condition list
// matches all documents.
func (se *StorageEngine) FindAll(collName string, conditions []domain.Condition, options *domain.PaginationOptions) (*domain.PaginationResult, error) {
	if options == nil {
		options = domain.DefaultPaginationOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pagination options")
	}
	for _, cond := range conditions {
		if err := query.Validate(cond); err != nil {
			return nil, err
		}
	}

	c, err := se.getCollection(collName)
	if err != nil {
		return nil, err
	}

	candidates, usedIndex := se.planQuery(c, conditions)
	matches := query.FromConditions(conditions)

	seen := make(map[string]struct{})
	var docs []domain.Document
	for doc := range candidates {
		id := doc.IndexKey()
		if _, dup := seen[id]; dup {
			continue
		}
		if matches.Eval(doc) {
			seen[id] = struct{}{}
			docs = append(docs, doc)
		}
	}

	result, err := applyPagination(docs, options)
	if err != nil {
		return nil, err
	}
	result.UsedIndex = usedIndex
	return result, nil
}

// planQuery picks the candidate documents for conditions. Among the
// conditions an index can answer it uses the smallest result set; with none
// it falls back to a full scan. The returned field is empty for a scan.
func (se *StorageEngine) planQuery(c *collection, conditions []domain.Condition) (iter.Seq[domain.Document], string) {
	var (
		best      domain.ResultSet
		bestField string
		bestLen   int
	)
	for _, cond := range conditions {
		index, exists := se.indexEngine.GetIndex(c.name, cond.Field)
		if !exists {
			continue
		}
		rs, ok := index.Query(cond)
		if !ok {
			continue
		}
		if n := rs.Len(); best == nil || n < bestLen {
			best, bestField, bestLen = rs, cond.Field, n
		}
	}

	if best == nil {
		return func(yield func(domain.Document) bool) {
			for _, doc := range c.snapshot() {
				if !yield(doc) {
					return
				}
			}
		}, ""
	}

	se.logger.Debugf("query on '%s' served by index on '%s' (%d candidates)", c.name, bestField, bestLen)
	return func(yield func(domain.Document) bool) {
		for record := range best.All() {
			if doc, ok := record.(domain.Document); ok && !yield(doc) {
				return
			}
		}
	}, bestField
}

// lessID orders document IDs numerically when both are integers
func lessID(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai < bi
	}
	if (errA == nil) != (errB == nil) {
		return errA == nil
	}
	return a < b
}

// applyPagination sorts documents by ID and cuts out the requested page
func applyPagination(docs []domain.Document, options *domain.PaginationOptions) (*domain.PaginationResult, error) {
	sort.Slice(docs, func(i, j int) bool {
		return lessID(docs[i].IndexKey(), docs[j].IndexKey())
	})

	result := &domain.PaginationResult{
		Documents: []domain.Document{},
		Total:     int64(len(docs)),
	}

	startIndex := options.Offset
	if options.After != "" {
		cursor, err := domain.DecodeCursor(options.After)
		if err != nil {
			return nil, errors.Wrap(err, "invalid after cursor")
		}
		// first document ordered after the cursor
		startIndex = sort.Search(len(docs), func(i int) bool {
			return lessID(cursor.ID, docs[i].IndexKey())
		})
	}

	limit := options.Limit
	if limit <= 0 {
		limit = 50 // default
	}
	if options.MaxLimit > 0 && limit > options.MaxLimit {
		limit = options.MaxLimit
	}

	if startIndex >= len(docs) {
		result.HasPrev = startIndex > 0 && len(docs) > 0
		return result, nil
	}

	endIndex := startIndex + limit
	if endIndex < len(docs) {
		result.HasNext = true
	} else {
		endIndex = len(docs)
	}
	result.HasPrev = startIndex > 0
	result.Documents = docs[startIndex:endIndex]

	if result.HasNext {
		lastDoc := result.Documents[len(result.Documents)-1]
		next, err := domain.EncodeCursor(&domain.Cursor{ID: lastDoc.IndexKey()})
		if err != nil {
			return nil, err
		}
		result.NextCursor = next
	}

	return result, nil
}
