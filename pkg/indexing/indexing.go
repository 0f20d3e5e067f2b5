package indexing

import (
	"runtime"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/value"
)

// buildChunkSize is the number of documents each build worker indexes
const buildChunkSize = 1024

// IndexEngine keeps the field indexes of every collection
type IndexEngine struct {
	mu      sync.RWMutex
	indexes map[string]map[string]*FieldIndex // Collection name -> field name -> index

	storeOptions []StoreOption
	logger       *zap.SugaredLogger
}

// EngineOption configures an IndexEngine
type EngineOption func(*IndexEngine)

// WithStoreOptions sets the options used for every store the engine creates
func WithStoreOptions(options ...StoreOption) EngineOption {
	return func(ie *IndexEngine) {
		ie.storeOptions = append(ie.storeOptions, options...)
	}
}

// WithLogger sets the engine logger
func WithLogger(logger *zap.SugaredLogger) EngineOption {
	return func(ie *IndexEngine) {
		ie.logger = logger
	}
}

// NewIndexEngine creates a new index engine
func NewIndexEngine(options ...EngineOption) *IndexEngine {
	ie := &IndexEngine{
		indexes: make(map[string]map[string]*FieldIndex),
		logger:  zap.NewNop().Sugar(),
	}
	for _, option := range options {
		option(ie)
	}
	return ie
}

// FieldIndex indexes the documents of one collection by one field. Values are
// split by kind into separate stores so a store only ever compares values
// of the same kind; a condition on one kind never matches another.
type FieldIndex struct {
	Field  string
	stores [value.KindCount]*UnsortedIndexStore
}

// NewFieldIndex creates an index on a specific field.
func NewFieldIndex(field string, options ...StoreOption) *FieldIndex {
	idx := &FieldIndex{Field: field}
	for kind := range idx.stores {
		if value.ValueKind(kind) != value.KindInvalid {
			idx.stores[kind] = NewUnsortedIndexStore(options...)
		}
	}
	return idx
}

// fieldValue returns the normalized value of the indexed field in doc
func (idx *FieldIndex) fieldValue(doc domain.Document) (interface{}, value.ValueKind) {
	if doc == nil {
		return nil, value.KindInvalid
	}
	raw, ok := doc[idx.Field]
	if !ok {
		return nil, value.KindInvalid
	}
	return value.Normalize(raw)
}

// Add indexes doc under its field value. Documents without the field, or with
// a value that cannot be indexed, are skipped.
func (idx *FieldIndex) Add(doc domain.Document) {
	if v, kind := idx.fieldValue(doc); kind != value.KindInvalid {
		idx.stores[kind].Insert(v, doc)
	}
}

// Remove drops doc from the index. doc must carry the value it was indexed under.
func (idx *FieldIndex) Remove(doc domain.Document) {
	if v, kind := idx.fieldValue(doc); kind != value.KindInvalid {
		idx.stores[kind].Remove(v, doc.IndexKey())
	}
}

// UpdateIndex moves a document from the value in oldDoc to the value in
// newDoc. Either may be nil for inserts and deletes.
func (idx *FieldIndex) UpdateIndex(oldDoc, newDoc domain.Document) {
	oldVal, oldKind := idx.fieldValue(oldDoc)
	newVal, newKind := idx.fieldValue(newDoc)

	// Same value: upsert replaces the record in place
	if oldKind != value.KindInvalid && oldKind == newKind && value.Compare(oldVal, newVal) == 0 &&
		oldDoc.IndexKey() == newDoc.IndexKey() {
		idx.stores[newKind].Insert(newVal, newDoc)
		return
	}

	if oldKind != value.KindInvalid {
		idx.stores[oldKind].Remove(oldVal, oldDoc.IndexKey())
	}
	if newKind != value.KindInvalid {
		idx.stores[newKind].Insert(newVal, newDoc)
	}
}

// BuildIndex indexes docs using several workers at once.
func (idx *FieldIndex) BuildIndex(docs []domain.Document) {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < len(docs); start += buildChunkSize {
		chunk := docs[start:min(start+buildChunkSize, len(docs))]
		g.Go(func() error {
			for _, doc := range chunk {
				idx.Add(doc)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Query answers cond from the index. It returns false when the index cannot
// serve the condition, for example when an operand is not indexable.
func (idx *FieldIndex) Query(cond domain.Condition) (domain.ResultSet, bool) {
	switch cond.Op {
	case domain.OpEqual:
		v, kind := value.Normalize(cond.Value)
		if kind == value.KindInvalid {
			return nil, false
		}
		return idx.stores[kind].LookupEqual(v), true

	case domain.OpIn:
		var byKind [value.KindCount][]interface{}
		for _, raw := range cond.Values {
			v, kind := value.Normalize(raw)
			if kind == value.KindInvalid {
				return nil, false
			}
			byKind[kind] = append(byKind[kind], v)
		}
		results := NewMultiResultSet()
		for kind, values := range byKind {
			if len(values) > 0 {
				results.Merge(idx.stores[kind].LookupEqualAny(values))
			}
		}
		return results, true

	case domain.OpBetween:
		if len(cond.Values) != 2 {
			return nil, false
		}
		from, fromKind := value.Normalize(cond.Values[0])
		to, toKind := value.Normalize(cond.Values[1])
		if fromKind == value.KindInvalid || fromKind != toKind {
			return nil, false
		}
		return idx.stores[fromKind].LookupRange(from, to), true
	}

	op, ok := cond.Op.Comparison()
	if !ok {
		return nil, false
	}
	v, kind := value.Normalize(cond.Value)
	if kind == value.KindInvalid {
		return nil, false
	}
	return idx.stores[kind].LookupCompare(op, v), true
}

// Stats returns the number of distinct values and records in the index
func (idx *FieldIndex) Stats() (distinct, records int) {
	for _, store := range idx.stores {
		if store == nil {
			continue
		}
		distinct += store.DistinctValues()
		records += store.RecordCount()
	}
	return distinct, records
}

// CreateIndex creates an index on a specific field in a collection
func (ie *IndexEngine) CreateIndex(collName, fieldName string) error {
	ie.mu.Lock()
	defer ie.mu.Unlock()

	// Initialize indexes map for this collection if it doesn't exist
	if ie.indexes[collName] == nil {
		ie.indexes[collName] = make(map[string]*FieldIndex)
	}

	if _, exists := ie.indexes[collName][fieldName]; exists {
		return errors.Wrapf(domain.ErrIndexExists, "index on field %s in collection %s", fieldName, collName)
	}

	ie.indexes[collName][fieldName] = NewFieldIndex(fieldName, ie.storeOptions...)
	ie.logger.Debugf("created index on %s.%s", collName, fieldName)
	return nil
}

// DropIndex removes an index from a collection
func (ie *IndexEngine) DropIndex(collName, fieldName string) error {
	ie.mu.Lock()
	defer ie.mu.Unlock()

	if _, exists := ie.indexes[collName][fieldName]; !exists {
		return errors.Wrapf(domain.ErrIndexNotFound, "index on field %s in collection %s", fieldName, collName)
	}

	delete(ie.indexes[collName], fieldName)
	ie.logger.Debugf("dropped index on %s.%s", collName, fieldName)
	return nil
}

// DropCollection removes every index of a collection
func (ie *IndexEngine) DropCollection(collName string) {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	delete(ie.indexes, collName)
}

// GetIndexes returns all index names for a collection, sorted
func (ie *IndexEngine) GetIndexes(collName string) []string {
	ie.mu.RLock()
	defer ie.mu.RUnlock()

	indexNames := make([]string, 0, len(ie.indexes[collName]))
	for fieldName := range ie.indexes[collName] {
		indexNames = append(indexNames, fieldName)
	}
	sort.Strings(indexNames)
	return indexNames
}

// GetIndex returns the index for a specific field in a collection
func (ie *IndexEngine) GetIndex(collName, fieldName string) (*FieldIndex, bool) {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	index, exists := ie.indexes[collName][fieldName]
	return index, exists
}

// BuildIndexForCollection builds a new index on fieldName from docs and
// publishes it once every document is indexed. Until then readers see no
// index on the field and fall back to scanning. Callers must keep writers
// to the collection out for the duration of the build.
func (ie *IndexEngine) BuildIndexForCollection(collName, fieldName string, docs []domain.Document) error {
	if _, exists := ie.GetIndex(collName, fieldName); exists {
		return errors.Wrapf(domain.ErrIndexExists, "index on field %s in collection %s", fieldName, collName)
	}

	index := NewFieldIndex(fieldName, ie.storeOptions...)
	index.BuildIndex(docs)

	ie.mu.Lock()
	defer ie.mu.Unlock()
	if ie.indexes[collName] == nil {
		ie.indexes[collName] = make(map[string]*FieldIndex)
	}
	if _, exists := ie.indexes[collName][fieldName]; exists {
		return errors.Wrapf(domain.ErrIndexExists, "index on field %s in collection %s", fieldName, collName)
	}
	ie.indexes[collName][fieldName] = index
	ie.logger.Debugf("built index on %s.%s from %d documents", collName, fieldName, len(docs))
	return nil
}

// UpdateIndexForDocument updates every index of a collection when a document
// changes. oldDoc is nil for inserts and newDoc is nil for deletes.
func (ie *IndexEngine) UpdateIndexForDocument(collName string, oldDoc, newDoc domain.Document) {
	ie.mu.RLock()
	indexes := make([]*FieldIndex, 0, len(ie.indexes[collName]))
	for _, index := range ie.indexes[collName] {
		indexes = append(indexes, index)
	}
	ie.mu.RUnlock()

	for _, index := range indexes {
		index.UpdateIndex(oldDoc, newDoc)
	}
}

// Stats summarizes the index on fieldName
func (ie *IndexEngine) Stats(collName, fieldName string) (*domain.IndexStats, error) {
	index, exists := ie.GetIndex(collName, fieldName)
	if !exists {
		return nil, errors.Wrapf(domain.ErrIndexNotFound, "index on field %s in collection %s", fieldName, collName)
	}
	distinct, records := index.Stats()
	return &domain.IndexStats{
		Collection:     collName,
		Field:          fieldName,
		DistinctValues: distinct,
		Records:        records,
	}, nil
}

// AllStats summarizes every index of every collection
func (ie *IndexEngine) AllStats() []domain.IndexStats {
	ie.mu.RLock()
	type entry struct {
		coll  string
		index *FieldIndex
	}
	var entries []entry
	for collName, fields := range ie.indexes {
		for _, index := range fields {
			entries = append(entries, entry{coll: collName, index: index})
		}
	}
	ie.mu.RUnlock()

	stats := make([]domain.IndexStats, 0, len(entries))
	for _, e := range entries {
		distinct, records := e.index.Stats()
		stats = append(stats, domain.IndexStats{
			Collection:     e.coll,
			Field:          e.index.Field,
			DistinctValues: distinct,
			Records:        records,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Collection != stats[j].Collection {
			return stats[i].Collection < stats[j].Collection
		}
		return stats[i].Field < stats[j].Field
	})
	return stats
}
