package storage

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// getCollection returns an existing collection
func (se *StorageEngine) getCollection(collName string) (*collection, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	c, exists := se.collections[collName]
	if !exists {
		return nil, errors.Wrapf(domain.ErrCollectionNotFound, "collection %s", collName)
	}
	return c, nil
}

// getOrCreateCollection returns the named collection, creating it if needed
func (se *StorageEngine) getOrCreateCollection(collName string) (*collection, error) {
	se.mu.RLock()
	if c, exists := se.collections[collName]; exists {
		se.mu.RUnlock()
		return c, nil
	}
	se.mu.RUnlock()

	se.mu.Lock()
	defer se.mu.Unlock()

	// Double-check in case another goroutine created it
	if c, exists := se.collections[collName]; exists {
		return c, nil
	}
	return se.createCollectionLocked(collName)
}

// createCollectionLocked registers a collection and its automatic indexes.
// se.mu must be held for writing.
func (se *StorageEngine) createCollectionLocked(collName string) (*collection, error) {
	if collName == "" {
		return nil, errors.New("collection name cannot be empty")
	}

	c := newCollection(collName)
	se.collections[collName] = c

	// every collection is indexed by _id
	fields := append([]string{domain.IDField}, se.autoIndexes[collName]...)
	for _, field := range fields {
		if err := se.indexEngine.CreateIndex(collName, field); err != nil && !errors.Is(err, domain.ErrIndexExists) {
			return nil, err
		}
	}

	se.logger.Infof("created collection '%s' with indexes %v", collName, fields)
	return c, nil
}

// CreateCollection creates a new collection
func (se *StorageEngine) CreateCollection(collName string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	if _, exists := se.collections[collName]; exists {
		return errors.Wrapf(domain.ErrCollectionExists, "collection %s", collName)
	}
	_, err := se.createCollectionLocked(collName)
	return err
}

// DropCollection removes a collection and all of its indexes
func (se *StorageEngine) DropCollection(collName string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	if _, exists := se.collections[collName]; !exists {
		return errors.Wrapf(domain.ErrCollectionNotFound, "collection %s", collName)
	}
	delete(se.collections, collName)
	se.indexEngine.DropCollection(collName)

	se.logger.Infof("dropped collection '%s'", collName)
	return nil
}

// ListCollections describes every collection, sorted by name
func (se *StorageEngine) ListCollections() []domain.CollectionInfo {
	se.mu.RLock()
	collections := make([]*collection, 0, len(se.collections))
	for _, c := range se.collections {
		collections = append(collections, c)
	}
	se.mu.RUnlock()

	infos := make([]domain.CollectionInfo, 0, len(collections))
	for _, c := range collections {
		c.mu.RLock()
		count := len(c.docs)
		c.mu.RUnlock()
		infos = append(infos, domain.CollectionInfo{
			Name:          c.name,
			DocumentCount: count,
			Indexes:       se.indexEngine.GetIndexes(c.name),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
