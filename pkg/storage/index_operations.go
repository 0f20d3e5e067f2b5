package storage

import (
	"github.com/adfharrison1/go-index/pkg/domain"
)

// CreateIndex creates an index on a specific field in a collection and
// builds it from the current documents. Writers wait until the build ends;
// queries keep scanning until the finished index is published.
func (se *StorageEngine) CreateIndex(collName, fieldName string) error {
	c, err := se.getCollection(collName)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	docs := make([]domain.Document, 0, len(c.docs))
	for _, doc := range c.docs {
		docs = append(docs, doc)
	}
	if err := se.indexEngine.BuildIndexForCollection(collName, fieldName, docs); err != nil {
		return err
	}

	se.logger.Infof("created index on field '%s' in collection '%s' over %d documents", fieldName, collName, len(docs))
	return nil
}

// DropIndex removes an index from a collection
func (se *StorageEngine) DropIndex(collName, fieldName string) error {
	if _, err := se.getCollection(collName); err != nil {
		return err
	}
	return se.indexEngine.DropIndex(collName, fieldName)
}

// GetIndexes returns all index names for a collection
func (se *StorageEngine) GetIndexes(collName string) ([]string, error) {
	if _, err := se.getCollection(collName); err != nil {
		return nil, err
	}
	return se.indexEngine.GetIndexes(collName), nil
}

// IndexStats summarizes one index of a collection
func (se *StorageEngine) IndexStats(collName, fieldName string) (*domain.IndexStats, error) {
	if _, err := se.getCollection(collName); err != nil {
		return nil, err
	}
	return se.indexEngine.Stats(collName, fieldName)
}
