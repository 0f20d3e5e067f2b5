package storage

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/indexing"
)

// Ensure StorageEngine implements the domain interfaces.
var _ domain.DatabaseEngine = (*StorageEngine)(nil)

// collection holds the documents of one collection. mu serializes writers so
// that each document change and its index maintenance happen together.
type collection struct {
	mu           sync.RWMutex
	name         string
	docs         map[string]domain.Document
	nextID       atomic.Int64
	createdAt    time.Time
	lastModified time.Time
}

func newCollection(name string) *collection {
	now := time.Now()
	return &collection{
		name:         name,
		docs:         make(map[string]domain.Document),
		createdAt:    now,
		lastModified: now,
	}
}

// snapshot copies the current documents under the read lock
func (c *collection) snapshot() []domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	docs := make([]domain.Document, 0, len(c.docs))
	for _, doc := range c.docs {
		docs = append(docs, doc)
	}
	return docs
}

// StorageEngine keeps collections of documents in memory and maintains
// their secondary indexes.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*collection
	indexEngine *indexing.IndexEngine

	// Configuration
	logger        *zap.SugaredLogger
	shardCount    int
	statsInterval time.Duration
	autoIndexes   map[string][]string // collection -> fields indexed on creation

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections: make(map[string]*collection),
		logger:      zap.NewNop().Sugar(),
		autoIndexes: make(map[string][]string),
		stopChan:    make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(engine)
	}

	var storeOptions []indexing.StoreOption
	if engine.shardCount > 0 {
		storeOptions = append(storeOptions, indexing.WithShardCount(engine.shardCount))
	}
	engine.indexEngine = indexing.NewIndexEngine(
		indexing.WithLogger(engine.logger.Named("indexing")),
		indexing.WithStoreOptions(storeOptions...),
	)

	return engine
}

// GetIndexEngine returns the index engine instance
func (se *StorageEngine) GetIndexEngine() *indexing.IndexEngine {
	return se.indexEngine
}
