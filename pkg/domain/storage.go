package domain

// StorageEngine defines the interface for document operations
type StorageEngine interface {
	Insert(collName string, doc Document) (Document, error)
	BatchInsert(collName string, docs []Document) ([]Document, error)
	GetById(collName, docId string) (Document, error)
	UpdateById(collName, docId string, updates Document) (Document, error)
	ReplaceById(collName, docId string, doc Document) (Document, error)
	DeleteById(collName, docId string) error
	FindAll(collName string, conditions []Condition, options *PaginationOptions) (*PaginationResult, error)
	CreateCollection(collName string) error
	DropCollection(collName string) error
	ListCollections() []CollectionInfo
	GetMemoryStats() map[string]interface{}
}

// DatabaseEngine combines StorageEngine and IndexEngine interfaces
type DatabaseEngine interface {
	StorageEngine
	IndexEngine
}
