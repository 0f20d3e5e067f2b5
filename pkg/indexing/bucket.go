package indexing

import (
	"iter"
	"sync"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// Bucket holds every record currently indexed under one value, keyed by
// record key. A bucket retires itself when its last record is removed;
// a retired bucket accepts no more records and is unlinked by the store.
type Bucket struct {
	mu      sync.RWMutex
	records map[string]domain.Record
	retired bool
}

func newBucket() *Bucket {
	return &Bucket{records: make(map[string]domain.Record)}
}

// Put stores record under key, replacing any record with the same key.
// It returns false if the bucket has retired; the caller must then fetch
// the live bucket for the value and try again.
func (b *Bucket) Put(key string, record domain.Record) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.retired {
		return false
	}
	b.records[key] = record
	return true
}

// Remove deletes the record stored under key and reports whether one was
// present. Removing the last record retires the bucket.
func (b *Bucket) Remove(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.records[key]; !ok {
		return false
	}
	delete(b.records, key)
	if len(b.records) == 0 {
		b.retired = true
	}
	return true
}

// Get returns the record stored under key
func (b *Bucket) Get(key string) (domain.Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	record, ok := b.records[key]
	return record, ok
}

func (b *Bucket) IsEmpty() bool {
	return b.Len() == 0
}

func (b *Bucket) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Retired reports whether the bucket has been emptied and detached
func (b *Bucket) Retired() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.retired
}

// All yields the records held when iteration starts. The lock is not held
// while yielding, so the consumer may call back into the index.
func (b *Bucket) All() iter.Seq[domain.Record] {
	return func(yield func(domain.Record) bool) {
		b.mu.RLock()
		records := make([]domain.Record, 0, len(b.records))
		for _, record := range b.records {
			records = append(records, record)
		}
		b.mu.RUnlock()

		for _, record := range records {
			if !yield(record) {
				return
			}
		}
	}
}
