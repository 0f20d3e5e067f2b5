package indexing

import (
	"iter"

	"github.com/adfharrison1/go-index/pkg/domain"
)

// Ensure result sets implement the domain interface.
var (
	_ domain.ResultSet = (*SingleResultSet)(nil)
	_ domain.ResultSet = (*MultiResultSet)(nil)
)

// SingleResultSet is a view over one bucket. A nil bucket is an empty view.
type SingleResultSet struct {
	bucket *Bucket
}

// NewSingleResultSet wraps a bucket, which may be nil
func NewSingleResultSet(bucket *Bucket) *SingleResultSet {
	return &SingleResultSet{bucket: bucket}
}

func (rs *SingleResultSet) All() iter.Seq[domain.Record] {
	if rs.bucket == nil {
		return func(func(domain.Record) bool) {}
	}
	return rs.bucket.All()
}

func (rs *SingleResultSet) Len() int {
	if rs.bucket == nil {
		return 0
	}
	return rs.bucket.Len()
}

func (rs *SingleResultSet) Contains(key string) bool {
	if rs.bucket == nil {
		return false
	}
	_, ok := rs.bucket.Get(key)
	return ok
}

// MultiResultSet is the union of the buckets collected by a scan. It holds
// bucket references, not copies, and walks them one after another.
type MultiResultSet struct {
	buckets []*Bucket
	seen    map[*Bucket]struct{}
}

func NewMultiResultSet() *MultiResultSet {
	return &MultiResultSet{seen: make(map[*Bucket]struct{})}
}

// AddBucket appends a bucket to the union. Nil and already-added buckets are ignored.
func (rs *MultiResultSet) AddBucket(bucket *Bucket) {
	if bucket == nil {
		return
	}
	if _, dup := rs.seen[bucket]; dup {
		return
	}
	rs.seen[bucket] = struct{}{}
	rs.buckets = append(rs.buckets, bucket)
}

// Merge adds the buckets of other to the union
func (rs *MultiResultSet) Merge(other *MultiResultSet) {
	for _, bucket := range other.buckets {
		rs.AddBucket(bucket)
	}
}

// Buckets returns the number of buckets in the union
func (rs *MultiResultSet) Buckets() int {
	return len(rs.buckets)
}

// All yields the records of each bucket in the order they were added.
// A bucket emptied before its turn contributes nothing.
func (rs *MultiResultSet) All() iter.Seq[domain.Record] {
	return func(yield func(domain.Record) bool) {
		for _, bucket := range rs.buckets {
			for record := range bucket.All() {
				if !yield(record) {
					return
				}
			}
		}
	}
}

func (rs *MultiResultSet) Len() int {
	n := 0
	for _, bucket := range rs.buckets {
		n += bucket.Len()
	}
	return n
}

func (rs *MultiResultSet) Contains(key string) bool {
	for _, bucket := range rs.buckets {
		if _, ok := bucket.Get(key); ok {
			return true
		}
	}
	return false
}
