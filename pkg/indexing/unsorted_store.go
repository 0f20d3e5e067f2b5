package indexing

import (
	"fmt"
	"math"
	"reflect"

	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/value"
)

// Comparator orders two indexed values, returning a negative number, zero or
// a positive number. It panics if the values cannot be compared.
type Comparator func(a, b interface{}) int

// StoreOption configures an UnsortedIndexStore
type StoreOption func(*UnsortedIndexStore)

// WithShardCount sets the number of lock shards of the value map
func WithShardCount(n int) StoreOption {
	return func(s *UnsortedIndexStore) {
		s.shardCount = n
	}
}

// WithComparator replaces value.Compare as the ordering of indexed values
func WithComparator(cmp Comparator) StoreOption {
	return func(s *UnsortedIndexStore) {
		s.compare = cmp
	}
}

// UnsortedIndexStore maps each indexed value to the bucket of records holding
// it. Values are kept unordered: point inserts and removes cost O(1) while
// comparison and range lookups visit every distinct value.
//
// All methods are safe for concurrent use. Scans are weakly consistent: a
// record inserted or removed while a scan runs may or may not be reported,
// records untouched by concurrent writes are always reported. The store has
// no reverse index, so moving a record to a new value is the caller's
// Remove followed by Insert, with no atomicity between the two.
type UnsortedIndexStore struct {
	values     *valueMap
	compare    Comparator
	shardCount int
}

// NewUnsortedIndexStore creates an empty store
func NewUnsortedIndexStore(options ...StoreOption) *UnsortedIndexStore {
	s := &UnsortedIndexStore{
		compare:    value.Compare,
		shardCount: defaultShardCount,
	}
	for _, option := range options {
		option(s)
	}
	s.values = newValueMap(s.shardCount)
	return s
}

// normalize returns the map key for v. Values a custom Comparator orders are
// kept as they are; nil, NaN and unhashable values such as maps and slices
// report false.
func normalize(v interface{}) (interface{}, bool) {
	if n, kind := value.Normalize(v); kind != value.KindInvalid {
		return n, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if !rv.Comparable() || (rv.CanFloat() && math.IsNaN(rv.Float())) {
		return nil, false
	}
	return v, true
}

// Insert indexes record under v, replacing a record with the same key. It
// panics with a *value.InvalidValueError if v cannot be indexed.
func (s *UnsortedIndexStore) Insert(v interface{}, record domain.Record) {
	n, ok := normalize(v)
	if !ok {
		panic(&value.InvalidValueError{Value: v})
	}
	key := record.IndexKey()
	for {
		if s.values.getOrCreate(n).Put(key, record) {
			return
		}
		// lost a race with the removal of the bucket's last record
	}
}

// Remove drops the record with recordKey from the bucket for v, deleting the
// bucket when it becomes empty. Absent values and keys are ignored.
func (s *UnsortedIndexStore) Remove(v interface{}, recordKey string) {
	n, ok := normalize(v)
	if !ok {
		return
	}
	bucket := s.values.get(n)
	if bucket == nil {
		return
	}
	if bucket.Remove(recordKey) && bucket.Retired() {
		s.values.compareAndDelete(n, bucket)
	}
}

// LookupEqual returns the records indexed under v
func (s *UnsortedIndexStore) LookupEqual(v interface{}) *SingleResultSet {
	n, ok := normalize(v)
	if !ok {
		return NewSingleResultSet(nil)
	}
	return NewSingleResultSet(s.values.get(n))
}

// LookupEqualAny returns the union of the records indexed under each of values
func (s *UnsortedIndexStore) LookupEqualAny(values []interface{}) *MultiResultSet {
	results := NewMultiResultSet()
	for _, v := range values {
		if n, ok := normalize(v); ok {
			results.AddBucket(s.values.get(n))
		}
	}
	return results
}

// LookupCompare returns the records whose value satisfies
// "stored <op> v" for one of the scan comparisons. Nothing compares to a
// value that cannot be indexed.
func (s *UnsortedIndexStore) LookupCompare(op domain.ComparisonType, v interface{}) *MultiResultSet {
	results := NewMultiResultSet()
	n, ok := normalize(v)
	if !ok {
		return results
	}
	s.values.rangeEntries(func(stored interface{}, bucket *Bucket) bool {
		if op.Matches(s.compare(stored, n)) {
			results.AddBucket(bucket)
		}
		return true
	})
	return results
}

// LookupRange returns the records whose value lies between from and to, both
// inclusive. The bounds may be given in either order.
func (s *UnsortedIndexStore) LookupRange(from, to interface{}) *MultiResultSet {
	results := NewMultiResultSet()
	from, fromOK := normalize(from)
	to, toOK := normalize(to)
	if !fromOK || !toOK {
		return results
	}
	trend := s.compare(from, to)
	if trend == 0 {
		results.AddBucket(s.values.get(from))
		return results
	}
	if trend > 0 {
		from, to = to, from
	}

	s.values.rangeEntries(func(stored interface{}, bucket *Bucket) bool {
		if s.compare(stored, from) >= 0 && s.compare(stored, to) <= 0 {
			results.AddBucket(bucket)
		}
		return true
	})
	return results
}

// DistinctValues returns the number of values currently holding records
func (s *UnsortedIndexStore) DistinctValues() int {
	return s.values.len()
}

// RecordCount returns the number of indexed records
func (s *UnsortedIndexStore) RecordCount() int {
	n := 0
	s.values.rangeEntries(func(_ interface{}, bucket *Bucket) bool {
		n += bucket.Len()
		return true
	})
	return n
}

func (s *UnsortedIndexStore) String() string {
	return fmt.Sprintf("UnsortedIndexStore{values=%d}", s.DistinctValues())
}
