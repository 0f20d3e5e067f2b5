package indexing_test

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-index/pkg/domain"
	"github.com/adfharrison1/go-index/pkg/indexing"
	"github.com/adfharrison1/go-index/pkg/value"
)

type entry struct {
	key string
}

func (e entry) IndexKey() string { return e.key }

func keys(rs domain.ResultSet) []string {
	var out []string
	for rec := range rs.All() {
		out = append(out, rec.IndexKey())
	}
	sort.Strings(out)
	return out
}

// newOddStore indexes two records under each of 1, 3, 5 and 7
func newOddStore(t *testing.T) *indexing.UnsortedIndexStore {
	t.Helper()
	store := indexing.NewUnsortedIndexStore(indexing.WithShardCount(4))
	for _, v := range []int{1, 3, 5, 7} {
		store.Insert(v, entry{key: fmt.Sprintf("%d-a", v)})
		store.Insert(v, entry{key: fmt.Sprintf("%d-b", v)})
	}
	return store
}

func recordsFor(values ...int) []string {
	var out []string
	for _, v := range values {
		out = append(out, fmt.Sprintf("%d-a", v), fmt.Sprintf("%d-b", v))
	}
	sort.Strings(out)
	return out
}

func TestInsertLookupRoundTrip(t *testing.T) {
	store := indexing.NewUnsortedIndexStore()
	store.Insert("red", entry{key: "r1"})
	store.Insert("blue", entry{key: "b1"})

	red := store.LookupEqual("red")
	assert.True(t, red.Contains("r1"))
	assert.False(t, red.Contains("b1"))
	assert.Equal(t, 1, red.Len())
	assert.Equal(t, []string{"b1"}, keys(store.LookupEqual("blue")))

	empty := store.LookupEqual("green")
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, keys(empty))

	assert.Equal(t, 2, store.DistinctValues())
	assert.Equal(t, 2, store.RecordCount())
}

func TestInsertUpsertsWithinValue(t *testing.T) {
	store := indexing.NewUnsortedIndexStore()
	store.Insert(1, domain.Document{"_id": "x", "rev": 1})
	store.Insert(1, domain.Document{"_id": "x", "rev": 2})

	records := domain.Collect(store.LookupEqual(1))
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].(domain.Document)["rev"])
}

func TestNumericValuesShareBucket(t *testing.T) {
	store := indexing.NewUnsortedIndexStore()
	store.Insert(5, entry{key: "int"})
	store.Insert(uint8(5), entry{key: "uint8"})
	store.Insert(5.0, entry{key: "float"})

	assert.Equal(t, []string{"float", "int", "uint8"}, keys(store.LookupEqual(int64(5))))
	assert.Equal(t, 1, store.DistinctValues())
}

func TestRemovalEmptiesValue(t *testing.T) {
	store := newOddStore(t)

	store.Remove(3, "3-a")
	assert.Equal(t, []string{"3-b"}, keys(store.LookupEqual(3)))

	store.Remove(3, "3-b")
	assert.Equal(t, 0, store.LookupEqual(3).Len())
	assert.Equal(t, 3, store.DistinctValues())

	assert.Equal(t, recordsFor(1, 5, 7), keys(store.LookupCompare(domain.NotEqual, 100)))
	assert.Equal(t, recordsFor(1, 5), keys(store.LookupRange(1, 5)))
	assert.Equal(t, []string(nil), keys(store.LookupRange(2, 4)))
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newOddStore(t)

	assert.NotPanics(t, func() {
		store.Remove(42, "nope")
		store.Remove(1, "nope")
		store.Remove(1, "1-a")
		store.Remove(1, "1-a")
	})
	assert.Equal(t, []string{"1-b"}, keys(store.LookupEqual(1)))
	assert.Equal(t, 7, store.RecordCount())
}

func TestLookupCompare(t *testing.T) {
	store := newOddStore(t)

	tests := []struct {
		name     string
		op       domain.ComparisonType
		operand  int
		expected []string
	}{
		{"greater", domain.Greater, 3, recordsFor(5, 7)},
		{"greater or equal", domain.GreaterOrEqual, 3, recordsFor(3, 5, 7)},
		{"less", domain.Less, 5, recordsFor(1, 3)},
		{"less or equal", domain.LessOrEqual, 5, recordsFor(1, 3, 5)},
		{"not equal", domain.NotEqual, 5, recordsFor(1, 3, 7)},
		{"nothing greater", domain.Greater, 7, nil},
		{"operand not stored", domain.Less, 4, recordsFor(1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := store.LookupCompare(tt.op, tt.operand)
			assert.Equal(t, tt.expected, keys(rs))
			assert.Equal(t, len(tt.expected), rs.Len())
		})
	}
}

func TestLookupEqualAny(t *testing.T) {
	store := newOddStore(t)

	rs := store.LookupEqualAny([]interface{}{1, 7})
	assert.Equal(t, recordsFor(1, 7), keys(rs))
	assert.False(t, rs.Contains("3-a"))
	assert.False(t, rs.Contains("5-b"))

	// repeated and absent values contribute nothing extra
	rs = store.LookupEqualAny([]interface{}{1, 1.0, 100})
	assert.Equal(t, recordsFor(1), keys(rs))
	assert.Equal(t, 1, rs.Buckets())
}

func TestLookupRange(t *testing.T) {
	store := newOddStore(t)

	tests := []struct {
		name     string
		from, to int
		expected []string
	}{
		{"inclusive both ends", 3, 7, recordsFor(3, 5, 7)},
		{"between stored values", 2, 6, recordsFor(3, 5)},
		{"covers everything", 0, 100, recordsFor(1, 3, 5, 7)},
		{"outside", 8, 10, nil},
		{"degenerate stored", 5, 5, recordsFor(5)},
		{"degenerate absent", 4, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward := keys(store.LookupRange(tt.from, tt.to))
			backward := keys(store.LookupRange(tt.to, tt.from))
			assert.Equal(t, tt.expected, forward)
			assert.Equal(t, forward, backward, "range must not depend on bound order")
		})
	}

	assert.Equal(t, keys(store.LookupEqual(3)), keys(store.LookupRange(3, 3)))
}

func TestLookupRangeStrings(t *testing.T) {
	store := indexing.NewUnsortedIndexStore()
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		store.Insert(name, entry{key: name})
	}

	assert.Equal(t, []string{"bob", "carol"}, keys(store.LookupRange("carol", "b")))
	assert.Equal(t, []string{"alice", "bob"}, keys(store.LookupCompare(domain.Less, "c")))
}

func TestTypeMismatchIsFatal(t *testing.T) {
	store := newOddStore(t)

	assert.Panics(t, func() {
		store.LookupCompare(domain.Greater, "three")
	})
	assert.Panics(t, func() {
		store.LookupRange(1, "seven")
	})

	defer func() {
		_, ok := recover().(*value.TypeMismatchError)
		assert.True(t, ok)
	}()
	store.LookupRange("a", 2)
}

func TestCustomComparator(t *testing.T) {
	// order strings by length
	byLength := func(a, b interface{}) int {
		return len(a.(string)) - len(b.(string))
	}
	store := indexing.NewUnsortedIndexStore(indexing.WithComparator(byLength))
	for _, word := range []string{"a", "bb", "ccc", "dddd"} {
		store.Insert(word, entry{key: word})
	}

	assert.Equal(t, []string{"ccc", "dddd"}, keys(store.LookupCompare(domain.Greater, "xx")))
	assert.Equal(t, []string{"bb", "ccc"}, keys(store.LookupRange("zzz", "yy")))
}

func TestConcurrentInsertSameNewValue(t *testing.T) {
	for round := 0; round < 50; round++ {
		store := indexing.NewUnsortedIndexStore(indexing.WithShardCount(1))

		var g errgroup.Group
		start := make(chan struct{})
		for _, key := range []string{"left", "right"} {
			g.Go(func() error {
				<-start
				store.Insert("fresh", entry{key: key})
				return nil
			})
		}
		close(start)
		require.NoError(t, g.Wait())

		assert.Equal(t, []string{"left", "right"}, keys(store.LookupEqual("fresh")), "round %d", round)
		assert.Equal(t, 1, store.DistinctValues())
	}
}

func TestConcurrentRemoveLastAndInsert(t *testing.T) {
	// A record inserted while the previous last record is removed must survive.
	for round := 0; round < 200; round++ {
		store := indexing.NewUnsortedIndexStore(indexing.WithShardCount(1))
		store.Insert(1, entry{key: "old"})

		var g errgroup.Group
		start := make(chan struct{})
		g.Go(func() error {
			<-start
			store.Remove(1, "old")
			return nil
		})
		g.Go(func() error {
			<-start
			store.Insert(1, entry{key: "new"})
			return nil
		})
		close(start)
		require.NoError(t, g.Wait())

		assert.Equal(t, []string{"new"}, keys(store.LookupEqual(1)), "round %d", round)
	}
}

func TestConcurrentWritesWithScans(t *testing.T) {
	store := indexing.NewUnsortedIndexStore()

	// stable records are never touched by the writers
	for v := 0; v < 10; v++ {
		store.Insert(v, entry{key: fmt.Sprintf("stable-%d", v)})
	}

	var g errgroup.Group
	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				v := i % 10
				store.Insert(v, entry{key: key})
				store.Remove(v, key)
			}
			return nil
		})
	}

	var mu sync.Mutex
	var failures []string
	for r := 0; r < 2; r++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				rs := store.LookupRange(0, 9)
				seen := make(map[string]int)
				for rec := range rs.All() {
					seen[rec.IndexKey()]++
				}
				for v := 0; v < 10; v++ {
					key := fmt.Sprintf("stable-%d", v)
					if seen[key] != 1 {
						mu.Lock()
						failures = append(failures, fmt.Sprintf("%s seen %d times", key, seen[key]))
						mu.Unlock()
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Empty(t, failures)
	assert.Equal(t, 10, store.RecordCount())
	assert.Equal(t, 10, store.DistinctValues())
}

func TestStoreString(t *testing.T) {
	store := newOddStore(t)
	assert.Equal(t, "UnsortedIndexStore{values=4}", store.String())
}

func TestInvalidValues(t *testing.T) {
	store := newOddStore(t)

	for _, v := range []interface{}{nil, math.NaN(), map[string]interface{}{"a": 1}, []interface{}{1}} {
		t.Run(fmt.Sprintf("%T", v), func(t *testing.T) {
			defer func() {
				_, ok := recover().(*value.InvalidValueError)
				assert.True(t, ok)
			}()
			store.Insert(v, entry{key: "bad"})
		})
	}

	invalid := []interface{}{nil, math.NaN(), map[string]interface{}{"a": 1}, []interface{}{1}}
	for _, v := range invalid {
		assert.NotPanics(t, func() { store.Remove(v, "1-a") })
		assert.Zero(t, store.LookupEqual(v).Len())
		assert.Zero(t, store.LookupCompare(domain.Less, v).Len())
		assert.Zero(t, store.LookupRange(v, 7).Len())
		assert.Zero(t, store.LookupRange(1, v).Len())
	}
	assert.Equal(t, []string{"1-a", "1-b"}, keys(store.LookupEqualAny(append(invalid, 1))))

	assert.Equal(t, 4, store.DistinctValues())
	assert.Equal(t, 8, store.RecordCount())
}

func TestLargeIntegersKeepSeparateBuckets(t *testing.T) {
	store := indexing.NewUnsortedIndexStore()
	store.Insert(int64(9007199254740992), entry{key: "exact"})
	store.Insert(int64(9007199254740993), entry{key: "above"})

	assert.Equal(t, 2, store.DistinctValues())
	assert.Equal(t, []string{"exact"}, keys(store.LookupEqual(9007199254740992.0)))
	assert.Equal(t, []string{"above"}, keys(store.LookupEqual(uint64(9007199254740993))))
	assert.Equal(t, []string{"above"}, keys(store.LookupCompare(domain.Greater, int64(9007199254740992))))
	assert.Equal(t, []string{"above", "exact"}, keys(store.LookupRange(int64(9007199254740993), 1<<53)))

	store.Remove(int64(9007199254740993), "above")
	assert.Equal(t, 1, store.DistinctValues())
	assert.Equal(t, []string{"exact"}, keys(store.LookupEqual(int64(9007199254740992))))
}

func TestNaNNeverLeavesResidue(t *testing.T) {
	idx := indexing.NewFieldIndex("score")
	doc := domain.Document{"_id": "1", "score": math.NaN()}
	idx.Add(doc)
	idx.Remove(doc)
	idx.UpdateIndex(nil, doc)
	idx.UpdateIndex(doc, nil)

	distinct, records := idx.Stats()
	assert.Zero(t, distinct)
	assert.Zero(t, records)
}
