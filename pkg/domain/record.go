package domain

import "iter"

// Record is an entry held by an index. The index only needs its key; the
// indexed value is supplied by the caller on every insert and remove.
type Record interface {
	IndexKey() string
}

// ResultSet is a read-only view over the records matched by an index lookup.
// All returns a fresh sequence on every call. Under concurrent writes the
// sequence is weakly consistent: records added or removed while it runs may
// or may not be observed, and Len may change between calls.
type ResultSet interface {
	All() iter.Seq[Record]
	Len() int
	Contains(key string) bool
}

// Collect drains a result set into a slice
func Collect(rs ResultSet) []Record {
	var records []Record
	for record := range rs.All() {
		records = append(records, record)
	}
	return records
}
