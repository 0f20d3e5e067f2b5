package indexing

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cespare/xxhash"
)

const defaultShardCount = 32

// valueMap maps indexed values to buckets. Each shard has its own lock so
// writers on different values rarely contend.
type valueMap struct {
	shards []*valueShard
}

type valueShard struct {
	mu      sync.RWMutex
	buckets map[interface{}]*Bucket
}

func newValueMap(shardCount int) *valueMap {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	m := &valueMap{shards: make([]*valueShard, shardCount)}
	for i := range m.shards {
		m.shards[i] = &valueShard{buckets: make(map[interface{}]*Bucket)}
	}
	return m
}

func (m *valueMap) shardFor(v interface{}) *valueShard {
	return m.shards[hashValue(v)%uint64(len(m.shards))]
}

// get returns the live bucket for v, or nil
func (m *valueMap) get(v interface{}) *Bucket {
	shard := m.shardFor(v)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return shard.buckets[v]
}

// getOrCreate returns the bucket for v, creating it if absent. A retired
// bucket still linked under v is replaced, so exactly one accepting bucket
// is visible per value.
func (m *valueMap) getOrCreate(v interface{}) *Bucket {
	shard := m.shardFor(v)

	shard.mu.RLock()
	b := shard.buckets[v]
	shard.mu.RUnlock()
	if b != nil && !b.Retired() {
		return b
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()

	// Double-check in case another goroutine created it
	if b = shard.buckets[v]; b != nil && !b.Retired() {
		return b
	}
	b = newBucket()
	shard.buckets[v] = b
	return b
}

// compareAndDelete unlinks v only while it still maps to b
func (m *valueMap) compareAndDelete(v interface{}, b *Bucket) {
	shard := m.shardFor(v)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if shard.buckets[v] == b {
		delete(shard.buckets, v)
	}
}

type valueEntry struct {
	value  interface{}
	bucket *Bucket
}

// rangeEntries calls fn for the entries of each shard in turn. Each shard is
// copied under its read lock and fn runs unlocked, so entries added or
// removed during the walk may or may not be seen. Returning false stops it.
func (m *valueMap) rangeEntries(fn func(v interface{}, b *Bucket) bool) {
	var entries []valueEntry
	for _, shard := range m.shards {
		entries = entries[:0]
		shard.mu.RLock()
		for v, b := range shard.buckets {
			entries = append(entries, valueEntry{value: v, bucket: b})
		}
		shard.mu.RUnlock()

		for _, e := range entries {
			if !fn(e.value, e.bucket) {
				return
			}
		}
	}
}

func (m *valueMap) len() int {
	n := 0
	for _, shard := range m.shards {
		shard.mu.RLock()
		n += len(shard.buckets)
		shard.mu.RUnlock()
	}
	return n
}

// hashValue hashes a normalized value. Equal values always hash equal.
func hashValue(v interface{}) uint64 {
	var buf [9]byte
	switch val := v.(type) {
	case string:
		return xxhash.Sum64([]byte(val))
	case float64:
		buf[0] = 'n'
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(val))
	case int64:
		buf[0] = 'i'
		binary.LittleEndian.PutUint64(buf[1:], uint64(val))
	case uint64:
		buf[0] = 'u'
		binary.LittleEndian.PutUint64(buf[1:], val)
	case bool:
		buf[0] = 'b'
		if val {
			buf[1] = 1
		}
	case time.Time:
		buf[0] = 't'
		binary.LittleEndian.PutUint64(buf[1:], uint64(val.UnixNano()))
	default:
		return xxhash.Sum64([]byte(fmt.Sprintf("%T:%v", v, v)))
	}
	return xxhash.Sum64(buf[:])
}
