package storage

import (
	"time"

	"go.uber.org/zap"
)

type StorageOption func(*StorageEngine)

// WithLogger sets the logger used by the engine and its index engine
func WithLogger(logger *zap.SugaredLogger) StorageOption {
	return func(engine *StorageEngine) {
		engine.logger = logger
	}
}

// WithShardCount sets the number of lock shards of every index store
func WithShardCount(n int) StorageOption {
	return func(engine *StorageEngine) {
		engine.shardCount = n
	}
}

// WithStatsInterval enables the background index statistics reporter
func WithStatsInterval(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.statsInterval = interval
	}
}

// WithDefaultIndexes indexes fields of a collection as soon as it is created
func WithDefaultIndexes(collName string, fields ...string) StorageOption {
	return func(engine *StorageEngine) {
		engine.autoIndexes[collName] = append(engine.autoIndexes[collName], fields...)
	}
}
