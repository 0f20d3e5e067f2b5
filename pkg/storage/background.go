package storage

import (
	"runtime"
	"time"
)

// GetMemoryStats returns current memory usage statistics
func (se *StorageEngine) GetMemoryStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	se.mu.RLock()
	collections := len(se.collections)
	se.mu.RUnlock()

	return map[string]interface{}{
		"alloc_mb":       m.Alloc / 1024 / 1024,
		"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
		"sys_mb":         m.Sys / 1024 / 1024,
		"num_goroutines": runtime.NumGoroutine(),
		"collections":    collections,
		"indexes":        se.indexEngine.AllStats(),
	}
}

// StartBackgroundWorkers starts the index statistics reporter
func (se *StorageEngine) StartBackgroundWorkers() {
	if se.statsInterval <= 0 {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		ticker := time.NewTicker(se.statsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				se.reportIndexStats()
			case <-se.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers
func (se *StorageEngine) StopBackgroundWorkers() {
	se.stopOnce.Do(func() {
		close(se.stopChan)
	})
	se.backgroundWg.Wait()
}

func (se *StorageEngine) reportIndexStats() {
	for _, stats := range se.indexEngine.AllStats() {
		se.logger.Infow("index stats",
			"collection", stats.Collection,
			"field", stats.Field,
			"distinct_values", stats.DistinctValues,
			"records", stats.Records,
		)
	}
}
