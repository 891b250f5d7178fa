package services

import (
	"sync"
	"time"

	"fleetboard/internal/core"
)

// DatasetStore holds the latest assembled dataset for the HTTP layer to
// read from. Readers get a shallow snapshot; refreshes replace the whole
// map atomically.
type DatasetStore struct {
	mu        sync.RWMutex
	ds        core.Dataset
	updatedAt time.Time
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{ds: make(core.Dataset)}
}

// Replace swaps in a freshly assembled dataset.
func (s *DatasetStore) Replace(ds core.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.updatedAt = time.Now().UTC()
}

// Snapshot returns the current dataset map and its refresh time. The map
// must be treated as read-only.
func (s *DatasetStore) Snapshot() (core.Dataset, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.updatedAt
}

// Sheet returns the records of one sheet, or nil if it is absent.
func (s *DatasetStore) Sheet(name string) []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds[name]
}
