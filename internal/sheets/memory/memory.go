// Package memory provides an in-memory sheet fetcher for tests and for
// running the service against local CSV fixtures.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fleetboard/internal/sheets"
)

// Store is a thread-safe in-memory Fetcher.
type Store struct {
	mu     sync.RWMutex
	sheets map[string]string
	errs   map[string]error
}

var _ sheets.Fetcher = (*Store)(nil)

func New() *Store {
	return &Store{
		sheets: make(map[string]string),
		errs:   make(map[string]error),
	}
}

// NewFromFiles loads <name>.csv from dir for every registered sheet name.
// Missing files are skipped; the corresponding sheet fetches as empty.
func NewFromFiles(dir string) (*Store, error) {
	s := New()
	for _, name := range sheets.Names() {
		path := filepath.Join(dir, name+".csv")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read fixture %s: %w", path, err)
		}
		s.Set(name, string(data))
	}
	return s, nil
}

// Set stores the CSV text for a sheet.
func (s *Store) Set(name, csv string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[name] = csv
	delete(s.errs, name)
}

// SetError makes Fetch fail for a sheet.
func (s *Store) SetError(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[name] = err
}

func (s *Store) Fetch(_ context.Context, sheetName string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.errs[sheetName]; ok {
		return "", err
	}
	return s.sheets[sheetName], nil
}
