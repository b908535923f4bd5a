package services

import (
	"sync"

	"otta/internal/audit"
)

// RunStore keeps completed audit runs in memory, keyed by run ID. Results
// survive for the lifetime of the process; the CSV and HTML reports on
// disk are the durable artifacts.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*audit.Result
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*audit.Result)}
}

// Put stores a completed run.
func (s *RunStore) Put(result *audit.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.RunID] = result
}

// Get returns the run with the given ID.
func (s *RunStore) Get(runID string) (*audit.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.runs[runID]
	return result, ok
}

// List returns the IDs of all stored runs.
func (s *RunStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids
}
