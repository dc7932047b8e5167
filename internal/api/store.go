package api

import (
	"sync"

	"github.com/google/uuid"
)

// RunStore keeps completed runs in memory so they can be fetched again by
// id. Nothing survives a restart.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*RunResponse
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunResponse),
	}
}

func (s *RunStore) Save(resp RunResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[resp.ID] = &resp
}

func (s *RunStore) Get(id string) (*RunResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.runs[id]
	return resp, ok
}

func (s *RunStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return false
	}
	delete(s.runs, id)
	return true
}

func newRunID() string {
	return "run_" + uuid.NewString()
}
