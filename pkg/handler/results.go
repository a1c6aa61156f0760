package handler

import (
	"sync"
	"time"

	"github.com/yumyai/bgcclass/pkg/handler/types"
)

// ResultStore keeps recent classifications by key so clients can fetch them again.
// Entries expire after ttl; when full, the oldest entry is dropped.
type ResultStore struct {
	mu      sync.RWMutex
	results map[string]*types.ClassifyResponse
	order   []string
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// NewResultStore constructs a store with no results. max <= 0 disables storage.
func NewResultStore(max int, ttl time.Duration) *ResultStore {
	return &ResultStore{
		results: make(map[string]*types.ClassifyResponse),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
	}
}

// Put records a result under its key.
func (s *ResultStore) Put(res *types.ClassifyResponse) {
	if s == nil || s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	for len(s.order) >= s.max {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
	s.results[res.Key] = res
	s.order = append(s.order, res.Key)
}

// Get fetches a result by key.
func (s *ResultStore) Get(key string) (*types.ClassifyResponse, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[key]
	if !ok || s.expired(res) {
		return nil, false
	}
	return res, true
}

// Len counts stored results, expired ones included until the next Put.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func (s *ResultStore) expired(res *types.ClassifyResponse) bool {
	return s.ttl > 0 && s.now().Sub(res.CreatedAt) > s.ttl
}

// order is insertion order, so expired entries are always at the front.
func (s *ResultStore) expireLocked() {
	n := 0
	for n < len(s.order) && s.expired(s.results[s.order[n]]) {
		delete(s.results, s.order[n])
		n++
	}
	s.order = s.order[n:]
}
