package store

import (
	"sort"
	"sync"

	"github.com/amishk599/draftin/internal/model"
)

// MemoryStore keeps settings and drafts in process memory. It backs dry runs
// (nothing is persisted) and tests.
type MemoryStore struct {
	mu       sync.Mutex
	settings map[string]string
	drafts   []model.Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *MemoryStore) SaveDraft(d model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, d)
	return nil
}

// ListDrafts returns up to limit drafts, newest first. limit <= 0 means all.
func (s *MemoryStore) ListDrafts(limit int) ([]model.Draft, error) {
	s.mu.Lock()
	out := append([]model.Draft(nil), s.drafts...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
