package kv

import "sync"

// memStore keeps blobs in process memory only. Used in tests and as the
// "memory" storage engine.
type memStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*memStore)(nil)

func NewMemStore() Store {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (s *memStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *memStore) Close() error { return nil }
