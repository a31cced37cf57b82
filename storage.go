package poststore

import (
	"context"
	"sync"
)

// StorageInterface is a durable key/value slot. Set overwrites the previous value.
// Get reports found=false, with a nil error, when the key was never written.
type StorageInterface interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}

var _ StorageInterface = (*MemoryStorage)(nil)

// MemoryStorage keeps slots in process memory. Useful for tests and throwaway sessions.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: map[string]string{}}
}

func (s *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	return value, ok, nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = value
	return nil
}
