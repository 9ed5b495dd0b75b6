package sessionstore

import (
	"context"
	"sync"

	"github.com/jhoicas/idcr-client/internal/application/ports"
)

var _ ports.SessionStorage = (*MemoryStorage)(nil)

// MemoryStorage slots en memoria del proceso (tests, sesiones efímeras).
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: map[string]string{}}
}

func (s *MemoryStorage) Get(_ context.Context, slot string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[slot]
	return v, ok, nil
}

func (s *MemoryStorage) Set(_ context.Context, slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = value
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, slots ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range slots {
		delete(s.slots, slot)
	}
	return nil
}
