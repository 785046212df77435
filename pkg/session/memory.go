package session

import (
	"context"
	"sync"
)

// MemoryStore lives as long as the process. In-flight flows are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (m *MemoryStore) Load(_ context.Context, id int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s.clone(), nil
	}
	return &Session{}, nil
}

func (m *MemoryStore) Save(_ context.Context, id int64, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s.clone()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
