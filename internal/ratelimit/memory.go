package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps records in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]AttemptRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]AttemptRecord)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (AttemptRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	return rec, ok, nil
}

func (m *MemoryStore) Increment(_ context.Context, key string, now time.Time, window time.Duration) (AttemptRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	if !ok || rec.Expired(now, window) {
		rec = AttemptRecord{FirstAttempt: now}
	}
	rec.Count++
	m.records[key] = rec
	return rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
