package localstore

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store used by tests and by the demo binary when
// no durable storage path is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(key string, out any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (m *Memory) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	m.mu.Lock()
	m.entries[key] = string(raw)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// PutRaw stores a pre-encoded document. Tests use it to plant corrupt
// entries.
func (m *Memory) PutRaw(key, raw string) {
	m.mu.Lock()
	m.entries[key] = raw
	m.mu.Unlock()
}
