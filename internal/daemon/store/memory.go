package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory is an in-process Store. Data is lost when the daemon exits.
type Memory struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{namespaces: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.namespaces[namespace][key]
	return cloneBytes(v), ok, nil
}

func (m *Memory) Set(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.namespaces[namespace] = ns
	}
	ns[key] = cloneBytes(value)
	return nil
}

func (m *Memory) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.namespaces[namespace]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(m.namespaces, namespace)
	}
	return nil
}

func (m *Memory) List(_ context.Context, namespace string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns := m.namespaces[namespace]
	keys := make([]string, 0, len(ns))
	for k := range ns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Snapshot(_ context.Context) (map[string]map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]map[string]json.RawMessage, len(m.namespaces))
	for name, ns := range m.namespaces {
		values := make(map[string]json.RawMessage, len(ns))
		for k, v := range ns {
			values[k] = cloneBytes(v)
		}
		out[name] = values
	}
	return out, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces = make(map[string]map[string][]byte)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
