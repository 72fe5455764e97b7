package store

import (
	"context"
	"sync"
)

// MemoryStore is a process-local backend for demos and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]map[string]Record // parent -> key -> record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nodes: make(map[string]map[string]Record)}
}

func (m *MemoryStore) Children(ctx context.Context, path string) ([]Node, error) {
	parent, err := Clean(path)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	children := m.nodes[parent]
	nodes := make([]Node, 0, len(children))
	for key, rec := range children {
		nodes = append(nodes, Node{Key: key, Data: Merge(Record{}, rec)})
	}
	sortNodes(nodes)
	return nodes, nil
}

func (m *MemoryStore) Push(ctx context.Context, path string, data Record) (string, error) {
	parent, err := Clean(path)
	if err != nil {
		return "", err
	}
	key, err := NewKey()
	if err != nil {
		return "", unavailable("push", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(parent)[key] = compact(data)
	return key, nil
}

func (m *MemoryStore) Update(ctx context.Context, path string, fields Record) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	coll := m.collection(parent)
	merged := Merge(coll[key], fields)
	if len(merged) == 0 {
		delete(coll, key)
		return nil
	}
	coll[key] = merged
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	parent, key, err := Split(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.nodes[parent], key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// collection must be called with mu held.
func (m *MemoryStore) collection(parent string) map[string]Record {
	coll, ok := m.nodes[parent]
	if !ok {
		coll = make(map[string]Record)
		m.nodes[parent] = coll
	}
	return coll
}

var _ Client = (*MemoryStore)(nil)
