package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded in-process store. It is the default
// backend for tests and local runs and follows the same ordering
// contract as the networked backends (records sorted by id).
type MemoryStore struct {
	mu    sync.RWMutex
	kinds map[string]map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kinds: make(map[string]map[string]json.RawMessage)}
}

// docs lazily creates the per-kind map; callers must hold the write
// lock. Read paths index m.kinds directly.
func (m *MemoryStore) docs(kind string) map[string]json.RawMessage {
	if m.kinds[kind] == nil {
		m.kinds[kind] = make(map[string]json.RawMessage)
	}
	return m.kinds[kind]
}

func (m *MemoryStore) Insert(ctx context.Context, kind string, doc interface{}) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("failed to assign id: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs(kind)[id] = data
	return id, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, kind, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Record{ID: id, Source: data}, nil
}

func (m *MemoryStore) FindMany(ctx context.Context, kind string, filter Filter, skip, limit int) ([]Record, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, data := range m.kinds[kind] {
		ok, err := matches(data, filter)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	total := int64(len(ids))
	if skip < 0 {
		skip = 0
	}
	if skip >= len(ids) {
		return []Record{}, total, nil
	}
	ids = ids[skip:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, Record{ID: id, Source: m.kinds[kind][id]})
	}
	return records, total, nil
}

func (m *MemoryStore) UpdateByID(ctx context.Context, kind, id string, fields map[string]interface{}) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.docs(kind)[id]
	if !ok {
		return nil, ErrNotFound
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	m.kinds[kind][id] = merged
	return &Record{ID: id, Source: merged}, nil
}

func (m *MemoryStore) DeleteByID(ctx context.Context, kind, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.docs(kind)[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.kinds[kind], id)
	return &Record{ID: id, Source: data}, nil
}

func (m *MemoryStore) DeleteMany(ctx context.Context, kind string, filter Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, data := range m.docs(kind) {
		ok, err := matches(data, filter)
		if err != nil {
			return count, err
		}
		if ok {
			delete(m.kinds[kind], id)
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// matches reports whether every filter entry equals the corresponding
// top-level document field. Values are compared through their JSON
// form so numeric types line up with decoded documents.
func matches(data json.RawMessage, filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("failed to decode document: %w", err)
	}

	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			return false, nil
		}
		wantJSON, err := json.Marshal(want)
		if err != nil {
			return false, err
		}
		gotJSON, err := json.Marshal(got)
		if err != nil {
			return false, err
		}
		if string(wantJSON) != string(gotJSON) {
			return false, nil
		}
	}
	return true, nil
}
