package docstore

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/hashtagchobi/chobi-site/internal/domain"
)

// Collections maps collection name -> document id -> fields.
type Collections map[string]map[string]map[string]any

// Memory is an in-process Store. Ordered listings omit documents that lack
// the order field, matching Firestore.
type Memory struct {
	mu          sync.RWMutex
	collections Collections
}

func NewMemory() *Memory {
	return &Memory{collections: Collections{}}
}

// Put stores or replaces one document. Nested values are normalized the same
// way Replace and seed files do it.
func (m *Memory) Put(collection, id string, data map[string]any) {
	normalized, _ := Normalize(data).(map[string]any)
	if normalized == nil {
		normalized = map[string]any{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	docs, ok := m.collections[collection]
	if !ok {
		docs = map[string]map[string]any{}
		m.collections[collection] = docs
	}
	docs[id] = normalized
}

// Delete removes one document if present.
func (m *Memory) Delete(collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
}

// Replace swaps the whole content set.
func (m *Memory) Replace(collections Collections) {
	next := Collections{}
	for name, docs := range collections {
		next[name] = map[string]map[string]any{}
		for id, data := range docs {
			if normalized, ok := Normalize(data).(map[string]any); ok {
				next[name][id] = normalized
			} else {
				next[name][id] = map[string]any{}
			}
		}
	}
	m.mu.Lock()
	m.collections = next
	m.mu.Unlock()
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return nil, domain.NotFoundError{Resource: collection + "/" + id}
	}
	return &Document{ID: id, Data: maps.Clone(data)}, nil
}

func (m *Memory) List(ctx context.Context, collection string, order *Order) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	docs := []Document{}
	for id, data := range m.collections[collection] {
		if order != nil {
			if v, ok := data[order.Field]; !ok || v == nil {
				continue
			}
		}
		docs = append(docs, Document{ID: id, Data: maps.Clone(data)})
	}
	m.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if order != nil {
			c := Compare(docs[i].Data[order.Field], docs[j].Data[order.Field])
			if order.Direction == Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
