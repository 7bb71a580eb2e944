package store

import (
	"sync"
)

// ReadStore holds the projected read models in memory, keyed by collection
// ("users", "products", "orders", "inventory") and then by ID. The
// projector writes it, the query handlers read it.
type ReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any // collection -> id -> model
}

func NewReadStore() *ReadStore {
	return &ReadStore{
		data: make(map[string]map[string]any),
	}
}

// Set stores a read model, creating the collection on first use.
func (rs *ReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] == nil {
		rs.data[collection] = make(map[string]any)
	}
	rs.data[collection][id] = data
}

// Get retrieves a read model by ID.
func (rs *ReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.data[collection] == nil {
		return nil, false
	}
	data, ok := rs.data[collection][id]
	return data, ok
}

// GetAll returns every model in a collection, in no particular order.
func (rs *ReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.data[collection] == nil {
		return nil
	}

	var items []any
	for _, item := range rs.data[collection] {
		items = append(items, item)
	}
	return items
}

// Delete removes a read model. Deleting an unknown ID is a no-op.
func (rs *ReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] != nil {
		delete(rs.data[collection], id)
	}
}

// Update rewrites a model through fn while holding the write lock, and
// reports whether the ID existed.
func (rs *ReadStore) Update(collection, id string, fn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] == nil {
		return false
	}
	current, ok := rs.data[collection][id]
	if !ok {
		return false
	}
	rs.data[collection][id] = fn(current)
	return true
}
