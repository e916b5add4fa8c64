// Package coll provides the reusable intrusive-style collections backing
// environment bindings, object properties, and promise reaction lists.
// OrderedMap is a
// hash table that also remembers insertion order, the shape every one of
// those three consumers needs: bindings enumerate in declaration order,
// object string/symbol keys enumerate in insertion order for
// [[OwnPropertyKeys]], and reactions fire in registration order.
package coll

// OrderedMap is a hash table with insertion-ordered iteration. Deletion
// marks a slot as a tombstone instead of compacting, the same choice the
// object model needs to give bindings stable indices across deletes for
// the binding cache: delete removes the hash entry but preserves the
// binding's index slot.
type OrderedMap[K comparable, V any] struct {
	index   map[K]int
	entries []omEntry[K, V]
	live    int
}

type omEntry[K comparable, V any] struct {
	key     K
	value   V
	deleted bool
}

// NewOrderedMap creates an empty map, optionally sized for capacity items.
func NewOrderedMap[K comparable, V any](capacity int) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		index:   make(map[K]int, capacity),
		entries: make([]omEntry[K, V], 0, capacity),
	}
}

// Len returns the number of live (non-deleted) entries.
func (m *OrderedMap[K, V]) Len() int { return m.live }

// Get looks up key, reporting whether it is present.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	var zero V
	i, ok := m.index[key]
	if !ok || m.entries[i].deleted {
		return zero, false
	}
	return m.entries[i].value, true
}

// Index returns the stable insertion-order position of key, or -1 if not
// present. This is the slot binding references cache.
func (m *OrderedMap[K, V]) Index(key K) int {
	i, ok := m.index[key]
	if !ok || m.entries[i].deleted {
		return -1
	}
	return i
}

// At returns the entry at a previously cached Index, without a hash
// lookup — the fast path the binding cache relies on. ok is false if the
// slot has since been deleted.
func (m *OrderedMap[K, V]) At(i int) (key K, val V, ok bool) {
	if i < 0 || i >= len(m.entries) || m.entries[i].deleted {
		return key, val, false
	}
	e := m.entries[i]
	return e.key, e.value, true
}

// Set inserts or overwrites key, returning its stable index.
func (m *OrderedMap[K, V]) Set(key K, val V) int {
	if i, ok := m.index[key]; ok && !m.entries[i].deleted {
		m.entries[i].value = val
		return i
	}
	if i, ok := m.index[key]; ok && m.entries[i].deleted {
		// Resurrect the tombstone at the same index so any cached
		// binding slot referencing it becomes valid again.
		m.entries[i] = omEntry[K, V]{key: key, value: val}
		m.live++
		return i
	}
	i := len(m.entries)
	m.entries = append(m.entries, omEntry[K, V]{key: key, value: val})
	m.index[key] = i
	m.live++
	return i
}

// Delete removes key, leaving a tombstone so existing indices remain
// stable.
func (m *OrderedMap[K, V]) Delete(key K) bool {
	i, ok := m.index[key]
	if !ok || m.entries[i].deleted {
		return false
	}
	m.entries[i].deleted = true
	var zero V
	m.entries[i].value = zero
	m.live--
	return true
}

// Has reports whether key is present and not deleted.
func (m *OrderedMap[K, V]) Has(key K) bool {
	i, ok := m.index[key]
	return ok && !m.entries[i].deleted
}

// Keys returns live keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.live)
	for _, e := range m.entries {
		if !e.deleted {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Each iterates live entries in insertion order, stopping early if fn
// returns false.
func (m *OrderedMap[K, V]) Each(fn func(key K, val V) bool) {
	for _, e := range m.entries {
		if e.deleted {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}
