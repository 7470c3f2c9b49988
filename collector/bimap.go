package collector

import (
	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints"
)

type bimapEntry[K constraints.Ordered, V comparable] struct {
	key   K
	value V
}

// BiMap is a one-to-one mapping between keys and values.
// The forward direction is ordered by key.
type BiMap[K constraints.Ordered, V comparable] struct {
	forward *btree.Generic[bimapEntry[K, V]]
	reverse map[V]K
}

func NewBiMap[K constraints.Ordered, V comparable]() *BiMap[K, V] {
	return &BiMap[K, V]{
		forward: btree.NewGenericOptions(func(a, b bimapEntry[K, V]) bool {
			return a.key < b.key
		}, btree.Options{NoLocks: true}),
		reverse: make(map[V]K),
	}
}

// Put associates the key with the value.
// Any previous association of either the key or the value is removed, so both directions stay inverse.
func (m *BiMap[K, V]) Put(key K, value V) {
	if old, ok := m.forward.Get(bimapEntry[K, V]{key: key}); ok {
		delete(m.reverse, old.value)
	}
	if oldKey, ok := m.reverse[value]; ok {
		m.forward.Delete(bimapEntry[K, V]{key: oldKey})
	}
	m.forward.Set(bimapEntry[K, V]{key: key, value: value})
	m.reverse[value] = key
}

func (m *BiMap[K, V]) Value(key K) (V, bool) {
	item, ok := m.forward.Get(bimapEntry[K, V]{key: key})
	return item.value, ok
}

func (m *BiMap[K, V]) Key(value V) (K, bool) {
	key, ok := m.reverse[value]
	return key, ok
}

func (m *BiMap[K, V]) Len() int {
	return m.forward.Len()
}

// Scan iterates over the entries in key order, until f returns false.
func (m *BiMap[K, V]) Scan(f func(key K, value V) bool) {
	m.forward.Scan(func(item bimapEntry[K, V]) bool {
		return f(item.key, item.value)
	})
}
