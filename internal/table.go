package internal

import (
	"iter"
	"slices"
)

// Table is a name-keyed collection that remembers insertion order.
// The zero value is an empty table ready to use.
type Table[V any] struct {
	index map[string]int
	names []string
	items []V
}

// Len returns the number of entries.
func (tb *Table[V]) Len() int {
	return len(tb.names)
}

// Has reports whether name is present.
func (tb *Table[V]) Has(name string) (ok bool) {
	_, ok = tb.index[name]
	return
}

// Get looks up an entry by name.
func (tb *Table[V]) Get(name string) (value V, ok bool) {
	n, ok := tb.index[name]
	if ok {
		value = tb.items[n]
	}
	return
}

// Set adds an entry, or replaces an existing one in place.
// Returns true if the name was already present.
func (tb *Table[V]) Set(name string, value V) (replaced bool) {
	if tb.index == nil {
		tb.index = make(map[string]int)
	}

	n, replaced := tb.index[name]
	if replaced {
		tb.items[n] = value
		return
	}

	tb.index[name] = len(tb.names)
	tb.names = append(tb.names, name)
	tb.items = append(tb.items, value)

	return
}

// Delete removes an entry, preserving the order of the remainder.
func (tb *Table[V]) Delete(name string) {
	n, ok := tb.index[name]
	if !ok {
		return
	}

	tb.names = slices.Delete(tb.names, n, n+1)
	tb.items = slices.Delete(tb.items, n, n+1)
	delete(tb.index, name)
	for i := n; i < len(tb.names); i++ {
		tb.index[tb.names[i]] = i
	}
}

// Names returns the entry names in insertion order.
func (tb *Table[V]) Names() []string {
	return slices.Clone(tb.names)
}

// All iterates over entries in insertion order.
func (tb *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for n, name := range tb.names {
			if !yield(name, tb.items[n]) {
				return
			}
		}
	}
}

// Values iterates over entry values in insertion order.
func (tb *Table[V]) Values() iter.Seq[V] {
	return IterSeq2Values(tb.All())
}
