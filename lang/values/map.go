package values

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
)

// mapEntry is one slot of a Map's append-only entry slice. Deleted entries
// are tombstoned (key set to the zero Key and live=false) rather than
// removed, so iterator indices taken before a delete stay valid.
type mapEntry struct {
	key  Key
	k    Value
	v    Value
	live bool
}

// Map is a shared, insertion-ordered mapping from Key to Value, per
// spec.md §3. It pairs a github.com/dolthub/swiss hash index (Key → slot)
// with an append-only entry slice, extending the teacher's
// lang/machine/map.go (an unordered swiss.Map[Value, Value]) with the
// order-preserving slice a language that promises dict ordering needs.
type Map struct {
	index     *swiss.Map[Key, int]
	entries   []mapEntry
	liveCount int
	iterating int
}

// NewMap returns an empty map with initial capacity for at least size
// entries.
func NewMap(size int) *Map {
	if size < 1 {
		size = 1
	}
	return &Map{index: swiss.NewMap[Key, int](uint32(size))}
}

func (m *Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, e := range m.entries {
		if !e.live {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %s", e.k.String(), e.v.String())
	}
	b.WriteByte('}')
	return b.String()
}

func (m *Map) Type() string { return "map" }
func (m *Map) Truth() bool  { return m.liveCount > 0 }
func (m *Map) Len() int     { return m.liveCount }

// Get returns the value for key k, or !found if absent.
func (m *Map) Get(k Value) (Value, bool, error) {
	key, err := ToKey(k)
	if err != nil {
		return nil, false, err
	}
	idx, ok := m.index.Get(key)
	if !ok || !m.entries[idx].live {
		return nil, false, nil
	}
	return m.entries[idx].v, true, nil
}

// SetKey sets k to v, inserting a new entry at the end of iteration order
// if k is not already present.
func (m *Map) SetKey(k, v Value) error {
	if m.iterating > 0 {
		return Newf(RuntimeErrorKind, "map modified while iterating")
	}
	key, err := ToKey(k)
	if err != nil {
		return err
	}
	if idx, ok := m.index.Get(key); ok && m.entries[idx].live {
		m.entries[idx].v = v
		return nil
	}
	idx := len(m.entries)
	m.entries = append(m.entries, mapEntry{key: key, k: k, v: v, live: true})
	m.index.Put(key, idx)
	m.liveCount++
	return nil
}

// Delete removes k's entry, if present.
func (m *Map) Delete(k Value) (bool, error) {
	if m.iterating > 0 {
		return false, Newf(RuntimeErrorKind, "map modified while iterating")
	}
	key, err := ToKey(k)
	if err != nil {
		return false, err
	}
	idx, ok := m.index.Get(key)
	if !ok || !m.entries[idx].live {
		return false, nil
	}
	m.entries[idx].live = false
	m.index.Delete(key)
	m.liveCount--
	return true, nil
}

// Items returns the map's live (key, value) pairs in insertion order.
func (m *Map) Items() [][2]Value {
	out := make([][2]Value, 0, m.liveCount)
	for _, e := range m.entries {
		if e.live {
			out = append(out, [2]Value{e.k, e.v})
		}
	}
	return out
}

// MapIterator walks a map's keys in insertion order.
type MapIterator struct {
	m    *Map
	idx  int
	done bool
}

// Iterate returns an iterator over m's keys; the caller must call Done.
func (m *Map) Iterate() *MapIterator {
	m.iterating++
	return &MapIterator{m: m}
}

// Next reports whether there is a next key, writing it to *p.
func (it *MapIterator) Next(p *Value) bool {
	for it.idx < len(it.m.entries) {
		e := it.m.entries[it.idx]
		it.idx++
		if e.live {
			*p = e.k
			return true
		}
	}
	return false
}

// Done releases the iterator's hold on the map.
func (it *MapIterator) Done() {
	if it.done {
		return
	}
	it.done = true
	it.m.iterating--
}
