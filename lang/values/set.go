package values

import (
	"strings"

	"github.com/dolthub/swiss"
)

type setEntry struct {
	key  Key
	v    Value
	live bool
}

// Set is a shared, insertion-ordered set keyed by Key, per spec.md §3.
// Same index-plus-entries shape as Map.
type Set struct {
	index     *swiss.Map[Key, int]
	entries   []setEntry
	liveCount int
	iterating int
}

// NewSet returns an empty set with initial capacity for at least size
// elements.
func NewSet(size int) *Set {
	if size < 1 {
		size = 1
	}
	return &Set{index: swiss.NewMap[Key, int](uint32(size))}
}

func (s *Set) String() string {
	var b strings.Builder
	b.WriteString("set(")
	first := true
	for _, e := range s.entries {
		if !e.live {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(e.v.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (s *Set) Type() string { return "set" }
func (s *Set) Truth() bool  { return s.liveCount > 0 }
func (s *Set) Len() int     { return s.liveCount }

// Has reports whether v is a member of the set.
func (s *Set) Has(v Value) (bool, error) {
	key, err := ToKey(v)
	if err != nil {
		return false, err
	}
	idx, ok := s.index.Get(key)
	return ok && s.entries[idx].live, nil
}

// Add inserts v, returning true if it was not already present.
func (s *Set) Add(v Value) (bool, error) {
	if s.iterating > 0 {
		return false, Newf(RuntimeErrorKind, "set modified while iterating")
	}
	key, err := ToKey(v)
	if err != nil {
		return false, err
	}
	if idx, ok := s.index.Get(key); ok && s.entries[idx].live {
		return false, nil
	}
	idx := len(s.entries)
	s.entries = append(s.entries, setEntry{key: key, v: v, live: true})
	s.index.Put(key, idx)
	s.liveCount++
	return true, nil
}

// Discard removes v, returning true if it was present.
func (s *Set) Discard(v Value) (bool, error) {
	if s.iterating > 0 {
		return false, Newf(RuntimeErrorKind, "set modified while iterating")
	}
	key, err := ToKey(v)
	if err != nil {
		return false, err
	}
	idx, ok := s.index.Get(key)
	if !ok || !s.entries[idx].live {
		return false, nil
	}
	s.entries[idx].live = false
	s.index.Delete(key)
	s.liveCount--
	return true, nil
}

// entries (used by ToKey to project a *Set used as a key) is exposed via
// the unexported iteration below rather than a public getter.
func (s *Set) liveValues() []Value {
	out := make([]Value, 0, s.liveCount)
	for _, e := range s.entries {
		if e.live {
			out = append(out, e.v)
		}
	}
	return out
}

// SetIterator walks a set's elements in insertion order.
type SetIterator struct {
	s    *Set
	idx  int
	done bool
}

// Iterate returns an iterator over s; the caller must call Done.
func (s *Set) Iterate() *SetIterator {
	s.iterating++
	return &SetIterator{s: s}
}

// Next reports whether there is a next element, writing it to *p.
func (it *SetIterator) Next(p *Value) bool {
	for it.idx < len(it.s.entries) {
		e := it.s.entries[it.idx]
		it.idx++
		if e.live {
			*p = e.v
			return true
		}
	}
	return false
}

// Done releases the iterator's hold on the set.
func (it *SetIterator) Done() {
	if it.done {
		return
	}
	it.done = true
	it.s.iterating--
}
