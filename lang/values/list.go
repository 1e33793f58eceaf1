package values

import (
	"fmt"
	"strings"
)

// List is a shared, interior-mutable ordered sequence of Value, per
// spec.md §3. Per §5, it applies checked borrow discipline: mutation while
// an iterator is active is a runtime error rather than an undefined
// result, the concrete case named by spec.md §5 ("a list being iterated
// while it is mutated by a callback").
type List struct {
	elems     []Value
	iterating int
}

// NewList returns a list containing elems (not copied).
func NewList(elems []Value) *List {
	return &List{elems: elems}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		if s, ok := e.(String); ok {
			fmt.Fprintf(&b, "%q", string(s))
		} else {
			b.WriteString(e.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}

func (l *List) Type() string { return "list" }
func (l *List) Truth() bool  { return len(l.elems) > 0 }
func (l *List) Len() int     { return len(l.elems) }

// Index returns the element at i, which must satisfy 0 <= i < Len().
func (l *List) Index(i int) Value { return l.elems[i] }

// SetIndex assigns v at index i, which must satisfy 0 <= i < Len().
func (l *List) SetIndex(i int, v Value) error {
	if l.iterating > 0 {
		return Newf(RuntimeErrorKind, "list modified while iterating")
	}
	l.elems[i] = v
	return nil
}

// Append adds v to the end of the list.
func (l *List) Append(v Value) error {
	if l.iterating > 0 {
		return Newf(RuntimeErrorKind, "list modified while iterating")
	}
	l.elems = append(l.elems, v)
	return nil
}

// Elems returns the list's backing slice; callers must not retain it past
// a subsequent mutation.
func (l *List) Elems() []Value { return l.elems }

// ListIterator walks a list's elements, marking the list as under
// iteration for the iterator's lifetime so concurrent mutation is
// detected.
type ListIterator struct {
	l   *List
	idx int
	done bool
}

// Iterate returns an iterator over l; the caller must call Done.
func (l *List) Iterate() *ListIterator {
	l.iterating++
	return &ListIterator{l: l}
}

// Next reports whether there is a next element, writing it to *p.
func (it *ListIterator) Next(p *Value) bool {
	if it.idx >= len(it.l.elems) {
		return false
	}
	*p = it.l.elems[it.idx]
	it.idx++
	return true
}

// Done releases the iterator's hold on the list.
func (it *ListIterator) Done() {
	if it.done {
		return
	}
	it.done = true
	it.l.iterating--
}
