package machine

import "github.com/mna/wisp/lang/values"

// sourceIterator is the structural shape common to List/Map/Set's
// iterator types (they are not declared against a shared interface in
// lang/values, but all three satisfy this).
type sourceIterator interface {
	Next(p *values.Value) bool
	Done()
}

// vmIterator is the operand-stack value OpIterStart produces: a live
// iterator over a List, Set or Map, kept on the stack beneath the values
// it yields until the loop that owns it ends (see lang/compiler's
// forInStmt doc comment).
type vmIterator struct {
	it     sourceIterator
	mapSrc *values.Map // non-nil only when iterating a Map, to support 2-var key/value unpacking
}

func (*vmIterator) String() string { return "<iterator>" }
func (*vmIterator) Type() string   { return "iterator" }
func (*vmIterator) Truth() bool    { return true }

// newIterator builds a vmIterator over v, or a TypeError if v cannot be
// iterated.
func newIterator(v values.Value) (*vmIterator, error) {
	switch x := v.(type) {
	case *values.List:
		return &vmIterator{it: x.Iterate()}, nil
	case *values.Set:
		return &vmIterator{it: x.Iterate()}, nil
	case *values.Map:
		return &vmIterator{it: x.Iterate(), mapSrc: x}, nil
	default:
		return nil, values.Newf(values.TypeErrorKind, "value of type %s is not iterable", v.Type())
	}
}

// nextValues advances the iterator, returning n values to push in loop-var
// order (vars[0]..vars[n-1]), or ok=false once exhausted. A single-value
// source only supports n==1; a Map source also supports n==2 (key, value).
func (vi *vmIterator) nextValues(n int) (vals []values.Value, ok bool, err error) {
	var cur values.Value
	if !vi.it.Next(&cur) {
		return nil, false, nil
	}
	switch n {
	case 1:
		return []values.Value{cur}, true, nil
	case 2:
		if vi.mapSrc == nil {
			return nil, false, values.Newf(values.RuntimeErrorKind, "cannot unpack into 2 loop variables")
		}
		v, found, err := vi.mapSrc.Get(cur)
		if err != nil {
			return nil, false, err
		}
		if !found {
			v = values.TheNil
		}
		return []values.Value{cur, v}, true, nil
	default:
		return nil, false, values.Newf(values.RuntimeErrorKind, "cannot unpack into %d loop variables", n)
	}
}

func (vi *vmIterator) done() { vi.it.Done() }
