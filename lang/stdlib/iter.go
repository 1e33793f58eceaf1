package stdlib

import "github.com/mna/wisp/lang/values"

// elements drains v into a fresh slice, per the sequence types list/set/map
// builtins accept: a *List or *Set yields its own elements, a *Map yields
// its keys (mirroring Python's dict-iterates-keys convention), and a
// *Generator or *NativeGenerator is run to completion and yields its
// resumed values. Anything else is a TypeError.
func elements(v values.Value) ([]values.Value, error) {
	switch x := v.(type) {
	case *values.List:
		return append([]values.Value(nil), x.Elems()...), nil
	case *values.Set:
		it := x.Iterate()
		defer it.Done()
		return drain(it)
	case *values.Map:
		it := x.Iterate()
		defer it.Done()
		return drain(it)
	case *values.Generator:
		return drainGenerator(x)
	case *values.NativeGenerator:
		return drainGenerator(x)
	default:
		return nil, values.Newf(values.TypeErrorKind, "value of type %s is not iterable", v.Type())
	}
}

type valueIterator interface {
	Next(p *values.Value) bool
}

func drain(it valueIterator) ([]values.Value, error) {
	var out []values.Value
	var v values.Value
	for it.Next(&v) {
		out = append(out, v)
	}
	return out, nil
}

type resumable interface {
	Resume(arg values.Value) (val values.Value, done bool, err error)
}

func drainGenerator(g resumable) ([]values.Value, error) {
	var out []values.Value
	for {
		v, done, err := g.Resume(values.TheNil)
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		out = append(out, v)
	}
}
