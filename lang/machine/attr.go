package machine

import "github.com/mna/wisp/lang/values"

// attrGet resolves base.name, per spec.md §9's open question: a Function
// found on a Handle's class binds the handle as an implicit receiver
// (BoundMethod); any other attribute value is returned unbound.
func attrGet(base values.Value, name string) (values.Value, error) {
	switch b := base.(type) {
	case *values.Handle:
		if fields, ok := b.Fields(); ok {
			if v, found, err := fields.Get(values.String(name)); err != nil {
				return nil, err
			} else if found {
				return v, nil
			}
		}
		if cls := b.Class(); cls != nil {
			if m, ok := cls.LookupMethod(name); ok {
				return &values.BoundMethod{Receiver: b, Fn: m}, nil
			}
			if v, ok := cls.LookupStatic(name); ok {
				return v, nil
			}
		}
		return nil, values.Newf(values.NameErrorKind, "%s has no attribute %q", base.Type(), name)
	case *values.Module:
		if v, ok := b.Attr(name); ok {
			return v, nil
		}
		return nil, values.Newf(values.NameErrorKind, "module %s has no attribute %q", b.Name, name)
	case *values.Class:
		if v, ok := b.LookupStatic(name); ok {
			return v, nil
		}
		if m, ok := b.LookupMethod(name); ok {
			return m, nil
		}
		return nil, values.Newf(values.NameErrorKind, "class %s has no attribute %q", b.Name, name)
	default:
		return nil, values.Newf(values.TypeErrorKind, "value of type %s has no attribute %q", base.Type(), name)
	}
}

// attrSet assigns base.name = v; only a Handle's instance fields are
// assignable.
func attrSet(base values.Value, name string, v values.Value) error {
	h, ok := base.(*values.Handle)
	if !ok {
		return values.Newf(values.TypeErrorKind, "value of type %s does not support attribute assignment", base.Type())
	}
	fields, ok := h.Fields()
	if !ok {
		return values.Newf(values.TypeErrorKind, "value of type %s does not support attribute assignment", base.Type())
	}
	return fields.SetKey(values.String(name), v)
}

// indexGet resolves base[idx].
func indexGet(base, idx values.Value) (values.Value, error) {
	switch b := base.(type) {
	case *values.List:
		i, err := indexInt(idx, b.Len())
		if err != nil {
			return nil, err
		}
		return b.Index(i), nil
	case *values.Map:
		v, found, err := b.Get(idx)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, values.Newf(values.ValueErrorKind, "key not found: %s", idx.String())
		}
		return v, nil
	case values.String:
		i, err := indexInt(idx, len(b))
		if err != nil {
			return nil, err
		}
		return values.String(string(b)[i]), nil
	default:
		return nil, values.Newf(values.TypeErrorKind, "value of type %s is not indexable", base.Type())
	}
}

// indexSet assigns base[idx] = v.
func indexSet(base, idx, v values.Value) error {
	switch b := base.(type) {
	case *values.List:
		i, err := indexInt(idx, b.Len())
		if err != nil {
			return err
		}
		return b.SetIndex(i, v)
	case *values.Map:
		return b.SetKey(idx, v)
	default:
		return values.Newf(values.TypeErrorKind, "value of type %s does not support index assignment", base.Type())
	}
}

// indexInt validates idx as an in-range integer index into a sequence of
// the given length, resolving negative indices from the end.
func indexInt(idx values.Value, length int) (int, error) {
	n, ok := idx.(values.Number)
	if !ok {
		return 0, values.Newf(values.TypeErrorKind, "index must be a number, got %s", idx.Type())
	}
	i := int(n)
	if float64(i) != float64(n) {
		return 0, values.Newf(values.ValueErrorKind, "index must be an integer")
	}
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, values.Newf(values.ValueErrorKind, "index out of range")
	}
	return i, nil
}
