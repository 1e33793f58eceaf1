package stdlib

import "github.com/mna/wisp/lang/values"

var lenFunc = &values.NativeFunction{
	Name: "len",
	Spec: required("x"),
	Fn: func(args []values.Value) (values.Value, error) {
		switch x := args[0].(type) {
		case values.String:
			return values.Number(len(x)), nil
		case *values.List:
			return values.Number(x.Len()), nil
		case *values.Map:
			return values.Number(x.Len()), nil
		case *values.Set:
			return values.Number(x.Len()), nil
		default:
			return nil, values.Newf(values.TypeErrorKind, "len: value of type %s has no length", args[0].Type())
		}
	},
}

// listFunc builds a new list from an iterable, or an empty list if called
// with no argument (mirroring the variadic-optional convention Python's
// list() constructor uses).
var listFunc = &values.NativeFunction{
	Name: "list",
	Spec: values.ArgSpec{Variadic: "args"},
	Fn: func(args []values.Value) (values.Value, error) {
		packed := args[0].(*values.List)
		switch packed.Len() {
		case 0:
			return values.NewList(nil), nil
		case 1:
			elems, err := elements(packed.Index(0))
			if err != nil {
				return nil, err
			}
			return values.NewList(elems), nil
		default:
			return nil, values.Newf(values.ArgumentErrorKind, "list: too many arguments")
		}
	},
}

var setFunc = &values.NativeFunction{
	Name: "set",
	Spec: values.ArgSpec{Variadic: "args"},
	Fn: func(args []values.Value) (values.Value, error) {
		packed := args[0].(*values.List)
		if packed.Len() > 1 {
			return nil, values.Newf(values.ArgumentErrorKind, "set: too many arguments")
		}
		s := values.NewSet(8)
		if packed.Len() == 0 {
			return s, nil
		}
		elems, err := elements(packed.Index(0))
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			if _, err := s.Add(e); err != nil {
				return nil, err
			}
		}
		return s, nil
	},
}

// mapFunc builds a new map from an iterable of 2-element [key, value]
// lists, or copies an existing map's entries; called with no argument it
// returns an empty map.
var mapFunc = &values.NativeFunction{
	Name: "map",
	Spec: values.ArgSpec{Variadic: "args"},
	Fn: func(args []values.Value) (values.Value, error) {
		packed := args[0].(*values.List)
		if packed.Len() > 1 {
			return nil, values.Newf(values.ArgumentErrorKind, "map: too many arguments")
		}
		if packed.Len() == 0 {
			return values.NewMap(0), nil
		}
		src := packed.Index(0)
		if m, ok := src.(*values.Map); ok {
			out := values.NewMap(m.Len())
			for _, kv := range m.Items() {
				if err := out.SetKey(kv[0], kv[1]); err != nil {
					return nil, err
				}
			}
			return out, nil
		}
		pairs, err := elements(src)
		if err != nil {
			return nil, err
		}
		out := values.NewMap(len(pairs))
		for i, p := range pairs {
			pl, ok := p.(*values.List)
			if !ok || pl.Len() != 2 {
				return nil, values.Newf(values.ValueErrorKind, "map: entry %d is not a 2-element [key, value] list", i)
			}
			if err := out.SetKey(pl.Index(0), pl.Index(1)); err != nil {
				return nil, err
			}
		}
		return out, nil
	},
}

// appendFunc mutates lst in place, per spec.md's interior-mutable List,
// returning nil like Python's list.append rather than the list itself.
var appendFunc = &values.NativeFunction{
	Name: "append",
	Spec: required("lst", "value"),
	Fn: func(args []values.Value) (values.Value, error) {
		lst, ok := args[0].(*values.List)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "append: expected list, got %s", args[0].Type())
		}
		if err := lst.Append(args[1]); err != nil {
			return nil, err
		}
		return values.TheNil, nil
	},
}

var keysFunc = &values.NativeFunction{
	Name: "keys",
	Spec: required("m"),
	Fn: func(args []values.Value) (values.Value, error) {
		m, ok := args[0].(*values.Map)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "keys: expected map, got %s", args[0].Type())
		}
		items := m.Items()
		out := make([]values.Value, len(items))
		for i, kv := range items {
			out[i] = kv[0]
		}
		return values.NewList(out), nil
	},
}

var valuesFunc = &values.NativeFunction{
	Name: "values",
	Spec: required("m"),
	Fn: func(args []values.Value) (values.Value, error) {
		m, ok := args[0].(*values.Map)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "values: expected map, got %s", args[0].Type())
		}
		items := m.Items()
		out := make([]values.Value, len(items))
		for i, kv := range items {
			out[i] = kv[1]
		}
		return values.NewList(out), nil
	},
}
