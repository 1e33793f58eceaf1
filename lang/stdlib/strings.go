package stdlib

import (
	"strings"

	"github.com/mna/wisp/lang/values"
)

var strFunc = &values.NativeFunction{
	Name: "str",
	Spec: required("x"),
	Fn: func(args []values.Value) (values.Value, error) {
		return values.String(args[0].String()), nil
	},
}

var upperFunc = &values.NativeFunction{
	Name: "upper",
	Spec: required("s"),
	Fn: func(args []values.Value) (values.Value, error) {
		s, ok := args[0].(values.String)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "upper: expected string, got %s", args[0].Type())
		}
		return values.String(strings.ToUpper(string(s))), nil
	},
}

var lowerFunc = &values.NativeFunction{
	Name: "lower",
	Spec: required("s"),
	Fn: func(args []values.Value) (values.Value, error) {
		s, ok := args[0].(values.String)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "lower: expected string, got %s", args[0].Type())
		}
		return values.String(strings.ToLower(string(s))), nil
	},
}

// splitFunc splits s on sep, or on runs of whitespace when sep is omitted
// (nil), mirroring Python's str.split().
var splitFunc = &values.NativeFunction{
	Name: "split",
	Spec: values.ArgSpec{Params: []values.Param{
		{Name: "s"},
		{Name: "sep", Default: values.TheNil},
	}},
	Fn: func(args []values.Value) (values.Value, error) {
		s, ok := args[0].(values.String)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "split: expected string, got %s", args[0].Type())
		}
		var parts []string
		if _, isNil := args[1].(values.Nil); isNil {
			parts = strings.Fields(string(s))
		} else {
			sep, ok := args[1].(values.String)
			if !ok {
				return nil, values.Newf(values.TypeErrorKind, "split: expected string separator, got %s", args[1].Type())
			}
			parts = strings.Split(string(s), string(sep))
		}
		elems := make([]values.Value, len(parts))
		for i, p := range parts {
			elems[i] = values.String(p)
		}
		return values.NewList(elems), nil
	},
}

// joinFunc joins items (a list of strings) with sep between each.
var joinFunc = &values.NativeFunction{
	Name: "join",
	Spec: required("sep", "items"),
	Fn: func(args []values.Value) (values.Value, error) {
		sep, ok := args[0].(values.String)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "join: expected string separator, got %s", args[0].Type())
		}
		elems, err := elements(args[1])
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(elems))
		for i, e := range elems {
			s, ok := e.(values.String)
			if !ok {
				return nil, values.Newf(values.TypeErrorKind, "join: element %d is not a string, got %s", i, e.Type())
			}
			parts[i] = string(s)
		}
		return values.String(strings.Join(parts, string(sep))), nil
	},
}
