package stdlib

import (
	"math"

	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/values"
)

var absFunc = &values.NativeFunction{
	Name: "abs",
	Spec: required("x"),
	Fn: func(args []values.Value) (values.Value, error) {
		n, ok := args[0].(values.Number)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "abs: expected number, got %s", args[0].Type())
		}
		return values.Number(math.Abs(float64(n))), nil
	},
}

var minFunc = &values.NativeFunction{
	Name: "min",
	Spec: values.ArgSpec{Variadic: "args"},
	Fn:   func(args []values.Value) (values.Value, error) { return extremum(args[0], -1) },
}

var maxFunc = &values.NativeFunction{
	Name: "max",
	Spec: values.ArgSpec{Variadic: "args"},
	Fn:   func(args []values.Value) (values.Value, error) { return extremum(args[0], 1) },
}

// extremum implements both min and max: args is the sole variadic-tail
// list (NativeFunction receives it pre-collected per spec.md §4.4). A
// single list/set argument is unpacked as the candidate set, mirroring
// Python's min/max dual calling convention (min(a, b, c) or min(iterable)).
func extremum(packed values.Value, want int) (values.Value, error) {
	list, ok := packed.(*values.List)
	if !ok {
		return nil, values.Newf(values.RuntimeErrorKind, "internal error: variadic tail is not a list")
	}
	candidates := list.Elems()
	if len(candidates) == 1 {
		if elems, err := elements(candidates[0]); err == nil {
			candidates = elems
		}
	}
	if len(candidates) == 0 {
		return nil, values.Newf(values.ArgumentErrorKind, "min/max: no arguments")
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		cmp, err := machine.Compare(c, best)
		if err != nil {
			return nil, err
		}
		if cmp == want {
			best = c
		}
	}
	return best, nil
}
